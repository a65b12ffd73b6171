package views

import (
	"slices"

	"github.com/anonto42/ecobite/web/internal/models"
)

// Option is a selectable form value.
type Option struct {
	Value    string
	Selected bool
}

// CreatePage is the create form view model. On a failed submit it carries the
// entered values back together with the error.
type CreatePage struct {
	Context
	Form       models.CreatePostRequest
	Error      string
	Categories []Option
	Dietary    []Option
	// Lat and Lng echo the coordinates of the last address lookup.
	Lat string
	Lng string
}

// BuildCreate builds the create form, preselecting any entered values.
func BuildCreate(ctx Context, form models.CreatePostRequest, errMsg string) CreatePage {
	ctx.Nav = "create"
	category := form.Category
	if category == "" {
		category = "Other"
	}
	page := CreatePage{Context: ctx, Form: form, Error: errMsg}
	for _, c := range Categories {
		page.Categories = append(page.Categories, Option{Value: c, Selected: c == category})
	}
	for _, d := range DietaryOptions {
		page.Dietary = append(page.Dietary, Option{Value: d, Selected: slices.Contains(form.DietaryTags, d)})
	}
	return page
}
