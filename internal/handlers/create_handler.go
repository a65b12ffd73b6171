package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/models"
	"github.com/anonto42/ecobite/web/internal/validators"
	"github.com/anonto42/ecobite/web/internal/views"
)

// Geocoder turns coordinates into a location label.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) string
}

// CreateHandler serves the share-food form
type CreateHandler struct {
	*Pages
	postService gateway.PostService
	geocoder    Geocoder
}

// NewCreateHandler creates a new CreateHandler
func NewCreateHandler(pages *Pages, posts gateway.PostService, geocoder Geocoder) *CreateHandler {
	return &CreateHandler{Pages: pages, postService: posts, geocoder: geocoder}
}

// RegisterCreateRoutes registers create-related routes
func (h *CreateHandler) RegisterCreateRoutes(g *echo.Group) {
	g.GET("/create", h.GetCreate)
	g.POST("/create", h.CreatePost)
	g.GET("/create/locate", h.Locate)
	g.POST("/create/locate", h.LocateForm)
}

// GetCreate renders an empty form.
func (h *CreateHandler) GetCreate(c echo.Context) error {
	return c.Render(http.StatusOK, "create", views.BuildCreate(h.viewContext(c), models.CreatePostRequest{}, ""))
}

func bindCreateForm(c echo.Context) (models.CreatePostRequest, error) {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.LocationText = strings.TrimSpace(req.LocationText)
	return req, nil
}

// CreatePost validates the form and creates the post. A photo switches the
// payload to multipart. Any failure re-renders the form with what was entered.
func (h *CreateHandler) CreatePost(c echo.Context) error {
	req, err := bindCreateForm(c)
	if err != nil {
		return err
	}

	if err := c.Validate(&req); err != nil {
		return h.renderForm(c, http.StatusUnprocessableEntity, req, validators.Message(err))
	}
	req.Normalize()

	payload := gateway.JSONPost(req)
	photo, err := c.FormFile("photo")
	if err == nil && photo.Size > 0 {
		file, err := photo.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Could not read the uploaded photo")
		}
		defer file.Close()
		payload = multipartPost(req, photo, file)
	}

	if _, err := h.postService.CreatePost(c.Request().Context(), payload); err != nil {
		h.logger.Warn("create post failed", "error", err, "request_id", requestID(c))
		return h.renderForm(c, http.StatusOK, req, gateway.UserMessage(err))
	}
	return seeOther(c, "/")
}

func (h *CreateHandler) renderForm(c echo.Context, status int, req models.CreatePostRequest, msg string) error {
	page := views.BuildCreate(h.viewContext(c), req, msg)
	page.Lat, page.Lng = c.FormValue("lat"), c.FormValue("lng")
	return c.Render(status, "create", page)
}

// multipartPost carries the form fields under the names the backend's form
// parser reads, plus the photo.
func multipartPost(req models.CreatePostRequest, header *multipart.FileHeader, file multipart.File) gateway.MultipartPost {
	fields := url.Values{}
	fields.Set("title", req.Title)
	fields.Set("description", req.Description)
	fields.Set("category", req.Category)
	fields.Set("qty", req.Quantity)
	fields.Set("location", req.LocationText)
	fields.Set("expiry_time", req.ExpiresAt)
	fields.Set("pickup_window_end", req.PickupWindowEnd)
	for _, tag := range req.DietaryTags {
		fields.Add("diet", tag)
	}
	return gateway.MultipartPost{
		Fields: fields,
		Image: &gateway.ImagePart{
			FieldName:   "photo",
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     file,
		},
	}
}

func parseCoordinates(rawLat, rawLng string) (lat, lng float64, err error) {
	lat, err = strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Latitude must be a number between -90 and 90")
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(rawLng), 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Longitude must be a number between -180 and 180")
	}
	return lat, lng, nil
}

// Locate reverse-geocodes the given coordinates for the location field. It
// backs the form's "Use my location" button.
func (h *CreateHandler) Locate(c echo.Context) error {
	lat, lng, err := parseCoordinates(c.QueryParam("lat"), c.QueryParam("lng"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"location": h.geocoder.Reverse(c.Request().Context(), lat, lng),
	})
}

// LocateForm is the script-free address lookup: the whole form is posted
// here and re-rendered with the location filled in, keeping what was entered.
func (h *CreateHandler) LocateForm(c echo.Context) error {
	req, err := bindCreateForm(c)
	if err != nil {
		return err
	}
	lat, lng, err := parseCoordinates(c.FormValue("lat"), c.FormValue("lng"))
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return h.renderForm(c, http.StatusUnprocessableEntity, req, fmt.Sprint(he.Message))
		}
		return err
	}
	req.LocationText = h.geocoder.Reverse(c.Request().Context(), lat, lng)
	return h.renderForm(c, http.StatusOK, req, "")
}
