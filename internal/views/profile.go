package views

import "github.com/anonto42/ecobite/web/internal/models"

const (
	levelThreshold = 50
	maxAchievement = 10
)

// Points is the profile score: 10 per post created, 20 per post shared.
func Points(s models.UserStats) int {
	return s.PostsCreated*10 + s.PostsShared*20
}

// LevelPercent is the progress bar fill toward the level threshold, capped at 100.
func LevelPercent(points int) int {
	return min(100, points*100/levelThreshold)
}

// AchievementProgress combines one step per three posts created and one per
// two posts shared, capped at ten.
func AchievementProgress(s models.UserStats) int {
	return min(maxAchievement, s.PostsCreated/3+s.PostsShared/2)
}

// ProfilePage is the Profile view model.
type ProfilePage struct {
	Context
	HasStats       bool
	PostsCreated   int
	PostsShared    int
	ClaimsMade     int
	ClaimsAccepted int
	WeightShared   string
	Meals          int
	MemberFor      string
	Points         int
	LevelText      string
	LevelPercent   int
	Achievement    string
}

// BuildProfile derives presentation values from the viewer's stats. A nil
// stats value renders the zero state.
func BuildProfile(ctx Context, stats *models.UserStats) ProfilePage {
	ctx.Nav = "profile"
	var s models.UserStats
	if stats != nil {
		s = *stats
	}
	pts := Points(s)
	return ProfilePage{
		Context:        ctx,
		HasStats:       stats != nil,
		PostsCreated:   s.PostsCreated,
		PostsShared:    s.PostsShared,
		ClaimsMade:     s.ClaimsMade,
		ClaimsAccepted: s.ClaimsAccepted,
		WeightShared:   models.FormatKg(s.WeightSharedKg) + "kg",
		Meals:          s.PostsShared,
		MemberFor:      plural(DaysSince(s.JoinDate, ctx.Now), "day"),
		Points:         pts,
		LevelText:      itoa(pts) + "/" + itoa(levelThreshold) + " pts",
		LevelPercent:   LevelPercent(pts),
		Achievement:    itoa(AchievementProgress(s)) + "/" + itoa(maxAchievement),
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return itoa(n) + " " + unit + "s"
}
