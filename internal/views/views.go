// Package views assembles the per-page view models served to clients. Each
// section records whether its data came from the backend or from demo data.
package views

import (
	"context"

	"syncportal/internal/gateway"
	"syncportal/internal/models"
)

// DefaultAchievementType groups achievements that carry no type.
const DefaultAchievementType = "أخرى"

const profileHighlights = 3

type Gateway interface {
	Forecast(ctx context.Context) gateway.Result[models.ForecastData]
	Transcript(ctx context.Context, studentID string) gateway.Result[models.StudentProfile]
	SkillGap(ctx context.Context, studentID string) gateway.Result[models.SkillGapData]
	JobMatch(ctx context.Context, studentID string) gateway.Result[models.JobMatchData]
	Candidates(ctx context.Context) gateway.Result[[]models.Candidate]
	PredictiveScore(ctx context.Context, studentID string) gateway.Result[models.PredictiveScore]
	StudentMetrics(ctx context.Context, studentID string) gateway.Result[models.StudentMetrics]
}

type PendingLister interface {
	ListPending(ctx context.Context) ([]models.PendingItem, error)
}

type Section[T any] struct {
	Source gateway.Source `json:"source"`
	Data   T              `json:"data"`
}

func section[T any](r gateway.Result[T]) Section[T] {
	return Section[T]{Source: r.Source, Data: r.Value}
}

type DashboardView struct {
	Role     models.UserRole              `json:"role"`
	Forecast Section[models.ForecastData] `json:"forecast"`
}

type ProfileView struct {
	Profile    Section[models.StudentProfile] `json:"profile"`
	Highlights []models.Achievement           `json:"highlights"`
	JobMatch   Section[models.JobMatchData]   `json:"job_match"`
}

type AchievementGroup struct {
	Type         string               `json:"type"`
	Achievements []models.Achievement `json:"achievements"`
}

type AchievementsView struct {
	Source      gateway.Source     `json:"source"`
	StudentName string             `json:"student_name"`
	Total       int                `json:"total"`
	Groups      []AchievementGroup `json:"groups"`
}

type SkillGapView struct {
	SkillGap Section[models.SkillGapData] `json:"skill_gap"`
}

type CandidateRow struct {
	Candidate models.Candidate                `json:"candidate"`
	Score     Section[models.PredictiveScore] `json:"score"`
}

type HRDashboardView struct {
	Source     gateway.Source `json:"source"`
	Candidates []CandidateRow `json:"candidates"`
}

type CandidateMetricsView struct {
	CandidateID string                         `json:"candidate_id"`
	Metrics     Section[models.StudentMetrics] `json:"metrics"`
}

type ReviewView struct {
	Count  int                  `json:"count"`
	Offset int                  `json:"offset"`
	Items  []models.PendingItem `json:"items"`
}

type Builder struct {
	gw        Gateway
	queue     PendingLister
	studentID string
}

// NewBuilder returns a Builder whose student pages show studentID.
func NewBuilder(gw Gateway, queue PendingLister, studentID string) *Builder {
	return &Builder{gw: gw, queue: queue, studentID: studentID}
}

func (b *Builder) Dashboard(ctx context.Context, role models.UserRole) (DashboardView, error) {
	forecast := b.gw.Forecast(ctx)
	if err := ctx.Err(); err != nil {
		return DashboardView{}, err
	}
	return DashboardView{Role: role, Forecast: section(forecast)}, nil
}

func (b *Builder) Profile(ctx context.Context) (ProfileView, error) {
	profile := b.gw.Transcript(ctx, b.studentID)
	match := b.gw.JobMatch(ctx, b.studentID)
	if err := ctx.Err(); err != nil {
		return ProfileView{}, err
	}

	highlights := profile.Value.Achievements
	if len(highlights) > profileHighlights {
		highlights = highlights[:profileHighlights]
	}
	if highlights == nil {
		highlights = []models.Achievement{}
	}

	return ProfileView{
		Profile:    section(profile),
		Highlights: highlights,
		JobMatch:   section(match),
	}, nil
}

func (b *Builder) Achievements(ctx context.Context) (AchievementsView, error) {
	profile := b.gw.Transcript(ctx, b.studentID)
	if err := ctx.Err(); err != nil {
		return AchievementsView{}, err
	}
	return AchievementsView{
		Source:      profile.Source,
		StudentName: profile.Value.Name,
		Total:       len(profile.Value.Achievements),
		Groups:      GroupAchievements(profile.Value.Achievements),
	}, nil
}

// GroupAchievements groups by type, keeping the order in which each type
// first appears and the original order inside a group.
func GroupAchievements(items []models.Achievement) []AchievementGroup {
	groups := []AchievementGroup{}
	index := map[string]int{}
	for _, a := range items {
		kind := a.Type
		if kind == "" {
			kind = DefaultAchievementType
		}
		i, ok := index[kind]
		if !ok {
			i = len(groups)
			index[kind] = i
			groups = append(groups, AchievementGroup{Type: kind})
		}
		groups[i].Achievements = append(groups[i].Achievements, a)
	}
	return groups
}

func (b *Builder) SkillGap(ctx context.Context) (SkillGapView, error) {
	gap := b.gw.SkillGap(ctx, b.studentID)
	if err := ctx.Err(); err != nil {
		return SkillGapView{}, err
	}
	return SkillGapView{SkillGap: section(gap)}, nil
}

// HRDashboard fetches the candidate list, then one score per candidate in
// list order.
func (b *Builder) HRDashboard(ctx context.Context) (HRDashboardView, error) {
	candidates := b.gw.Candidates(ctx)
	rows := make([]CandidateRow, 0, len(candidates.Value))
	for _, c := range candidates.Value {
		if err := ctx.Err(); err != nil {
			return HRDashboardView{}, err
		}
		rows = append(rows, CandidateRow{
			Candidate: c,
			Score:     section(b.gw.PredictiveScore(ctx, c.ID)),
		})
	}
	if err := ctx.Err(); err != nil {
		return HRDashboardView{}, err
	}
	return HRDashboardView{Source: candidates.Source, Candidates: rows}, nil
}

func (b *Builder) CandidateMetrics(ctx context.Context, candidateID string) (CandidateMetricsView, error) {
	metrics := b.gw.StudentMetrics(ctx, candidateID)
	if err := ctx.Err(); err != nil {
		return CandidateMetricsView{}, err
	}
	return CandidateMetricsView{CandidateID: candidateID, Metrics: section(metrics)}, nil
}

// Review lists pending items. Count is the full pending total; Items holds
// at most limit entries starting at offset, or all of them when limit is 0.
func (b *Builder) Review(ctx context.Context, limit, offset int) (ReviewView, error) {
	items, err := b.queue.ListPending(ctx)
	if err != nil {
		return ReviewView{}, err
	}

	if offset < 0 {
		offset = 0
	}
	view := ReviewView{Count: len(items), Offset: offset}
	if offset > len(items) {
		offset = len(items)
	}
	end := len(items)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	view.Items = items[offset:end]
	return view, nil
}
