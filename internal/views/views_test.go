package views

import (
	"context"
	"errors"
	"math"
	"testing"

	"syncportal/internal/gateway"
	"syncportal/internal/models"
)

type stubGateway struct {
	profile    models.StudentProfile
	candidates []models.Candidate
	scored     []string
	source     gateway.Source
}

func (s *stubGateway) Forecast(ctx context.Context) gateway.Result[models.ForecastData] {
	return gateway.Result[models.ForecastData]{Source: s.source, Value: models.ForecastData{Title: "forecast"}}
}

func (s *stubGateway) Transcript(ctx context.Context, studentID string) gateway.Result[models.StudentProfile] {
	return gateway.Result[models.StudentProfile]{Source: s.source, Value: s.profile}
}

func (s *stubGateway) SkillGap(ctx context.Context, studentID string) gateway.Result[models.SkillGapData] {
	return gateway.Result[models.SkillGapData]{Source: s.source, Value: models.SkillGapData{TargetRole: "role-" + studentID}}
}

func (s *stubGateway) JobMatch(ctx context.Context, studentID string) gateway.Result[models.JobMatchData] {
	return gateway.Result[models.JobMatchData]{Source: s.source, Value: models.JobMatchData{Score: 90}}
}

func (s *stubGateway) Candidates(ctx context.Context) gateway.Result[[]models.Candidate] {
	return gateway.Result[[]models.Candidate]{Source: s.source, Value: s.candidates}
}

func (s *stubGateway) PredictiveScore(ctx context.Context, studentID string) gateway.Result[models.PredictiveScore] {
	s.scored = append(s.scored, studentID)
	return gateway.Result[models.PredictiveScore]{Source: gateway.SourceSynthesized, Value: models.PredictiveScore{Score: len(s.scored)}}
}

func (s *stubGateway) StudentMetrics(ctx context.Context, studentID string) gateway.Result[models.StudentMetrics] {
	return gateway.Result[models.StudentMetrics]{Source: s.source, Value: models.StudentMetrics{StudentID: studentID}}
}

type stubLister struct {
	items []models.PendingItem
	err   error
}

func (s stubLister) ListPending(ctx context.Context) ([]models.PendingItem, error) {
	return s.items, s.err
}

func TestGroupAchievements(t *testing.T) {
	items := []models.Achievement{
		{ID: 1, Type: "شهادة"},
		{ID: 2, Type: ""},
		{ID: 3, Type: "دورة"},
		{ID: 4, Type: "شهادة"},
		{ID: 5},
	}
	groups := GroupAchievements(items)

	wantTypes := []string{"شهادة", DefaultAchievementType, "دورة"}
	if len(groups) != len(wantTypes) {
		t.Fatalf("expected %d groups, got %d", len(wantTypes), len(groups))
	}
	for i, want := range wantTypes {
		if groups[i].Type != want {
			t.Fatalf("group %d: expected %q, got %q", i, want, groups[i].Type)
		}
	}
	if ids := []int{groups[0].Achievements[0].ID, groups[0].Achievements[1].ID}; ids[0] != 1 || ids[1] != 4 {
		t.Fatalf("unexpected order inside group: %v", ids)
	}
	if len(groups[1].Achievements) != 2 {
		t.Fatalf("expected two untyped achievements, got %d", len(groups[1].Achievements))
	}
}

func TestGroupAchievementsEmpty(t *testing.T) {
	if groups := GroupAchievements(nil); groups == nil || len(groups) != 0 {
		t.Fatalf("expected empty non-nil groups, got %#v", groups)
	}
}

func TestProfileHighlightsFirstThree(t *testing.T) {
	gw := &stubGateway{source: gateway.SourceLive, profile: models.StudentProfile{
		Name:         "student",
		Achievements: []models.Achievement{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}},
	}}
	v, err := NewBuilder(gw, stubLister{}, "20241156").Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if len(v.Highlights) != 3 || v.Highlights[2].ID != 3 {
		t.Fatalf("unexpected highlights %+v", v.Highlights)
	}
	if v.Profile.Source != gateway.SourceLive || v.JobMatch.Data.Score != 90 {
		t.Fatalf("unexpected sections %+v", v)
	}

	gw.profile.Achievements = nil
	v, _ = NewBuilder(gw, stubLister{}, "20241156").Profile(context.Background())
	if v.Highlights == nil || len(v.Highlights) != 0 {
		t.Fatalf("expected empty highlights, got %#v", v.Highlights)
	}
}

func TestHRDashboardScoresEachCandidateInOrder(t *testing.T) {
	gw := &stubGateway{source: gateway.SourceFallback, candidates: []models.Candidate{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	v, err := NewBuilder(gw, stubLister{}, "x").HRDashboard(context.Background())
	if err != nil {
		t.Fatalf("hr dashboard: %v", err)
	}
	if v.Source != gateway.SourceFallback || len(v.Candidates) != 3 {
		t.Fatalf("unexpected view %+v", v)
	}
	for i, id := range []string{"a", "b", "c"} {
		if gw.scored[i] != id || v.Candidates[i].Candidate.ID != id || v.Candidates[i].Score.Data.Score != i+1 {
			t.Fatalf("row %d mismatch: %+v", i, v.Candidates[i])
		}
		if v.Candidates[i].Score.Source != gateway.SourceSynthesized {
			t.Fatalf("row %d: expected synthesized score", i)
		}
	}
}

func TestCancelledRequestDiscardsResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gw := &stubGateway{source: gateway.SourceFallback, candidates: []models.Candidate{{ID: "a"}}}
	b := NewBuilder(gw, stubLister{}, "x")

	if _, err := b.HRDashboard(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(gw.scored) != 0 {
		t.Fatal("no scores should be fetched after cancellation")
	}
	if _, err := b.Dashboard(ctx, models.UserRoleHR); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReviewView(t *testing.T) {
	items := []models.PendingItem{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	b := NewBuilder(&stubGateway{}, stubLister{items: items}, "x")

	v, err := b.Review(context.Background(), 0, 0)
	if err != nil || v.Count != 3 || len(v.Items) != 3 {
		t.Fatalf("unexpected review view %+v %v", v, err)
	}

	v, _ = b.Review(context.Background(), 2, 1)
	if v.Count != 3 || len(v.Items) != 2 || v.Items[0].ID != "2" {
		t.Fatalf("unexpected page %+v", v)
	}

	v, _ = b.Review(context.Background(), 2, 10)
	if v.Count != 3 || len(v.Items) != 0 {
		t.Fatalf("expected empty page past the end, got %+v", v)
	}

	v, err = b.Review(context.Background(), 2, -5)
	if err != nil || v.Offset != 0 || len(v.Items) != 2 || v.Items[0].ID != "1" {
		t.Fatalf("negative offset must start at the first item, got %+v %v", v, err)
	}

	v, err = b.Review(context.Background(), 200, math.MaxInt)
	if err != nil || v.Count != 3 || len(v.Items) != 0 {
		t.Fatalf("expected empty page for the largest offset, got %+v %v", v, err)
	}

	boom := errors.New("store down")
	if _, err := NewBuilder(&stubGateway{}, stubLister{err: boom}, "x").Review(context.Background(), 0, 0); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestStudentPagesUseConfiguredStudent(t *testing.T) {
	gw := &stubGateway{source: gateway.SourceLive}
	b := NewBuilder(gw, stubLister{}, "20241156")

	gap, _ := b.SkillGap(context.Background())
	if gap.SkillGap.Data.TargetRole != "role-20241156" {
		t.Fatalf("unexpected skill gap %+v", gap)
	}
	m, _ := b.CandidateMetrics(context.Background(), "20242288")
	if m.CandidateID != "20242288" || m.Metrics.Data.StudentID != "20242288" {
		t.Fatalf("unexpected metrics %+v", m)
	}
}
