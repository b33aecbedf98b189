package gateway

import (
	"context"
	"hash/fnv"
	"net/http"

	"syncportal/internal/identity"
	"syncportal/internal/models"
)

func (c *Client) Forecast(ctx context.Context) Result[models.ForecastData] {
	return fetch(ctx, c, "forecast", http.MethodGet, "/data/forecast", nil, fallbackForecast)
}

func (c *Client) Transcript(ctx context.Context, studentID string) Result[models.StudentProfile] {
	return fetch(ctx, c, "transcript", http.MethodGet, "/data/transcript/"+escape(studentID), nil, fallbackProfile)
}

func (c *Client) SkillGap(ctx context.Context, studentID string) Result[models.SkillGapData] {
	return fetch(ctx, c, "skill_gap", http.MethodGet, "/data/skill_gap/"+escape(studentID), nil, fallbackSkillGap)
}

func (c *Client) JobMatch(ctx context.Context, studentID string) Result[models.JobMatchData] {
	return fetch(ctx, c, "job_match", http.MethodGet, "/data/job_match_score/"+escape(studentID), nil, fallbackJobMatch)
}

// VerifyLedger asks the ledger to confirm a certificate.
func (c *Client) VerifyLedger(ctx context.Context) Result[models.LedgerReceipt] {
	return fetch(ctx, c, "verify_blockchain", http.MethodPost, "/data/verify_blockchain", nil, func() models.LedgerReceipt {
		return fallbackLedger(c.now())
	})
}

func (c *Client) Candidates(ctx context.Context) Result[[]models.Candidate] {
	return fetch(ctx, c, "candidates", http.MethodGet, "/hr/students", nil, fallbackCandidates)
}

// PredictiveScore only consults the backend for the featured student; every
// other candidate gets a score derived from the id.
func (c *Client) PredictiveScore(ctx context.Context, studentID string) Result[models.PredictiveScore] {
	if studentID == c.featured {
		return fetch(ctx, c, "predictive_score", http.MethodGet, "/hr/predictive_score/"+escape(studentID), nil, fallbackPredictiveScore)
	}
	return Result[models.PredictiveScore]{Source: SourceSynthesized, Value: synthesizedPredictiveScore(studentID)}
}

func (c *Client) StudentMetrics(ctx context.Context, studentID string) Result[models.StudentMetrics] {
	if studentID == c.featured {
		return fetch(ctx, c, "student_metrics", http.MethodGet, "/hr/student_metrics/"+escape(studentID), nil, fallbackStudentMetrics)
	}
	return Result[models.StudentMetrics]{Source: SourceSynthesized, Value: synthesizedStudentMetrics(studentID)}
}

type validateIDRequest struct {
	NationalID string `json:"national_id"`
}

// ValidateID asks the backend to validate a national identifier and checks
// it locally when the backend is unavailable.
func (c *Client) ValidateID(ctx context.Context, nationalID string) Result[models.IdentityCheck] {
	return fetch(ctx, c, "validate_id", http.MethodPost, "/auth/validate_id", validateIDRequest{NationalID: nationalID}, func() models.IdentityCheck {
		return models.IdentityCheck{
			IsValid: identity.Valid(nationalID),
			Message: offlineValidationMessage,
		}
	})
}

func idHash(id string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return h.Sum32()
}

func synthesizedPredictiveScore(studentID string) models.PredictiveScore {
	return models.PredictiveScore{
		Score:         75 + int(idHash(studentID)%20),
		Category:      "توافق جيد",
		Description:   "مرشح واعد بمهارات تقنية قوية وقابلية للتعلم.",
		PotentialRole: "مطور برمجيات",
	}
}

func synthesizedStudentMetrics(studentID string) models.StudentMetrics {
	m := fallbackStudentMetrics()
	readiness := 70 + int(idHash(studentID)%25)
	m.StudentID = studentID
	m.ReadinessScore = readiness
	m.ScoreDisplay = readiness
	return m
}
