package models

type CandidateStatus string

const (
	CandidateStatusOpen         CandidateStatus = "Open"
	CandidateStatusInterviewing CandidateStatus = "Interviewing"
	CandidateStatusHired        CandidateStatus = "Hired"
)

type Candidate struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Major            string          `json:"major"`
	University       string          `json:"university"`
	GPA              float64         `json:"gpa"`
	Status           CandidateStatus `json:"status"`
	LastVerifiedHash string          `json:"last_verified_hash,omitempty"`
}

type PredictiveScore struct {
	Score         int    `json:"score"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	PotentialRole string `json:"potential_role"`
}

type StudentMetrics struct {
	StudentID         string   `json:"student_id"`
	Classification    string   `json:"classification"`
	ImprovementMetric string   `json:"improvement_metric"`
	ReadinessScore    int      `json:"readiness_score"`
	MetricDescription string   `json:"metric_description"`
	Labels            []string `json:"labels"`
	ScoreDisplay      int      `json:"score_display,omitempty"`
}
