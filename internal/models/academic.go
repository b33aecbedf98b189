package models

type Achievement struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Issuer   string `json:"issuer"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	Verified bool   `json:"verified"`
	Date     string `json:"date,omitempty"`
	Hash     string `json:"hash,omitempty"`
}

type StudentProfile struct {
	Name         string        `json:"name"`
	ID           string        `json:"id"`
	University   string        `json:"university"`
	GPA          float64       `json:"gpa"`
	Major        string        `json:"major"`
	Stage        string        `json:"stage,omitempty"`
	Skills       []string      `json:"skills"`
	Achievements []Achievement `json:"achievements"`
}

type ForecastData struct {
	ModelRSquared    float64 `json:"model_r_squared"`
	Forecast2026     float64 `json:"forecast_2026"`
	AnnualGrowthRate float64 `json:"annual_growth_rate"`
	Title            string  `json:"title"`
	ModelEfficiency  string  `json:"model_efficiency,omitempty"`
}

type Course struct {
	Title    string `json:"title"`
	Provider string `json:"provider"`
}

type SkillGapData struct {
	TargetRole         string   `json:"target_role"`
	MatchPercentage    float64  `json:"match_percentage"`
	MarketDemandLevel  string   `json:"market_demand_level"`
	OwnedSkills        []string `json:"owned_skills"`
	MissingSkills      []string `json:"missing_skills"`
	RecommendedCourses []Course `json:"recommended_courses"`
}

type JobMatchData struct {
	Score          int      `json:"score"`
	Rank           string   `json:"rank"`
	Recommendation string   `json:"recommendation"`
	Badges         []string `json:"badges"`
}

// LedgerReceipt is the ledger's answer to a certificate verification.
type LedgerReceipt struct {
	IsVerified     bool   `json:"is_verified"`
	BlockchainHash string `json:"blockchain_hash"`
	Timestamp      int64  `json:"timestamp"`
	Ledger         string `json:"ledger"`
}

type IdentityCheck struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}
