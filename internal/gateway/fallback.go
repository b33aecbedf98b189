package gateway

import (
	"time"

	"syncportal/internal/models"
)

// Demo values served while the backend is offline. Each call builds a fresh
// value so callers may mutate what they receive.

const offlineValidationMessage = "تم التحقق محلياً (Offline Mode)"

func fallbackForecast() models.ForecastData {
	return models.ForecastData{
		ModelRSquared:    0.8940,
		Forecast2026:     512441,
		AnnualGrowthRate: 19069.0,
		Title:            "إثبات قابلية التوسع",
		ModelEfficiency:  "كفاءة تنبؤ عالية",
	}
}

func fallbackProfile() models.StudentProfile {
	return models.StudentProfile{
		Name:       "روان سليمان رجاء الله الصاعدي",
		ID:         "20241156",
		University: "الجامعة السعودية الإلكترونية",
		Major:      "علوم الحاسب",
		Stage:      "بكالوريوس",
		GPA:        3.92,
		Skills:     []string{"Python", "React", "Data Analysis", "Project Management", "Strategic Planning"},
		Achievements: []models.Achievement{
			{
				ID:       1,
				Category: "الذكاء الاصطناعي",
				Type:     "شهادات احترافية",
				Issuer:   "أكاديمية كاوست",
				Title:    "مقدمة في تعلم الآلة",
				ImageURL: "https://images.unsplash.com/photo-1555949963-aa79dcee481c?w=600&q=80",
				Verified: true,
				Date:     "2023",
				Hash:     "0x9A3B...7F1E",
			},
			{
				ID:       2,
				Category: "البرمجة",
				Type:     "شهادات احترافية",
				Issuer:   "جامعة SEU",
				Title:    "دورة Python متقدمة",
				ImageURL: "https://images.unsplash.com/photo-1526374965328-7f61d4dc18c5?w=600&q=80",
				Verified: true,
				Date:     "2024",
				Hash:     "0x8C2D...5B3A",
			},
			{
				ID:       3,
				Category: "التطوير المهني",
				Type:     "تدريب تعاوني",
				Issuer:   "شركة تقنية المعلومات",
				Title:    "برنامج التدريب الصيفي (3 أشهر)",
				ImageURL: "https://images.unsplash.com/photo-1517245386807-bb43f82c33c4?w=600&q=80",
				Verified: true,
				Date:     "2024",
				Hash:     "0x7F2C...1A9D",
			},
			{
				ID:       4,
				Category: "القيادة والتطوع",
				Type:     "أعمال تطوعية",
				Issuer:   "مؤسسة وطنية",
				Title:    "شهادة تطوع (40 ساعة)",
				ImageURL: "https://images.unsplash.com/photo-1559027615-cd4628902d4a?w=600&q=80",
				Verified: false,
				Date:     "2024",
			},
		},
	}
}

func fallbackSkillGap() models.SkillGapData {
	return models.SkillGapData{
		TargetRole:        "محلل أمن سيبراني (Cybersecurity Analyst)",
		MatchPercentage:   75,
		MarketDemandLevel: "High (Vision 2030 Priority)",
		OwnedSkills:       []string{"Python", "Network Basics", "Risk Management"},
		MissingSkills:     []string{"Penetration Testing", "Cloud Security", "SIEM Tools"},
		RecommendedCourses: []models.Course{
			{Title: "مقدمة في اختبار الاختراق", Provider: "الأكاديمية الوطنية"},
			{Title: "أمن السحابة المتقدم", Provider: "Google Cloud Skills"},
		},
	}
}

func fallbackJobMatch() models.JobMatchData {
	return models.JobMatchData{
		Score:          92,
		Rank:           "موهبة وطنية واعدة",
		Recommendation: "أنت جاهز للتقديم في قطاع التقنية والتحول الرقمي، متوافق مع رؤية 2030.",
		Badges:         []string{"متميز أكاديمياً", "جاهزية 2030", "مهارات تقنية"},
	}
}

func fallbackLedger(now time.Time) models.LedgerReceipt {
	return models.LedgerReceipt{
		IsVerified:     true,
		BlockchainHash: "0x9A3B_MOCK_HASH_IMMUTABLE_BLOCK_2024",
		Timestamp:      now.UnixMilli(),
		Ledger:         "National EduChain Network (Simulated)",
	}
}

func fallbackCandidates() []models.Candidate {
	return []models.Candidate{
		{ID: "20241156", Name: "روان سليمان الصاعدي", Major: "علوم الحاسب", University: "الجامعة السعودية الإلكترونية", GPA: 4.92, Status: models.CandidateStatusOpen, LastVerifiedHash: "0x9A3B_IMMUTABLE_BLOCK_2024"},
		{ID: "20241199", Name: "أحمد محمد العلي", Major: "هندسة برمجيات", University: "جامعة الملك سعود", GPA: 4.75, Status: models.CandidateStatusInterviewing, LastVerifiedHash: "0x8C2D_IMMUTABLE_BLOCK_2023"},
		{ID: "20242288", Name: "سارة خالد العمري", Major: "أمن سيبراني", University: "جامعة الأميرة نورة", GPA: 4.88, Status: models.CandidateStatusHired, LastVerifiedHash: "0x7F1E_IMMUTABLE_BLOCK_2024"},
		{ID: "20251122", Name: "خالد فهد السبيعي", Major: "ذكاء اصطناعي", University: "جامعة الملك فهد للبترول والمعادن", GPA: 4.95, Status: models.CandidateStatusOpen, LastVerifiedHash: "0x3D4F_IMMUTABLE_BLOCK_2024"},
		{ID: "20253344", Name: "نورة عبدالله القحطاني", Major: "نظم معلومات", University: "جامعة الإمام محمد بن سعود", GPA: 4.80, Status: models.CandidateStatusOpen, LastVerifiedHash: "0x5E6A_IMMUTABLE_BLOCK_2024"},
	}
}

func fallbackPredictiveScore() models.PredictiveScore {
	return models.PredictiveScore{
		Score:         95,
		Category:      "توافق ممتاز (Excellent Match)",
		Description:   "بناءً على السجل الأكاديمي والنشاطات اللاصفية، يُظهر المرشح احتمالية نجاح عالية جداً في بيئات العمل التقنية سريعة التغير.",
		PotentialRole: "قائد فريق تقني مستقبلي",
	}
}

func fallbackStudentMetrics() models.StudentMetrics {
	return models.StudentMetrics{
		StudentID:         "20241156",
		Classification:    "موهبة وطنية واعدة",
		ImprovementMetric: "تحسين المهارات المطلوبة لسوق العمل",
		ReadinessScore:    92,
		MetricDescription: "مقياس التحسين المستمر يعكس التزام الطالب بإكمال المسارات التدريبية المقترحة من وزارة الموارد البشرية.",
		Labels:            []string{"متميز أكاديمياً", "جاهزية 2030", "مهارات تقنية"},
		ScoreDisplay:      92,
	}
}
