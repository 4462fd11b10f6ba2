package population

import "github.com/rgehrsitz/bia/internal/domain"

// Stats summarises a sample.
type Stats struct {
	Count         int     `json:"count"`
	Eligible      int     `json:"eligible"`
	Diabetic      int     `json:"diabetic"`
	Female        int     `json:"female"`
	MeanAge       float64 `json:"mean_age"`
	MeanBMI       float64 `json:"mean_bmi"`
	MeanRiskScore float64 `json:"mean_risk_score"`
}

// EligibleShare is the fraction of the sample eligible for treatment.
func (s Stats) EligibleShare() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Eligible) / float64(s.Count)
}

// Describe computes Stats for members. Means are zero for an empty sample.
func Describe(members []domain.Member) Stats {
	s := Stats{Count: len(members)}
	if s.Count == 0 {
		return s
	}

	var age, bmi, risk float64
	for _, m := range members {
		if m.IsEligible() {
			s.Eligible++
		}
		if m.HasDiabetes {
			s.Diabetic++
		}
		if m.Sex == domain.SexFemale {
			s.Female++
		}
		age += float64(m.Age)
		bmi += m.BMI
		risk += m.RiskScore()
	}

	n := float64(s.Count)
	s.MeanAge = age / n
	s.MeanBMI = bmi / n
	s.MeanRiskScore = risk / n
	return s
}
