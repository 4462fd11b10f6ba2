package domain

import "fmt"

// Sex follows the survey coding used by the population dataset.
type Sex int

const (
	SexMale   Sex = 1
	SexFemale Sex = 2
)

func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return fmt.Sprintf("Sex(%d)", int(s))
	}
}

// Valid reports whether s is one of the two survey codes.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// Clinical eligibility thresholds. BMI at or above ObesityBMIThreshold is
// eligible on its own; BMI at or above OverweightBMIThreshold is eligible
// only with diabetes.
const (
	ObesityBMIThreshold    = 30.0
	OverweightBMIThreshold = 27.0
)

// Member is one individual in the representative population sample.
type Member struct {
	ID          int     `yaml:"id" json:"id"`
	Age         int     `yaml:"age" json:"age"`
	Sex         Sex     `yaml:"sex" json:"sex"`
	BMI         float64 `yaml:"bmi" json:"bmi"`
	HasDiabetes bool    `yaml:"has_diabetes" json:"has_diabetes"`
}

// IsEligible applies the fixed clinical proxy for treatment eligibility.
func (m Member) IsEligible() bool {
	return m.BMI >= ObesityBMIThreshold || (m.BMI >= OverweightBMIThreshold && m.HasDiabetes)
}

// RiskScore is a simple additive risk proxy: age, BMI and diabetes all raise it.
func (m Member) RiskScore() float64 {
	score := float64(m.Age)*0.1 + m.BMI*0.2
	if m.HasDiabetes {
		score += 5
	}
	return score
}
