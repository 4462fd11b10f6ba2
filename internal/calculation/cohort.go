package calculation

import "github.com/rgehrsitz/bia/internal/domain"

// CohortScale describes how the sample was extrapolated to the plan.
type CohortScale struct {
	SampleSize       int
	EligibleInSample int
	ScalingFactor    float64
	TotalEligible    float64
}

// CountEligible returns how many sampled members meet the eligibility rule.
func CountEligible(sample []domain.Member) int {
	n := 0
	for _, m := range sample {
		if m.IsEligible() {
			n++
		}
	}
	return n
}

// ScaleCohort extrapolates the eligible share of sample to a plan of
// targetPopulation members. An empty sample yields domain.ErrEmptyPopulation.
func ScaleCohort(targetPopulation float64, sample []domain.Member) (CohortScale, error) {
	if len(sample) == 0 {
		return CohortScale{}, domain.ErrEmptyPopulation
	}

	eligible := CountEligible(sample)
	factor := targetPopulation / float64(len(sample))

	return CohortScale{
		SampleSize:       len(sample),
		EligibleInSample: eligible,
		ScalingFactor:    factor,
		TotalEligible:    float64(eligible) * factor,
	}, nil
}
