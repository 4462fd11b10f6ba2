// Package population loads the representative member sample the projection
// engine extrapolates from.
package population

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rgehrsitz/bia/internal/domain"
)

// DiabetesHbA1cThreshold is the glycohemoglobin percentage above which a
// member is flagged as diabetic when only lab values are available.
const DiabetesHbA1cThreshold = 6.5

// Load reads a sample from a .json or .csv file.
func Load(path string) ([]domain.Member, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported population file type %q (want .json or .csv)", filepath.Ext(path))
	}
}

// Validate checks every member for values the survey coding cannot produce.
func Validate(members []domain.Member) error {
	for i, m := range members {
		if err := validateMember(m); err != nil {
			return fmt.Errorf("member %d (id %d): %w", i, m.ID, err)
		}
	}
	return nil
}

func validateMember(m domain.Member) error {
	if !m.Sex.Valid() {
		return fmt.Errorf("sex must be 1 or 2, got %d", int(m.Sex))
	}
	if m.BMI <= 0 {
		return fmt.Errorf("bmi must be positive, got %g", m.BMI)
	}
	if m.Age < 0 {
		return fmt.Errorf("age cannot be negative, got %d", m.Age)
	}
	return nil
}
