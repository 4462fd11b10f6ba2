package population

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/rgehrsitz/bia/internal/domain"
)

// LoadJSON reads a processed survey extract: a JSON array of member records.
func LoadJSON(path string) ([]domain.Member, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open population file %s: %w", path, err)
	}
	defer f.Close()

	members, err := DecodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return members, nil
}

// DecodeJSON decodes and validates a JSON array of members.
func DecodeJSON(r io.Reader) ([]domain.Member, error) {
	var members []domain.Member
	if err := json.NewDecoder(r).Decode(&members); err != nil {
		return nil, fmt.Errorf("failed to parse population JSON: %w", err)
	}
	if err := Validate(members); err != nil {
		return nil, err
	}
	return members, nil
}
