package population

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rgehrsitz/bia/internal/domain"
)

// LoadCSV reads a member sample from a CSV file with a header row.
func LoadCSV(path string) ([]domain.Member, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open population file %s: %w", path, err)
	}
	defer f.Close()

	members, err := DecodeCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return members, nil
}

// DecodeCSV reads columns id, age, sex, bmi and either has_diabetes or hba1c
// (diabetic when above DiabetesHbA1cThreshold). Column order is free. Rows
// with a blank bmi are skipped.
func DecodeCSV(r io.Reader) ([]domain.Member, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("population CSV is empty")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "age", "sex", "bmi"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("population CSV missing %q column", required)
		}
	}
	_, hasFlag := cols["has_diabetes"]
	_, hasLab := cols["hba1c"]
	if !hasFlag && !hasLab {
		return nil, fmt.Errorf("population CSV needs a has_diabetes or hba1c column")
	}

	var members []domain.Member
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if strings.TrimSpace(record[cols["bmi"]]) == "" {
			continue
		}

		m, err := parseRecord(record, cols, hasFlag)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := validateMember(m); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		members = append(members, m)
	}

	return members, nil
}

func parseRecord(record []string, cols map[string]int, hasFlag bool) (domain.Member, error) {
	var m domain.Member
	var err error

	field := func(name string) string { return strings.TrimSpace(record[cols[name]]) }

	if m.ID, err = parseInt(field("id")); err != nil {
		return m, fmt.Errorf("invalid id: %w", err)
	}
	if m.Age, err = parseInt(field("age")); err != nil {
		return m, fmt.Errorf("invalid age: %w", err)
	}
	sex, err := parseInt(field("sex"))
	if err != nil {
		return m, fmt.Errorf("invalid sex: %w", err)
	}
	m.Sex = domain.Sex(sex)
	if m.BMI, err = strconv.ParseFloat(field("bmi"), 64); err != nil {
		return m, fmt.Errorf("invalid bmi: %w", err)
	}

	if hasFlag {
		if m.HasDiabetes, err = strconv.ParseBool(field("has_diabetes")); err != nil {
			return m, fmt.Errorf("invalid has_diabetes: %w", err)
		}
		return m, nil
	}

	if lab := field("hba1c"); lab != "" {
		hba1c, err := strconv.ParseFloat(lab, 64)
		if err != nil {
			return m, fmt.Errorf("invalid hba1c: %w", err)
		}
		m.HasDiabetes = hba1c > DiabetesHbA1cThreshold
	}
	return m, nil
}

// parseInt accepts survey exports that write integers as floats ("50.0").
func parseInt(s string) (int, error) {
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int(f), nil
}
