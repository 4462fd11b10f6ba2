package logging

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/bia/internal/calculation"
	"github.com/rgehrsitz/bia/internal/domain"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"", logrus.InfoLevel},
		{"debug", logrus.DebugLevel},
		{"WARN", logrus.WarnLevel},
		{"nonsense", logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := New(&bytes.Buffer{}, tt.level)
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestEngineLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug")

	var _ calculation.Logger = NewEngineLogger(log)
	NewEngineLogger(log).Infof("eligible=%d", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "eligible=42", entry["msg"])
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "info", entry["level"])
}

func TestEngineLogger_WiredIntoEngine(t *testing.T) {
	var buf bytes.Buffer
	engine := calculation.NewProjectionEngine()
	engine.SetLogger(NewEngineLogger(New(&buf, "debug")))

	sample := []domain.Member{{ID: 1, Age: 50, Sex: domain.SexMale, BMI: 32}}
	_, err := engine.RunProjection(domain.DefaultInputs(), sample)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Len(t, lines, 1+domain.ProjectionYears)
}

func TestEngineLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewEngineLogger(New(&buf, "warn"))
	l.Debugf("hidden")
	l.Infof("hidden")
	assert.Zero(t, buf.Len())
	l.Errorf("shown")
	assert.Contains(t, buf.String(), "shown")
}
