package types

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrintel/internal/errors"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want SeniorityLevel
	}{
		{"junior", LevelJunior},
		{"Junior", LevelJunior},
		{" MID ", LevelMid},
		{"sEnIoR", LevelSenior},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	_, err := ParseLevel("principal")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestDisplayNameDefault(t *testing.T) {
	r := AssessmentResult{}
	assert.Equal(t, "N/A", r.DisplayName())

	r.CandidateName = "Ada"
	assert.Equal(t, "Ada", r.DisplayName())
}

func TestReportFilename(t *testing.T) {
	r := AssessmentResult{}
	assert.Equal(t, "Assessment_Report.md", r.ReportFilename("md"))

	r.CandidateName = "Ada Lovelace"
	assert.Equal(t, "Assessment_Ada_Lovelace.txt", r.ReportFilename("txt"))

	tests := []struct {
		name string
		want string
	}{
		{"../../etc/x y", "Assessment_etc_x_y.txt"},
		{"a/b", "Assessment_a_b.txt"},
		{"  José   O'Neil_Jr ", "Assessment_José_O_Neil_Jr.txt"},
		{"../..", "Assessment_Report.txt"},
		{"Mary-Jane", "Assessment_Mary-Jane.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := AssessmentResult{CandidateName: tt.name}
			got := r.ReportFilename("txt")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, filepath.Base(got))
		})
	}
}
