// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintel/blogsmith/pkg/types"
)

func samplePlanFile() PlanFile {
	return PlanFile{
		Topic: "electric bicycles",
		Plan: types.ContentPlan{
			PrimaryKeyword:    "electric bicycles",
			SecondaryKeywords: []string{"e-bike", "battery range"},
			Title:             "Electric Bicycles: The Complete Guide",
			Outline:           []string{"Introduction", "Motors", "Conclusion"},
		},
	}
}

func TestPlanFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	want := samplePlanFile()

	require.NoError(t, SavePlan(path, want))
	got, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPlanValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PlanFile)
		errPart string
	}{
		{"missing topic", func(pf *PlanFile) { pf.Topic = "" }, "topic is empty"},
		{"missing title", func(pf *PlanFile) { pf.Plan.Title = "" }, "required"},
		{"missing primary keyword", func(pf *PlanFile) { pf.Plan.PrimaryKeyword = "" }, "required"},
		{"empty outline", func(pf *PlanFile) { pf.Plan.Outline = nil }, "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := samplePlanFile()
			tt.mutate(&pf)

			path := filepath.Join(t.TempDir(), "plan.yaml")
			require.NoError(t, SavePlan(path, pf))

			_, err := LoadPlan(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadPlanMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("topic: [unclosed"), 0o644))

	_, err := LoadPlan(path)
	require.Error(t, err)
}

func TestResumeFromPlan(t *testing.T) {
	w, _ := newTestRig(t, nil)

	require.NoError(t, w.ResumeFromPlan(samplePlanFile()))
	assert.Equal(t, StageWriting, w.Stage())
	assert.Equal(t, "electric bicycles", w.Topic())
	assert.True(t, w.Plan().Complete())

	err := w.ResumeFromPlan(PlanFile{Topic: "x"})
	require.Error(t, err)
}
