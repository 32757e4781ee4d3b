// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/blogsmith/pkg/types"
)

// PlanFile is the on-disk checkpoint the CLI writes between the planning
// and writing stages, so the user can hand-edit keywords, title, and
// outline before the article is generated.
type PlanFile struct {
	Topic string            `yaml:"topic"`
	Plan  types.ContentPlan `yaml:"plan"`
}

// SavePlan writes the plan checkpoint as YAML.
func SavePlan(path string, pf PlanFile) error {
	data, err := yaml.Marshal(pf)
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing plan file: %w", err)
	}
	return nil
}

// LoadPlan reads a plan checkpoint and validates that it is complete
// enough for the writing stage.
func LoadPlan(path string) (PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PlanFile{}, fmt.Errorf("reading plan file: %w", err)
	}

	var pf PlanFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return PlanFile{}, fmt.Errorf("parsing plan file %s: %w", path, err)
	}

	if pf.Topic == "" {
		return PlanFile{}, fmt.Errorf("plan file %s: topic is empty", path)
	}
	if !pf.Plan.Complete() {
		return PlanFile{}, fmt.Errorf("plan file %s: primary keyword, title, and outline are required", path)
	}
	return pf, nil
}

// ResumeFromPlan restores a Writer to the writing stage from a reviewed
// plan file, skipping the research and planning stages.
func (w *Writer) ResumeFromPlan(pf PlanFile) error {
	if pf.Topic == "" || !pf.Plan.Complete() {
		return fmt.Errorf("plan is incomplete: topic, primary keyword, title, and outline are required")
	}
	w.Reset()
	w.topic = pf.Topic
	w.plan = pf.Plan
	w.stage = StageWriting
	return nil
}
