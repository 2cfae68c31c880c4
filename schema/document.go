package schema

import (
	"encoding/json"
	"fmt"
)

// Report is the typed model of one OND-ART experiment report. Optional
// sections and leaves are pointers so that checks can distinguish "absent"
// from zero values. The model is decoded only after schema conformance has
// been confirmed, so field types can be trusted.
type Report struct {
	Spec     *Spec     `json:"spec,omitempty"`
	Data     *Data     `json:"data,omitempty"`
	Metrics  *Metrics  `json:"metrics,omitempty"`
	Baseline *Baseline `json:"baseline,omitempty"`
	Notes    []string  `json:"notes,omitempty"`
}

// Spec captures the measurement context of a report.
type Spec struct {
	Profile string `json:"profile,omitempty"`
}

// Data holds the raw sample counts.
type Data struct {
	N            *int64 `json:"N,omitempty"`
	InvalidCount *int64 `json:"invalid_count,omitempty"`
}

// Metrics groups the named point estimates and their confidence intervals.
type Metrics struct {
	Rank      *RankMetric      `json:"rank,omitempty"`
	Subspace  *SubspaceMetric  `json:"subspace,omitempty"`
	Branching *BranchingMetric `json:"branching,omitempty"`
}

// RankMetric is a rank-correlation estimate with its 95% CI.
type RankMetric struct {
	Rho  *float64  `json:"rho,omitempty"`
	CI95 []float64 `json:"ci95,omitempty"`
}

// SubspaceMetric is a subspace-correlation estimate with its 95% CI.
type SubspaceMetric struct {
	Rho  *float64  `json:"rho,omitempty"`
	CI95 []float64 `json:"ci95,omitempty"`
}

// BranchingMetric is a branching-entropy estimate with its 95% CI.
type BranchingMetric struct {
	H    *float64  `json:"H,omitempty"`
	CI95 []float64 `json:"ci95,omitempty"`
}

// Baseline is the optional comparison block against a reference run.
type Baseline struct {
	Distance       *float64    `json:"distance,omitempty"`
	DistanceCI95   []float64   `json:"distance_ci95,omitempty"`
	Classification *string     `json:"classification,omitempty"`
	Thresholds     *Thresholds `json:"thresholds,omitempty"`
}

// Thresholds is the green/yellow/red classification threshold triple.
// A present block with a missing bound is malformed; a missing block is
// simply skipped by threshold checks.
type Thresholds struct {
	Green  *float64 `json:"green,omitempty"`
	Yellow *float64 `json:"yellow,omitempty"`
	Red    *float64 `json:"red,omitempty"`
}

// InjectDefaultProfile sets spec.profile on the raw decoded document when the
// producer omitted it (or emitted an empty or non-string value), so CI can
// enforce an assumed profile without requiring producers to emit it. It runs
// before conformance checking and touches nothing else.
func InjectDefaultProfile(raw any, profile string) {
	doc, ok := raw.(map[string]any)
	if !ok {
		return
	}
	spec, ok := doc["spec"].(map[string]any)
	if !ok {
		return
	}
	if s, ok := spec["profile"].(string); !ok || s == "" {
		spec["profile"] = profile
	}
}

// Decode maps a raw, already-conformant document onto the typed Report model.
func Decode(raw any) (*Report, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encoding report: %w", err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &report, nil
}
