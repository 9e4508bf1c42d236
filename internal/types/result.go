package types

import (
	"fmt"
	"time"
)

// Source names used as keys of BurnScoreResult.CategoryScores.
const (
	SourceLocal       = "local"
	SourceCloud       = "cloud"
	SourceCodeHosting = "code_hosting"
)

// Priority orders recommendations; lower values sort first.
type Priority int

const (
	PriorityCritical Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
)

var priorityNames = map[Priority]string{
	PriorityCritical: "Critical",
	PriorityHigh:     "High",
	PriorityMedium:   "Medium",
	PriorityLow:      "Low",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// MarshalText encodes the priority by name.
func (p Priority) MarshalText() ([]byte, error) {
	name, ok := priorityNames[p]
	if !ok {
		return nil, fmt.Errorf("unknown priority %d", int(p))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a priority name.
func (p *Priority) UnmarshalText(text []byte) error {
	for value, name := range priorityNames {
		if name == string(text) {
			*p = value
			return nil
		}
	}
	return fmt.Errorf("unknown priority %q", string(text))
}

// EffortLevel estimates how much work a recommendation takes.
type EffortLevel int

const (
	EffortEasy EffortLevel = iota
	EffortModerate
	EffortComplex
)

var effortNames = map[EffortLevel]string{
	EffortEasy:     "Easy",
	EffortModerate: "Moderate",
	EffortComplex:  "Complex",
}

func (e EffortLevel) String() string {
	if name, ok := effortNames[e]; ok {
		return name
	}
	return fmt.Sprintf("EffortLevel(%d)", int(e))
}

// MarshalText encodes the effort level by name.
func (e EffortLevel) MarshalText() ([]byte, error) {
	name, ok := effortNames[e]
	if !ok {
		return nil, fmt.Errorf("unknown effort level %d", int(e))
	}
	return []byte(name), nil
}

// UnmarshalText decodes an effort level name.
func (e *EffortLevel) UnmarshalText(text []byte) error {
	for value, name := range effortNames {
		if name == string(text) {
			*e = value
			return nil
		}
	}
	return fmt.Errorf("unknown effort level %q", string(text))
}

// Recommendation is one prioritized cleanup action.
type Recommendation struct {
	Priority Priority    `json:"priority"`
	Category string      `json:"category"`
	Action   string      `json:"action"`
	ImpactGB float64     `json:"impact_gb"`
	Effort   EffortLevel `json:"effort"`
	Details  string      `json:"details"`
}

// BurnScoreResult is the final output of one burn score calculation.
type BurnScoreResult struct {
	OverallScore      float64            `json:"overall_score"`
	CategoryScores    map[string]float64 `json:"category_scores"`
	TotalBloatSize    float64            `json:"total_bloat_size"`
	TotalFilesScanned int64              `json:"total_files_scanned"`
	Recommendations   []Recommendation   `json:"recommendations"`
	FileCategories    FileCategories     `json:"file_categories"`
	PotentialSavings  float64            `json:"potential_savings"`
	CalculatedAt      time.Time          `json:"calculated_at"`
	Warnings          []string           `json:"warnings,omitempty"`
}
