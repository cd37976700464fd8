package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ScoreBreakdown holds the six per-dimension scores of a risk assessment.
// The total is always derived from the components and never stored.
type ScoreBreakdown struct {
	DecisionCriticality  int
	DataSensitivity      int
	AutomationLevel      int
	AIType               int
	DeploymentMode       int
	ExternalDependencies int
}

// Dimension is a named component score.
type Dimension struct {
	Name  string
	Score int
}

// Total is the sum of all six component scores.
func (b ScoreBreakdown) Total() int {
	return b.DecisionCriticality + b.DataSensitivity + b.AutomationLevel +
		b.AIType + b.DeploymentMode + b.ExternalDependencies
}

// Dimensions lists the components in export order.
func (b ScoreBreakdown) Dimensions() []Dimension {
	return []Dimension{
		{"decision_criticality_score", b.DecisionCriticality},
		{"data_sensitivity_score", b.DataSensitivity},
		{"automation_level_score", b.AutomationLevel},
		{"ai_type_score", b.AIType},
		{"deployment_mode_score", b.DeploymentMode},
		{"external_dependencies_score", b.ExternalDependencies},
	}
}

type breakdownWire struct {
	DecisionCriticality  int `json:"decision_criticality_score"`
	DataSensitivity      int `json:"data_sensitivity_score"`
	AutomationLevel      int `json:"automation_level_score"`
	AIType               int `json:"ai_type_score"`
	DeploymentMode       int `json:"deployment_mode_score"`
	ExternalDependencies int `json:"external_dependencies_score"`
	TotalScore           int `json:"total_score"`
}

// MarshalJSON writes the components followed by total_score.
func (b ScoreBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(breakdownWire{
		DecisionCriticality:  b.DecisionCriticality,
		DataSensitivity:      b.DataSensitivity,
		AutomationLevel:      b.AutomationLevel,
		AIType:               b.AIType,
		DeploymentMode:       b.DeploymentMode,
		ExternalDependencies: b.ExternalDependencies,
		TotalScore:           b.Total(),
	})
}

// UnmarshalJSON rejects a breakdown whose total_score does not equal the sum
// of its components.
func (b *ScoreBreakdown) UnmarshalJSON(data []byte) error {
	var w breakdownWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	got := ScoreBreakdown{
		DecisionCriticality:  w.DecisionCriticality,
		DataSensitivity:      w.DataSensitivity,
		AutomationLevel:      w.AutomationLevel,
		AIType:               w.AIType,
		DeploymentMode:       w.DeploymentMode,
		ExternalDependencies: w.ExternalDependencies,
	}
	if got.Total() != w.TotalScore {
		return fmt.Errorf("score breakdown: total_score %d does not match component sum %d", w.TotalScore, got.Total())
	}
	*b = got
	return nil
}

// RiskTierResult is the scoring outcome for one system. It is replaced
// wholesale on recompute; only Justification may be edited afterwards.
type RiskTierResult struct {
	SystemID         uuid.UUID      `json:"system_id"`
	RiskTier         RiskTier       `json:"risk_tier"`
	ScoreBreakdown   ScoreBreakdown `json:"score_breakdown"`
	Justification    string         `json:"justification"`
	RequiredControls []string       `json:"required_controls"`
	ComputedAt       time.Time      `json:"computed_at"`
	ScoringVersion   string         `json:"scoring_version"`
}

// TotalScore is shorthand for r.ScoreBreakdown.Total().
func (r *RiskTierResult) TotalScore() int {
	return r.ScoreBreakdown.Total()
}

// Clone returns a deep copy.
func (r *RiskTierResult) Clone() *RiskTierResult {
	c := *r
	c.RequiredControls = slices.Clone(r.RequiredControls)
	return &c
}
