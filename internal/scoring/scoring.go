// Package scoring implements the deterministic risk-tiering rubric.
//
// Score is a pure function: the same system attributes always yield the same
// breakdown, tier and controls. Only ComputedAt depends on the caller-supplied
// clock. Name, description, owner, domain and timestamps never affect the
// score.
package scoring

import (
	"fmt"
	"slices"
	"time"

	"aigov/internal/model"
)

// Version tags every result produced by this rubric.
const Version = "1.0"

// Tier cut points. The bands are contiguous and exhaustive over the
// non-negative integers: [Tier1Min, ∞) → TIER_1, [Tier2Min, Tier1Min) →
// TIER_2, [0, Tier2Min) → TIER_3.
const (
	Tier1Min = 22
	Tier2Min = 15
	Tier2Max = Tier1Min - 1
	Tier3Max = Tier2Min - 1
)

// DependencyScore is added when a system has at least one external dependency.
const DependencyScore = 2

// Rubric tables. Read-only; never mutated at runtime.
var (
	criticalityScores = map[model.DecisionCriticality]int{
		model.CriticalityLow:    1,
		model.CriticalityMedium: 3,
		model.CriticalityHigh:   5,
	}
	sensitivityScores = map[model.DataSensitivity]int{
		model.SensitivityPublic:       1,
		model.SensitivityInternal:     2,
		model.SensitivityConfidential: 4,
		model.SensitivityRegulatedPII: 5,
	}
	automationScores = map[model.AutomationLevel]int{
		model.AutomationAdvisory:       1,
		model.AutomationHumanApproval:  3,
		model.AutomationFullyAutomated: 5,
	}
	aiTypeScores = map[model.AIType]int{
		model.AITypeML:    3,
		model.AITypeLLM:   4,
		model.AITypeAgent: 5,
	}
	deploymentScores = map[model.DeploymentMode]int{
		model.DeploymentInternalOnly: 1,
		model.DeploymentBatch:        2,
		model.DeploymentHumanInLoop:  3,
		model.DeploymentRealTime:     4,
	}
)

var requiredControls = map[model.RiskTier][]string{
	model.Tier1: {
		"Independent validation",
		"Full documentation pack",
		"Robustness & security testing",
		"Bias & interpretability assessment",
		"Monitoring dashboards",
		"Formal change control & rollback",
		"Incident response plan",
	},
	model.Tier2: {
		"Peer validation",
		"Standard documentation",
		"Basic robustness & security tests",
		"Periodic monitoring",
	},
	model.Tier3: {
		"Basic documentation",
		"Basic testing",
		"Periodic review",
	},
}

// Breakdown looks up the six dimension scores for sys.
func Breakdown(sys *model.SystemRecord) model.ScoreBreakdown {
	deps := 0
	if len(sys.ExternalDependencies) > 0 {
		deps = DependencyScore
	}
	return model.ScoreBreakdown{
		DecisionCriticality:  criticalityScores[sys.DecisionCriticality],
		DataSensitivity:      sensitivityScores[sys.DataSensitivity],
		AutomationLevel:      automationScores[sys.AutomationLevel],
		AIType:               aiTypeScores[sys.AIType],
		DeploymentMode:       deploymentScores[sys.DeploymentMode],
		ExternalDependencies: deps,
	}
}

// Classify maps a total score to its tier.
func Classify(total int) model.RiskTier {
	switch {
	case total >= Tier1Min:
		return model.Tier1
	case total >= Tier2Min:
		return model.Tier2
	default:
		return model.Tier3
	}
}

// RequiredControls returns a copy of the controls mandated for tier.
func RequiredControls(tier model.RiskTier) []string {
	return slices.Clone(requiredControls[tier])
}

// Justification is the default narrative attached to a result.
func Justification(name string, total int, tier model.RiskTier) string {
	return fmt.Sprintf("The AI system '%s' scored %d points, placing it in %s based on its characteristics.",
		name, total, tier)
}

// Score computes a fresh result for sys. sys is not modified.
func Score(sys *model.SystemRecord, now time.Time) *model.RiskTierResult {
	b := Breakdown(sys)
	tier := Classify(b.Total())
	return &model.RiskTierResult{
		SystemID:         sys.SystemID,
		RiskTier:         tier,
		ScoreBreakdown:   b,
		Justification:    Justification(sys.Name, b.Total(), tier),
		RequiredControls: RequiredControls(tier),
		ComputedAt:       now.UTC(),
		ScoringVersion:   Version,
	}
}

// Check reports whether a decoded result is internally consistent: its tier
// must match its total and its version must be known.
func Check(r *model.RiskTierResult) error {
	if want := Classify(r.TotalScore()); r.RiskTier != want {
		return fmt.Errorf("result for %s: tier %s does not match total score %d (want %s)",
			r.SystemID, r.RiskTier, r.TotalScore(), want)
	}
	if r.ScoringVersion != Version {
		return fmt.Errorf("result for %s: unknown scoring version %q", r.SystemID, r.ScoringVersion)
	}
	return nil
}
