package model

// Closed categorical domains for AI system attributes.
//
// Every enum is a string type with a fixed variant list. Construction-time
// validation (see validate.go) rejects any value outside the list, so scoring
// and export never re-check membership.

import (
	"fmt"
	"slices"
	"strings"
)

// enum is implemented by every categorical type in this package. The
// "enum" validator tag relies on it.
type enum interface {
	Valid() bool
	allowed() []string
}

// AIType classifies the kind of AI system.
type AIType string

const (
	AITypeML    AIType = "ML"
	AITypeLLM   AIType = "LLM"
	AITypeAgent AIType = "AGENT"
)

// DeploymentMode describes how a system's outputs reach their consumers.
type DeploymentMode string

const (
	DeploymentBatch        DeploymentMode = "BATCH"
	DeploymentRealTime     DeploymentMode = "REAL_TIME"
	DeploymentHumanInLoop  DeploymentMode = "HUMAN_IN_LOOP"
	DeploymentInternalOnly DeploymentMode = "INTERNAL_ONLY"
)

// DecisionCriticality is the business impact of the decisions a system makes.
type DecisionCriticality string

const (
	CriticalityLow    DecisionCriticality = "LOW"
	CriticalityMedium DecisionCriticality = "MEDIUM"
	CriticalityHigh   DecisionCriticality = "HIGH"
)

// AutomationLevel is how much human oversight sits between output and action.
type AutomationLevel string

const (
	AutomationAdvisory       AutomationLevel = "ADVISORY"
	AutomationHumanApproval  AutomationLevel = "HUMAN_APPROVAL"
	AutomationFullyAutomated AutomationLevel = "FULLY_AUTOMATED"
)

// DataSensitivity is the most sensitive class of data the system touches.
type DataSensitivity string

const (
	SensitivityPublic       DataSensitivity = "PUBLIC"
	SensitivityInternal     DataSensitivity = "INTERNAL"
	SensitivityConfidential DataSensitivity = "CONFIDENTIAL"
	SensitivityRegulatedPII DataSensitivity = "REGULATED_PII"
)

// RiskTier is the output classification of the scoring engine.
// TIER_1 is the highest risk.
type RiskTier string

const (
	Tier1 RiskTier = "TIER_1"
	Tier2 RiskTier = "TIER_2"
	Tier3 RiskTier = "TIER_3"
)

// LifecyclePhase is the stage of the AI lifecycle a risk belongs to.
type LifecyclePhase string

const (
	PhaseDesign          LifecyclePhase = "DESIGN"
	PhaseDevelopment     LifecyclePhase = "DEVELOPMENT"
	PhaseTraining        LifecyclePhase = "TRAINING"
	PhaseTesting         LifecyclePhase = "TESTING"
	PhaseDeployment      LifecyclePhase = "DEPLOYMENT"
	PhaseMonitoring      LifecyclePhase = "MONITORING"
	PhaseMaintenance     LifecyclePhase = "MAINTENANCE"
	PhaseDecommissioning LifecyclePhase = "DECOMMISSIONING"
)

// RiskCategory groups lifecycle risks by their nature.
type RiskCategory string

const (
	CategoryBiasFairness                   RiskCategory = "BIAS_FAIRNESS"
	CategoryPerformanceRobustness          RiskCategory = "PERFORMANCE_ROBUSTNESS"
	CategoryDataPrivacySecurity            RiskCategory = "DATA_PRIVACY_SECURITY"
	CategoryInterpretabilityExplainability RiskCategory = "INTERPRETABILITY_EXPLAINABILITY"
	CategoryOperationalReliability         RiskCategory = "OPERATIONAL_RELIABILITY"
	CategoryLegalRegulatory                RiskCategory = "LEGAL_REGULATORY"
	CategoryReputational                   RiskCategory = "REPUTATIONAL"
	CategoryEnvironmentalSocial            RiskCategory = "ENVIRONMENTAL_SOCIAL"
)

var (
	aiTypes          = []AIType{AITypeML, AITypeLLM, AITypeAgent}
	deploymentModes  = []DeploymentMode{DeploymentBatch, DeploymentRealTime, DeploymentHumanInLoop, DeploymentInternalOnly}
	criticalities    = []DecisionCriticality{CriticalityLow, CriticalityMedium, CriticalityHigh}
	automationLevels = []AutomationLevel{AutomationAdvisory, AutomationHumanApproval, AutomationFullyAutomated}
	sensitivities    = []DataSensitivity{SensitivityPublic, SensitivityInternal, SensitivityConfidential, SensitivityRegulatedPII}
	riskTiers        = []RiskTier{Tier1, Tier2, Tier3}
	lifecyclePhases  = []LifecyclePhase{
		PhaseDesign, PhaseDevelopment, PhaseTraining, PhaseTesting,
		PhaseDeployment, PhaseMonitoring, PhaseMaintenance, PhaseDecommissioning,
	}
	riskCategories = []RiskCategory{
		CategoryBiasFairness, CategoryPerformanceRobustness, CategoryDataPrivacySecurity,
		CategoryInterpretabilityExplainability, CategoryOperationalReliability,
		CategoryLegalRegulatory, CategoryReputational, CategoryEnvironmentalSocial,
	}
)

func (v AIType) Valid() bool { return slices.Contains(aiTypes, v) }
func (v DeploymentMode) Valid() bool { return slices.Contains(deploymentModes, v) }
func (v DecisionCriticality) Valid() bool { return slices.Contains(criticalities, v) }
func (v AutomationLevel) Valid() bool { return slices.Contains(automationLevels, v) }
func (v DataSensitivity) Valid() bool { return slices.Contains(sensitivities, v) }
func (v RiskTier) Valid() bool { return slices.Contains(riskTiers, v) }
func (v LifecyclePhase) Valid() bool { return slices.Contains(lifecyclePhases, v) }
func (v RiskCategory) Valid() bool { return slices.Contains(riskCategories, v) }

func (AIType) allowed() []string { return names(aiTypes) }
func (DeploymentMode) allowed() []string { return names(deploymentModes) }
func (DecisionCriticality) allowed() []string { return names(criticalities) }
func (AutomationLevel) allowed() []string { return names(automationLevels) }
func (DataSensitivity) allowed() []string { return names(sensitivities) }
func (RiskTier) allowed() []string { return names(riskTiers) }
func (LifecyclePhase) allowed() []string { return names(lifecyclePhases) }
func (RiskCategory) allowed() []string { return names(riskCategories) }

// AITypes and friends return the variants in declaration order. The returned
// slices are copies.
func AITypes() []AIType { return slices.Clone(aiTypes) }
func DeploymentModes() []DeploymentMode { return slices.Clone(deploymentModes) }
func DecisionCriticalities() []DecisionCriticality { return slices.Clone(criticalities) }
func AutomationLevels() []AutomationLevel { return slices.Clone(automationLevels) }
func DataSensitivities() []DataSensitivity { return slices.Clone(sensitivities) }
func LifecyclePhases() []LifecyclePhase { return slices.Clone(lifecyclePhases) }
func RiskCategories() []RiskCategory { return slices.Clone(riskCategories) }

// ParseEnum normalizes s (trim, upper case, spaces and dashes to underscores)
// and returns the matching variant of T.
func ParseEnum[T ~string](s string, variants []T) (T, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for _, v := range variants {
		if string(v) == norm {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%q is not one of %s", s, strings.Join(names(variants), ", "))
}

func names[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}
