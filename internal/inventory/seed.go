package inventory

import "aigov/internal/model"

const (
	seedCredit  = "ML-based Credit Underwriting Model"
	seedSupport = "LLM-based Customer Support Assistant"
	seedReports = "Agentic Internal Report Generator"
)

// Seed returns the Sentinel Financial scenario: three systems, one per tier,
// and nine lifecycle risks.
func Seed() *File {
	return &File{
		Submitter: "AI Program Lead",
		Systems: []model.SystemInput{
			{
				Name:                 seedCredit,
				Description:          "Automates credit assessment for loan applications.",
				Domain:               "Retail Banking",
				AIType:               model.AITypeML,
				OwnerRole:            "Head of Lending Products",
				DeploymentMode:       model.DeploymentRealTime,
				DecisionCriticality:  model.CriticalityHigh,
				AutomationLevel:      model.AutomationFullyAutomated,
				DataSensitivity:      model.SensitivityRegulatedPII,
				ExternalDependencies: []string{"Credit Bureau API", "Fraud Detection Service"},
			},
			{
				Name:                 seedSupport,
				Description:          "Provides initial support to customers by answering FAQs and routing queries.",
				Domain:               "Customer Service",
				AIType:               model.AITypeLLM,
				OwnerRole:            "Head of Customer Experience",
				DeploymentMode:       model.DeploymentHumanInLoop,
				DecisionCriticality:  model.CriticalityMedium,
				AutomationLevel:      model.AutomationAdvisory,
				DataSensitivity:      model.SensitivityConfidential,
				ExternalDependencies: []string{"Internal Knowledge Base API"},
			},
			{
				Name:                 seedReports,
				Description:          "Automates the generation of internal compliance and operational reports by accessing various internal data sources.",
				Domain:               "Internal Operations",
				AIType:               model.AITypeAgent,
				OwnerRole:            "Head of Operations",
				DeploymentMode:       model.DeploymentInternalOnly,
				DecisionCriticality:  model.CriticalityLow,
				AutomationLevel:      model.AutomationFullyAutomated,
				DataSensitivity:      model.SensitivityInternal,
				ExternalDependencies: []string{"Internal Reporting DB", "Document Management System API"},
			},
		},
		LifecycleRisks: []model.RiskInput{
			{
				SystemName:     seedCredit,
				LifecyclePhase: model.PhaseDesign,
				RiskCategory:   model.CategoryBiasFairness,
				RiskStatement:  "Bias in historical training data leads to unfair lending decisions for certain demographics.",
				Impact:         5,
				Likelihood:     4,
				Mitigation:     "Implement fairness metrics, re-balance training data, and conduct adversarial testing.",
				OwnerRole:      "Data Scientist Lead",
			},
			{
				SystemName:     seedCredit,
				LifecyclePhase: model.PhaseDevelopment,
				RiskCategory:   model.CategoryPerformanceRobustness,
				RiskStatement:  "Model overfits to training data, leading to poor generalization on new applicants.",
				Impact:         4,
				Likelihood:     3,
				Mitigation:     "Utilize regularization techniques, cross-validation, and hold-out test sets.",
				OwnerRole:      "ML Engineer",
			},
			{
				SystemName:     seedCredit,
				LifecyclePhase: model.PhaseMonitoring,
				RiskCategory:   model.CategoryOperationalReliability,
				RiskStatement:  "Data drift leads to degradation of model performance in production over time.",
				Impact:         5,
				Likelihood:     4,
				Mitigation:     "Implement continuous monitoring of input data and model predictions, with alerts for drift.",
				OwnerRole:      "Model Operations",
			},
			{
				SystemName:     seedCredit,
				LifecyclePhase: model.PhaseDeployment,
				RiskCategory:   model.CategoryLegalRegulatory,
				RiskStatement:  "Inability to explain model decisions to regulators or customers, leading to compliance issues.",
				Impact:         5,
				Likelihood:     3,
				Mitigation:     "Develop XAI (Explainable AI) tools and documentation for model interpretations.",
				OwnerRole:      "Compliance Officer",
			},
			{
				SystemName:     seedSupport,
				LifecyclePhase: model.PhaseTraining,
				RiskCategory:   model.CategoryDataPrivacySecurity,
				RiskStatement:  "LLM ingests sensitive customer information during RAG retrieval and potentially exposes it.",
				Impact:         4,
				Likelihood:     3,
				Mitigation:     "Implement strict access controls for RAG sources and data anonymization techniques.",
				OwnerRole:      "Information Security",
			},
			{
				SystemName:     seedSupport,
				LifecyclePhase: model.PhaseDeployment,
				RiskCategory:   model.CategoryReputational,
				RiskStatement:  "LLM generates incorrect or misleading information, damaging customer trust.",
				Impact:         4,
				Likelihood:     4,
				Mitigation:     "Implement human-in-the-loop review, strict prompt engineering, and guardrails for output generation.",
				OwnerRole:      "Product Manager",
			},
			{
				SystemName:     seedSupport,
				LifecyclePhase: model.PhaseMonitoring,
				RiskCategory:   model.CategoryOperationalReliability,
				RiskStatement:  "LLM experiences hallucinations or fails to respond due to unforeseen edge cases.",
				Impact:         3,
				Likelihood:     3,
				Mitigation:     "Continuously log and review LLM interactions, update knowledge base and fine-tune guardrails.",
				OwnerRole:      "ML Engineer",
			},
			{
				SystemName:     seedReports,
				LifecyclePhase: model.PhaseDesign,
				RiskCategory:   model.CategoryOperationalReliability,
				RiskStatement:  "Agent misunderstands query intent leading to irrelevant or incorrect reports.",
				Impact:         3,
				Likelihood:     2,
				Mitigation:     "Implement clear tool descriptions and validation of generated report content.",
				OwnerRole:      "AI Architect",
			},
			{
				SystemName:     seedReports,
				LifecyclePhase: model.PhaseDeployment,
				RiskCategory:   model.CategoryDataPrivacySecurity,
				RiskStatement:  "Agent accesses unauthorized internal data sources during report generation.",
				Impact:         3,
				Likelihood:     2,
				Mitigation:     "Enforce strict access control policies for agent's service account and data sources.",
				OwnerRole:      "Information Security",
			},
		},
	}
}
