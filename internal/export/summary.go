package export

import (
	"fmt"
	"strings"

	"aigov/internal/inventory"
	"aigov/internal/lifecycle"
	"aigov/internal/scoring"
)

// Truncation widths of the summary tables.
const (
	justificationWidth = 49
	statementWidth     = 67
	topRisks           = 3
)

func summaryMarkdown(snap *inventory.Snapshot, meta Meta) ([]byte, error) {
	return []byte(Summary(snap, meta)), nil
}

// Summary renders case1_executive_summary.md.
func Summary(snap *inventory.Snapshot, meta Meta) string {
	org := meta.Organization
	var b strings.Builder

	fmt.Fprintf(&b, "# AI Governance Audit Executive Summary - %s\n\n", org)
	fmt.Fprintf(&b, "**Date:** %s\n", meta.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Prepared By:** %s\n\n", meta.PreparedBy)

	b.WriteString("## 1. Introduction\n")
	fmt.Fprintf(&b, "This summary provides an overview of %s's AI governance artifacts, compiled for the internal audit. "+
		"It covers our AI system inventory, risk tiering results aligned with SR 11-7-style principles, and a detailed map of lifecycle risks. "+
		"Our goal is to demonstrate a robust, structured, and auditable approach to managing AI systems within the institution.\n\n", org)

	writeInventorySection(&b, snap, org)
	writeTierSection(&b, snap)
	writeRiskSection(&b, snap)

	b.WriteString("\n## 5. Conclusion\n")
	fmt.Fprintf(&b, "This audit package demonstrates %s's commitment to responsible AI governance. "+
		"By systematically inventorying, risk-tiering, and mapping lifecycle risks, we ensure accountability and maintain the integrity of our AI systems. "+
		"The accompanying evidence manifest provides cryptographic proof of the authenticity of these artifacts.\n", org)
	return b.String()
}

func writeInventorySection(b *strings.Builder, snap *inventory.Snapshot, org string) {
	b.WriteString("## 2. AI System Inventory\n")
	fmt.Fprintf(b, "%s maintains a comprehensive inventory of all AI systems. Currently, %s key %s highlighted for this audit:\n\n",
		org, countWord(len(snap.Systems)), plural(len(snap.Systems), "system is", "systems are"))
	b.WriteString("| System Name                               | AI Type | Decision Criticality | Data Sensitivity |\n")
	b.WriteString("|-------------------------------------------|---------|----------------------|------------------|\n")
	for _, s := range snap.Systems {
		fmt.Fprintf(b, "| %-41s | %-7s | %-20s | %-16s |\n",
			s.Name, s.AIType, s.DecisionCriticality, s.DataSensitivity)
	}
}

func writeTierSection(b *strings.Builder, snap *inventory.Snapshot) {
	b.WriteString("\n## 3. AI Risk Tiering Results\n")
	b.WriteString("Each AI system undergoes a deterministic risk tiering process based on attributes like decision criticality, " +
		"data sensitivity, automation level, and external dependencies. " +
		"This ensures consistent risk classification and the assignment of appropriate controls.\n\n")
	b.WriteString("### Scoring Logic:\n")
	b.WriteString("The total risk score $S_{total}$ is calculated by summing scores from various dimensions. For instance:\n")
	b.WriteString("*   Decision Criticality: LOW=1, MEDIUM=3, HIGH=5\n")
	b.WriteString("*   Data Sensitivity: PUBLIC=1, INTERNAL=2, CONFIDENTIAL=4, REGULATED_PII=5\n")
	b.WriteString("*   Automation Level: ADVISORY=1, HUMAN_APPROVAL=3, FULLY_AUTOMATED=5\n")
	b.WriteString("*   AI Type: ML=3, LLM=4, AGENT=5\n")
	b.WriteString("*   Deployment Mode: INTERNAL_ONLY=1, BATCH=2, HUMAN_IN_LOOP=3, REAL_TIME=4\n")
	fmt.Fprintf(b, "*   External Dependencies: 0 if none, %d if any\n\n", scoring.DependencyScore)
	b.WriteString("Risk Tiers:\n")
	fmt.Fprintf(b, "*   Tier 1 (High Risk): $S_{total} \\geq %d$\n", scoring.Tier1Min)
	fmt.Fprintf(b, "*   Tier 2 (Medium Risk): $%d \\leq S_{total} \\leq %d$\n", scoring.Tier2Min, scoring.Tier2Max)
	fmt.Fprintf(b, "*   Tier 3 (Low Risk): $S_{total} \\leq %d$\n\n", scoring.Tier3Max)
	b.WriteString("### Summary of Tiers:\n")

	if len(snap.Results) == 0 {
		b.WriteString("\nNo risk tier data available for summary.\n")
		return
	}
	b.WriteString("\n| System Name                               | Risk Tier | Total Score | Key Justification                                 |\n")
	b.WriteString("|-------------------------------------------|-----------|-------------|---------------------------------------------------|\n")
	for _, r := range snap.Results {
		fmt.Fprintf(b, "| %-41s | %-9s | %-11d | %-49s |\n",
			snap.SystemName(r.SystemID), r.RiskTier, r.TotalScore(), truncate(r.Justification, justificationWidth))
	}
}

func writeRiskSection(b *strings.Builder, snap *inventory.Snapshot) {
	b.WriteString("\n## 4. Lifecycle Risk Map\n")
	b.WriteString("We have identified and mapped specific risks across the lifecycle phases of our AI systems. " +
		"Risks are prioritized by severity, calculated as Impact $\\times$ Likelihood.\n\n")
	fmt.Fprintf(b, "### Top %d Lifecycle Risks:\n", topRisks)

	if len(snap.Risks) == 0 {
		b.WriteString("\nNo lifecycle risk data available for summary.\n")
		return
	}
	b.WriteString("\n| System Name                               | Risk Statement                                                      | Severity | Lifecycle Phase |\n")
	b.WriteString("|-------------------------------------------|---------------------------------------------------------------------|----------|-----------------|\n")
	for _, r := range lifecycle.Top(snap.Risks, topRisks) {
		fmt.Fprintf(b, "| %-41s | %-67s | %-8d | %-15s |\n",
			snap.SystemName(r.SystemID), truncate(r.RiskStatement, statementWidth), r.Severity(), r.LifecyclePhase)
	}
}

// truncate cuts s to width-3 runes plus "..." when it is longer than width.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

func countWord(n int) string {
	words := []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}
	if n >= 0 && n < len(words) {
		return words[n]
	}
	return fmt.Sprint(n)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
