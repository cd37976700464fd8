package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"aigov/internal/evidence"
	"aigov/internal/inventory"
	"aigov/internal/lifecycle"
	"aigov/internal/model"
)

var (
	colorHigh   = lipgloss.Color("#E74C3C")
	colorMedium = lipgloss.Color("#F4D03F")
	colorLow    = lipgloss.Color("#2CD7C7")
	colorMuted  = lipgloss.Color("#2C4A54")
)

var styles = struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Bold   lipgloss.Style
	Muted  lipgloss.Style
	OK     lipgloss.Style
	Fail   lipgloss.Style
	Box    lipgloss.Style
}{
	Title:  lipgloss.NewStyle().Bold(true).Foreground(colorLow),
	Header: lipgloss.NewStyle().Bold(true).Underline(true),
	Bold:   lipgloss.NewStyle().Bold(true),
	Muted:  lipgloss.NewStyle().Foreground(colorMuted),
	OK:     lipgloss.NewStyle().Foreground(colorLow),
	Fail:   lipgloss.NewStyle().Foreground(colorHigh),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1),
}

var tierColor = map[model.RiskTier]lipgloss.Color{
	model.Tier1: colorHigh,
	model.Tier2: colorMedium,
	model.Tier3: colorLow,
}

var bandColor = map[string]lipgloss.Color{
	"HIGH":   colorHigh,
	"MEDIUM": colorMedium,
	"LOW":    colorLow,
}

// cell pads (or shortens) s to exactly width columns.
func cell(s string, width int) string {
	if r := []rune(s); len(r) > width {
		s = string(r[:width-1]) + "…"
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func row(cells ...string) string {
	return strings.Join(cells, "  ")
}

func renderTiers(snap *inventory.Snapshot) string {
	if len(snap.Results) == 0 {
		return styles.Muted.Render("no systems in inventory") + "\n"
	}
	var b strings.Builder
	b.WriteString(styles.Title.Render("Risk tiering") + "\n\n")
	b.WriteString(styles.Header.Render(row(cell("System", 44), cell("Score", 5), cell("Tier", 6), cell("Controls", 8))) + "\n")
	counts := map[model.RiskTier]int{}
	for _, r := range snap.Results {
		counts[r.RiskTier]++
		tier := lipgloss.NewStyle().Foreground(tierColor[r.RiskTier]).Render(cell(string(r.RiskTier), 6))
		b.WriteString(row(
			cell(snap.SystemName(r.SystemID), 44),
			cell(fmt.Sprint(r.TotalScore()), 5),
			tier,
			cell(fmt.Sprint(len(r.RequiredControls)), 8),
		) + "\n")
	}
	summary := fmt.Sprintf("%s %d   %s %d   %s %d",
		model.Tier1, counts[model.Tier1], model.Tier2, counts[model.Tier2], model.Tier3, counts[model.Tier3])
	b.WriteString("\n" + styles.Box.Render(summary) + "\n")
	return b.String()
}

func renderRisks(snap *inventory.Snapshot, ranked []*model.LifecycleRisk) string {
	if len(ranked) == 0 {
		return styles.Muted.Render("no lifecycle risks in inventory") + "\n"
	}
	var b strings.Builder
	b.WriteString(styles.Title.Render("Lifecycle risks by severity") + "\n\n")
	b.WriteString(styles.Header.Render(row(cell("Sev", 3), cell("Band", 6), cell("Phase", 15), cell("System", 30), cell("Risk", 50))) + "\n")
	for _, r := range ranked {
		band := lifecycle.Band(r.Severity())
		b.WriteString(row(
			cell(fmt.Sprint(r.Severity()), 3),
			lipgloss.NewStyle().Foreground(bandColor[band]).Render(cell(band, 6)),
			cell(string(r.LifecyclePhase), 15),
			cell(snap.SystemName(r.SystemID), 30),
			cell(r.RiskStatement, 50),
		) + "\n")
	}
	return b.String()
}

func renderChecks(checks []evidence.Check) string {
	var b strings.Builder
	for _, c := range checks {
		switch {
		case c.OK():
			fmt.Fprintf(&b, "%s %s\n", styles.OK.Render("✓"), c.Name)
		case c.Err != nil:
			fmt.Fprintf(&b, "%s %s: %v\n", styles.Fail.Render("✗"), c.Name, c.Err)
		default:
			fmt.Fprintf(&b, "%s %s: want %s, got %s\n", styles.Fail.Render("✗"), c.Name, c.Want, c.Got)
		}
	}
	return b.String()
}
