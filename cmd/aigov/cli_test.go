package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aigov/internal/evidence"
	"aigov/internal/model"
)

// CLI dispatch:
//
//   - a known subcommand name runs with the remaining args
//   - aigov / --help / -h print the same usage listing; help <cmd> prints long help
//   - an unknown subcommand is an error suggesting 'aigov help'
//   - surplus args give the subcommand's usage line
//   - the commands slice is the single source of truth for dispatch and help

// helpText calls the help function and returns the output as a string.
func helpText() string {
	var sb strings.Builder
	printUsage(&sb)
	return sb.String()
}

// longHelpText returns the long help for a named command.
func longHelpText(name string) string {
	var sb strings.Builder
	printCommandHelp(&sb, name)
	return sb.String()
}

// sandbox runs the CLI in an empty working directory with captured output
// and a fixed clock.
func sandbox(t *testing.T) (dir string, out *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	out = &bytes.Buffer{}
	oldOut, oldErr, oldNow, oldCfg := stdout, stderr, now, configFile
	stdout, stderr = out, &bytes.Buffer{}
	now = func() time.Time { return time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC) }
	configFile = ""
	t.Cleanup(func() {
		stdout, stderr, now, configFile = oldOut, oldErr, oldNow, oldCfg
	})
	return dir, out
}

func TestHelpContainsAllCommands(t *testing.T) {
	help := helpText()
	for _, cmd := range commands {
		if !strings.Contains(help, cmd.name) {
			t.Errorf("help output missing command %q", cmd.name)
		}
		if !strings.Contains(help, cmd.short) {
			t.Errorf("help output missing short description for %q", cmd.short)
		}
	}
}

func TestHelpContainsUsageHeader(t *testing.T) {
	help := helpText()
	if !strings.Contains(help, "Usage:") {
		t.Error("help output missing 'Usage:' header")
	}
	if !strings.Contains(help, "aigov") {
		t.Error("help output missing program name 'aigov'")
	}
}

func TestLongHelpForKnownCommands(t *testing.T) {
	for _, cmd := range commands {
		t.Run(cmd.name, func(t *testing.T) {
			out := longHelpText(cmd.name)
			if out == "" {
				t.Fatalf("printCommandHelp(%q) returned empty output", cmd.name)
			}
			if !strings.Contains(out, cmd.usage) {
				t.Errorf("long help for %q missing usage line %q\ngot: %s", cmd.name, cmd.usage, out)
			}
		})
	}
}

func TestLongHelpUnknownCommand(t *testing.T) {
	out := longHelpText("no-such-command")
	if !strings.Contains(out, "unknown") || !strings.Contains(out, "no-such-command") {
		t.Errorf("expected unknown-command message, got: %s", out)
	}
}

func TestDispatchKnownSubcommand(t *testing.T) {
	sandbox(t)
	// No inventory file exists in the sandbox, so score fails inside the
	// subcommand rather than in dispatch.
	err := dispatch([]string{"score"})
	if err == nil {
		t.Fatal("expected error for score without an inventory file, got nil")
	}
	if strings.Contains(err.Error(), "unknown command") {
		t.Errorf("got 'unknown command' error for known subcommand 'score': %v", err)
	}
}

func TestDispatchHelpFlag(t *testing.T) {
	_, out := sandbox(t)
	for _, flag := range []string{"--help", "-h"} {
		t.Run(flag, func(t *testing.T) {
			out.Reset()
			if err := dispatch([]string{flag}); err != nil {
				t.Errorf("dispatch(%q) returned error: %v", flag, err)
			}
			if out.String() != helpText() {
				t.Errorf("dispatch(%q) output differs from usage listing", flag)
			}
		})
	}
}

func TestDispatchNoArgs(t *testing.T) {
	sandbox(t)
	if err := dispatch([]string{}); err != nil {
		t.Errorf("dispatch() with no args returned error: %v", err)
	}
}

func TestDispatchHelpSubcommand(t *testing.T) {
	sandbox(t)
	for _, cmd := range commands {
		t.Run(cmd.name, func(t *testing.T) {
			if err := dispatch([]string{"help", cmd.name}); err != nil {
				t.Errorf("dispatch(help %q) returned error: %v", cmd.name, err)
			}
		})
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	sandbox(t)
	err := dispatch([]string{"no-such-command-xyz-abc"})
	if err == nil {
		t.Fatal("expected error for unknown command, got nil")
	}
	if !strings.Contains(err.Error(), "unknown") || !strings.Contains(err.Error(), "aigov help") {
		t.Errorf("expected 'unknown' and 'aigov help' in error, got: %s", err)
	}
}

func TestDispatchConfigFlag(t *testing.T) {
	sandbox(t)
	if err := dispatch([]string{"--config"}); err == nil {
		t.Error("--config without a file should return error")
	}
	err := dispatch([]string{"--config", "missing.yaml", "clean"})
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
	if !strings.Contains(err.Error(), "missing.yaml") {
		t.Errorf("expected config path in error, got: %v", err)
	}
}

func TestSubcommandBadArgsGivesUsage(t *testing.T) {
	sandbox(t)
	for _, cmd := range commands {
		t.Run(cmd.name, func(t *testing.T) {
			err := dispatch([]string{cmd.name, "a", "b"})
			if err == nil {
				t.Fatalf("dispatch(%q) with surplus args should return error", cmd.name)
			}
			if !strings.Contains(err.Error(), "usage: "+cmd.usage) {
				t.Errorf("dispatch(%q) error %q does not carry usage line", cmd.name, err)
			}
		})
	}
}

func TestCommandsHaveRequiredFields(t *testing.T) {
	if len(commands) == 0 {
		t.Fatal("commands slice is empty, no subcommands registered")
	}
	seen := map[string]bool{}
	for _, cmd := range commands {
		if cmd.name == "" {
			t.Error("command with empty name found")
		}
		if seen[cmd.name] {
			t.Errorf("command %q registered twice", cmd.name)
		}
		seen[cmd.name] = true
		if cmd.short == "" {
			t.Errorf("command %q has empty short description", cmd.name)
		}
		if cmd.usage == "" {
			t.Errorf("command %q has empty usage line", cmd.name)
		}
		if cmd.run == nil {
			t.Errorf("command %q has nil run func", cmd.name)
		}
	}
}

// ---------------------------------------------------------------------------
// end to end
// ---------------------------------------------------------------------------

func TestInitRefusesToOverwrite(t *testing.T) {
	dir, _ := sandbox(t)
	if err := dispatch([]string{"init"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "aigov_inventory.yaml")); err != nil {
		t.Fatalf("seeded inventory not written: %v", err)
	}
	if err := dispatch([]string{"init"}); err == nil {
		t.Error("second init should fail because the file exists")
	}
}

func TestScoreAndRisks(t *testing.T) {
	_, out := sandbox(t)
	if err := dispatch([]string{"init", "inv.yaml"}); err != nil {
		t.Fatalf("init: %v", err)
	}

	out.Reset()
	if err := dispatch([]string{"score", "inv.yaml"}); err != nil {
		t.Fatalf("score: %v", err)
	}
	got := out.String()
	for _, want := range []string{"ML-based Credit Underwriting Model", "24", "TIER_1", "TIER_2 2"} {
		if !strings.Contains(got, want) {
			t.Errorf("score output missing %q\n%s", want, got)
		}
	}

	out.Reset()
	if err := dispatch([]string{"risks", "inv.yaml"}); err != nil {
		t.Fatalf("risks: %v", err)
	}
	lines := strings.Split(out.String(), "\n")
	if len(lines) < 4 {
		t.Fatalf("risks output too short:\n%s", out)
	}
	// Title, blank, header, then the highest severity risk.
	if !strings.Contains(lines[3], "20") || !strings.Contains(lines[3], "HIGH") || !strings.Contains(lines[3], "Bias") {
		t.Errorf("first ranked risk = %q, want the severity 20 bias risk", lines[3])
	}
}

func TestExportThenVerify(t *testing.T) {
	dir, out := sandbox(t)
	if err := dispatch([]string{"init"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := dispatch([]string{"export"}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out.String(), "audit_package_ai_governance.zip") {
		t.Errorf("export output missing archive path:\n%s", out)
	}

	runs, err := filepath.Glob(filepath.Join(dir, "output_artifacts", "20260701T090000Z-*"))
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one run directory, got %v (%v)", runs, err)
	}
	m, err := evidence.ReadManifest(filepath.Join(runs[0], evidence.ManifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if m.InputsHash == nil {
		t.Error("manifest missing inputs_hash for file-backed run")
	}
	if len(m.Artifacts) != 4 {
		t.Errorf("manifest lists %d artifacts, want 4", len(m.Artifacts))
	}

	out.Reset()
	if err := dispatch([]string{"verify"}); err != nil {
		t.Fatalf("verify: %v\n%s", err, out)
	}
	if !strings.Contains(out.String(), "verified: 4 artifacts") {
		t.Errorf("verify output:\n%s", out)
	}

	target := filepath.Join(runs[0], "case1_executive_summary.md")
	if err := os.WriteFile(target, []byte("tampered\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	err = dispatch([]string{"verify", runs[0]})
	if err == nil {
		t.Fatal("verify should fail after tampering")
	}
	if !strings.Contains(err.Error(), "case1_executive_summary.md") {
		t.Errorf("verify error %q should name the tampered artifact", err)
	}
}

func TestExportKeepsItsOwnRunWithShortRetention(t *testing.T) {
	dir, _ := sandbox(t)
	t.Setenv("AIGOV_OUTPUT_RETENTION", "1s")
	tick := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	now = func() time.Time {
		tick = tick.Add(10 * time.Second)
		return tick
	}
	if err := dispatch([]string{"init"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := dispatch([]string{"export"}); err != nil {
		t.Fatalf("export: %v", err)
	}
	zips, err := filepath.Glob(filepath.Join(dir, "output_artifacts", "*", "audit_package_ai_governance.zip"))
	if err != nil || len(zips) != 1 {
		t.Fatalf("the exported run must survive its own cleanup, found %v (%v)", zips, err)
	}
}

func TestClean(t *testing.T) {
	dir, out := sandbox(t)
	stale := filepath.Join(dir, "output_artifacts", "20250101T000000Z-0badc0de")
	if err := os.MkdirAll(stale, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := dispatch([]string{"clean"}); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale run %s not removed", stale)
	}
	if !strings.Contains(out.String(), "1 run(s) removed") {
		t.Errorf("clean output:\n%s", out)
	}
}

// ---------------------------------------------------------------------------
// add form
// ---------------------------------------------------------------------------

func TestSystemFromAnswers(t *testing.T) {
	in, err := systemFromAnswers(map[string]string{
		"name":                  "  Claims Triage Assistant ",
		"description":           "Routes claims",
		"domain":                "Insurance",
		"ai_type":               "llm",
		"owner_role":            "Head of Claims",
		"deployment_mode":       "internal only",
		"decision_criticality":  "medium",
		"automation_level":      "human approval",
		"data_sensitivity":      "Confidential",
		"external_dependencies": "OpenAI API, , Vector DB",
	})
	if err != nil {
		t.Fatalf("systemFromAnswers: %v", err)
	}
	if in.Name != "Claims Triage Assistant" {
		t.Errorf("name = %q", in.Name)
	}
	if in.AIType != model.AITypeLLM || in.DeploymentMode != model.DeploymentInternalOnly ||
		in.DecisionCriticality != model.CriticalityMedium ||
		in.AutomationLevel != model.AutomationHumanApproval ||
		in.DataSensitivity != model.SensitivityConfidential {
		t.Errorf("enums not parsed: %+v", in)
	}
	if len(in.ExternalDependencies) != 2 || in.ExternalDependencies[1] != "Vector DB" {
		t.Errorf("external dependencies = %q", in.ExternalDependencies)
	}
	if err := in.Validate(); err != nil {
		t.Errorf("parsed input does not validate: %v", err)
	}

	if _, err := systemFromAnswers(map[string]string{"ai_type": "quantum"}); err == nil {
		t.Error("unknown ai_type should be rejected")
	}
}

func TestSystemQuestionsCoverEveryEnum(t *testing.T) {
	for _, q := range systemQuestions() {
		switch q.Key {
		case "ai_type", "deployment_mode", "decision_criticality", "automation_level", "data_sensitivity":
			if len(q.Choices) == 0 {
				t.Errorf("question %q has no choices", q.Key)
			}
		}
	}
}
