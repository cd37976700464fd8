package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"aigov/internal/model"
)

// question is one field of the interactive system form.
type question struct {
	Key     string
	Prompt  string
	Choices []string
}

func systemQuestions() []question {
	return []question{
		{Key: "name", Prompt: "System name"},
		{Key: "description", Prompt: "Description"},
		{Key: "domain", Prompt: "Business domain"},
		{Key: "ai_type", Prompt: "AI type", Choices: enumNames(model.AITypes())},
		{Key: "owner_role", Prompt: "Owner role"},
		{Key: "deployment_mode", Prompt: "Deployment mode", Choices: enumNames(model.DeploymentModes())},
		{Key: "decision_criticality", Prompt: "Decision criticality", Choices: enumNames(model.DecisionCriticalities())},
		{Key: "automation_level", Prompt: "Automation level", Choices: enumNames(model.AutomationLevels())},
		{Key: "data_sensitivity", Prompt: "Data sensitivity", Choices: enumNames(model.DataSensitivities())},
		{Key: "external_dependencies", Prompt: "External dependencies (comma separated)"},
	}
}

func enumNames[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

// systemFromAnswers turns raw form answers into a SystemInput. Enum answers
// are matched case-insensitively; full validation happens in AddSystem.
func systemFromAnswers(a map[string]string) (model.SystemInput, error) {
	in := model.SystemInput{
		Name:        strings.TrimSpace(a["name"]),
		Description: strings.TrimSpace(a["description"]),
		Domain:      strings.TrimSpace(a["domain"]),
		OwnerRole:   strings.TrimSpace(a["owner_role"]),
	}
	var err error
	if in.AIType, err = model.ParseEnum(a["ai_type"], model.AITypes()); err != nil {
		return in, fmt.Errorf("ai_type: %w", err)
	}
	if in.DeploymentMode, err = model.ParseEnum(a["deployment_mode"], model.DeploymentModes()); err != nil {
		return in, fmt.Errorf("deployment_mode: %w", err)
	}
	if in.DecisionCriticality, err = model.ParseEnum(a["decision_criticality"], model.DecisionCriticalities()); err != nil {
		return in, fmt.Errorf("decision_criticality: %w", err)
	}
	if in.AutomationLevel, err = model.ParseEnum(a["automation_level"], model.AutomationLevels()); err != nil {
		return in, fmt.Errorf("automation_level: %w", err)
	}
	if in.DataSensitivity, err = model.ParseEnum(a["data_sensitivity"], model.DataSensitivities()); err != nil {
		return in, fmt.Errorf("data_sensitivity: %w", err)
	}
	for _, dep := range strings.Split(a["external_dependencies"], ",") {
		if dep = strings.TrimSpace(dep); dep != "" {
			in.ExternalDependencies = append(in.ExternalDependencies, dep)
		}
	}
	return in, nil
}

// ---------------------------------------------------------------------------
// TUI prompt
// ---------------------------------------------------------------------------

// promptModel is a bubbletea model that asks one question at a time.
type promptModel struct {
	questions []question
	idx       int
	inputs    []textinput.Model
	done      bool
}

func newPromptModel(questions []question) promptModel {
	inputs := make([]textinput.Model, len(questions))
	for i, q := range questions {
		ti := textinput.New()
		ti.Placeholder = q.Prompt
		ti.CharLimit = 2000
		if len(q.Choices) > 0 {
			ti.SetSuggestions(q.Choices)
			ti.ShowSuggestions = true
		}
		inputs[i] = ti
	}
	m := promptModel{
		questions: questions,
		inputs:    inputs,
	}
	if len(inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.idx < len(m.inputs)-1 {
				m.inputs[m.idx].Blur()
				m.idx++
				m.inputs[m.idx].Focus()
				return m, textinput.Blink
			}
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.inputs[m.idx], cmd = m.inputs[m.idx].Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || len(m.questions) == 0 {
		return ""
	}
	q := m.questions[m.idx]
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", styles.Muted.Render(fmt.Sprintf("[%d/%d]", m.idx+1, len(m.questions))), styles.Bold.Render(q.Prompt+":"))
	if len(q.Choices) > 0 {
		fmt.Fprintf(&b, "%s\n", styles.Muted.Render("  one of "+strings.Join(q.Choices, ", ")+" (tab completes)"))
	}
	fmt.Fprintf(&b, "%s\n", m.inputs[m.idx].View())
	return b.String()
}

// promptQuestions runs the TUI and returns answers keyed by question.Key.
func promptQuestions(questions []question) (map[string]string, error) {
	if len(questions) == 0 {
		return map[string]string{}, nil
	}
	m := newPromptModel(questions)
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final, ok := result.(promptModel)
	if !ok || !final.done {
		return nil, fmt.Errorf("prompt cancelled")
	}
	answers := make(map[string]string, len(questions))
	for i, q := range questions {
		answers[q.Key] = final.inputs[i].Value()
	}
	return answers, nil
}
