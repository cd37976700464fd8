package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aigov/internal/model"
)

var now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func validSystem() model.SystemInput {
	return model.SystemInput{
		Name:                 "Credit Underwriting Model",
		Description:          "Automates credit assessment.",
		Domain:               "Retail Banking",
		AIType:               model.AITypeML,
		OwnerRole:            "Head of Lending Products",
		DeploymentMode:       model.DeploymentRealTime,
		DecisionCriticality:  model.CriticalityHigh,
		AutomationLevel:      model.AutomationFullyAutomated,
		DataSensitivity:      model.SensitivityRegulatedPII,
		ExternalDependencies: []string{"Credit Bureau API"},
	}
}

func validRisk() model.RiskInput {
	return model.RiskInput{
		LifecyclePhase: model.PhaseDesign,
		RiskCategory:   model.CategoryBiasFairness,
		RiskStatement:  "Bias in historical training data.",
		Impact:         5,
		Likelihood:     4,
		Mitigation:     "Rebalance training data.",
		OwnerRole:      "Data Scientist Lead",
		EvidenceLinks:  []string{"https://example.com/fairness-report"},
	}
}

func TestNewSystemRecord(t *testing.T) {
	rec, err := model.NewSystemRecord(validSystem(), now)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rec.SystemID)
	assert.Equal(t, "Credit Underwriting Model", rec.Name)
	assert.Equal(t, now, rec.LastUpdated)
	assert.Equal(t, []string{"Credit Bureau API"}, rec.ExternalDependencies)
}

func TestNewSystemRecordKeepsSuppliedID(t *testing.T) {
	in := validSystem()
	id := uuid.New()
	in.SystemID = id.String()

	rec, err := model.NewSystemRecord(in, now)
	require.NoError(t, err)
	assert.Equal(t, id, rec.SystemID)
}

func TestNewSystemRecordNilDependenciesBecomeEmpty(t *testing.T) {
	in := validSystem()
	in.ExternalDependencies = nil

	rec, err := model.NewSystemRecord(in, now)
	require.NoError(t, err)
	require.NotNil(t, rec.ExternalDependencies)
	assert.Empty(t, rec.ExternalDependencies)
}

func TestNewSystemRecordRejectsUnknownEnums(t *testing.T) {
	in := validSystem()
	in.AIType = "QUANTUM"
	in.DataSensitivity = "SECRET"
	in.Name = "  "

	rec, err := model.NewSystemRecord(in, now)
	require.Error(t, err)
	assert.Nil(t, rec)

	ve, ok := model.AsValidationError(err)
	require.True(t, ok)
	fields := map[string]string{}
	for _, v := range ve.Violations {
		fields[v.Field] = v.Rule
	}
	assert.Equal(t, "enum", fields["ai_type"])
	assert.Equal(t, "enum", fields["data_sensitivity"])
	assert.Equal(t, "notblank", fields["name"])
	assert.Contains(t, err.Error(), "ML, LLM, AGENT")
}

func TestSystemApplyKeepsIDAndRefreshesTimestamp(t *testing.T) {
	rec, err := model.NewSystemRecord(validSystem(), now)
	require.NoError(t, err)
	id := rec.SystemID

	later := now.Add(time.Hour)
	in := validSystem()
	in.SystemID = uuid.NewString()
	in.Name = "Renamed"
	require.NoError(t, rec.Apply(in, later))

	assert.Equal(t, id, rec.SystemID)
	assert.Equal(t, "Renamed", rec.Name)
	assert.Equal(t, later, rec.LastUpdated)
}

func TestSystemApplyInvalidLeavesRecordUntouched(t *testing.T) {
	rec, err := model.NewSystemRecord(validSystem(), now)
	require.NoError(t, err)
	before := *rec.Clone()

	in := validSystem()
	in.DeploymentMode = "SOMETIMES"
	require.Error(t, rec.Apply(in, now.Add(time.Hour)))
	assert.Equal(t, before, *rec)
}

func TestParseEnum(t *testing.T) {
	got, err := model.ParseEnum("human in loop", model.DeploymentModes())
	require.NoError(t, err)
	assert.Equal(t, model.DeploymentHumanInLoop, got)

	got2, err := model.ParseEnum(" regulated-pii ", model.DataSensitivities())
	require.NoError(t, err)
	assert.Equal(t, model.SensitivityRegulatedPII, got2)

	_, err = model.ParseEnum("nope", model.AITypes())
	assert.Error(t, err)
}

func TestLifecycleRiskSeverity(t *testing.T) {
	r, err := model.NewLifecycleRisk(uuid.New(), validRisk(), now)
	require.NoError(t, err)
	assert.Equal(t, 20, r.Severity())

	r.Likelihood = 2
	assert.Equal(t, 10, r.Severity())
}

func TestLifecycleRiskValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.RiskInput)
		field  string
	}{
		{"impact too low", func(in *model.RiskInput) { in.Impact = 0 }, "impact"},
		{"impact too high", func(in *model.RiskInput) { in.Impact = 6 }, "impact"},
		{"likelihood too high", func(in *model.RiskInput) { in.Likelihood = 9 }, "likelihood"},
		{"short statement", func(in *model.RiskInput) { in.RiskStatement = "short" }, "risk_statement"},
		{"short once trimmed", func(in *model.RiskInput) { in.RiskStatement = "abc       " }, "risk_statement"},
		{"bad url", func(in *model.RiskInput) { in.EvidenceLinks = []string{"not a url"} }, "evidence_links[0]"},
		{"bad phase", func(in *model.RiskInput) { in.LifecyclePhase = "RETIREMENT" }, "lifecycle_phase"},
		{"bad category", func(in *model.RiskInput) { in.RiskCategory = "MISC" }, "risk_category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRisk()
			tt.mutate(&in)
			r, err := model.NewLifecycleRisk(uuid.New(), in, now)
			require.Error(t, err)
			assert.Nil(t, r)
			ve, ok := model.AsValidationError(err)
			require.True(t, ok)
			require.Len(t, ve.Violations, 1)
			assert.Equal(t, tt.field, ve.Violations[0].Field)
		})
	}
}

func TestLifecycleRiskKeepsSuppliedIDAndCreation(t *testing.T) {
	in := validRisk()
	id := uuid.New()
	created := now.Add(-48 * time.Hour)
	in.RiskID = id.String()
	in.CreatedAt = &created

	r, err := model.NewLifecycleRisk(uuid.New(), in, now)
	require.NoError(t, err)
	assert.Equal(t, id, r.RiskID)
	assert.Equal(t, created, r.CreatedAt)

	back := r.Input()
	assert.Equal(t, id.String(), back.RiskID)
	assert.Equal(t, created, *back.CreatedAt)
}

func TestNewSystemRecordKeepsSuppliedLastUpdated(t *testing.T) {
	in := validSystem()
	stamp := now.Add(-time.Hour)
	in.LastUpdated = &stamp

	rec, err := model.NewSystemRecord(in, now)
	require.NoError(t, err)
	assert.Equal(t, stamp, rec.LastUpdated)

	require.NoError(t, rec.Apply(rec.Input(), now))
	assert.Equal(t, now, rec.LastUpdated, "edits always refresh last_updated")
}

func TestLifecycleRiskOptionalFields(t *testing.T) {
	in := validRisk()
	in.Mitigation = ""
	in.OwnerRole = "   "
	r, err := model.NewLifecycleRisk(uuid.New(), in, now)
	require.NoError(t, err)
	assert.Nil(t, r.Mitigation)
	assert.Nil(t, r.OwnerRole)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"mitigation":null`)
}

func TestLifecycleRiskJSONRoundTrip(t *testing.T) {
	r, err := model.NewLifecycleRisk(uuid.New(), validRisk(), now)
	require.NoError(t, err)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":20`)

	var back model.LifecycleRisk
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *r, back)
}

func TestLifecycleRiskJSONRejectsStaleSeverity(t *testing.T) {
	r, err := model.NewLifecycleRisk(uuid.New(), validRisk(), now)
	require.NoError(t, err)
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	raw["severity"] = 25
	tampered, err := json.Marshal(raw)
	require.NoError(t, err)

	var back model.LifecycleRisk
	assert.Error(t, json.Unmarshal(tampered, &back))
}

func TestScoreBreakdownJSON(t *testing.T) {
	b := model.ScoreBreakdown{
		DecisionCriticality: 5, DataSensitivity: 5, AutomationLevel: 5,
		AIType: 3, DeploymentMode: 4, ExternalDependencies: 2,
	}
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"decision_criticality_score": 5,
		"data_sensitivity_score": 5,
		"automation_level_score": 5,
		"ai_type_score": 3,
		"deployment_mode_score": 4,
		"external_dependencies_score": 2,
		"total_score": 24
	}`, string(data))

	var back model.ScoreBreakdown
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b, back)

	bad := []byte(`{"decision_criticality_score":1,"total_score":99}`)
	assert.Error(t, json.Unmarshal(bad, &back))
}

func TestValidationErrorUnwrapsCause(t *testing.T) {
	sentinel := errors.New("duplicate")
	err := model.NewViolation("system", "name", "unique", "already exists", sentinel)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "invalid system: name: already exists", err.Error())
}
