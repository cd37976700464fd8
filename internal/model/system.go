// Package model defines the typed records of the AI governance inventory:
// systems, risk-tier results, lifecycle risks and evidence manifests.
//
// Records are only created through constructors that validate every field,
// so downstream code (scoring, export, evidence) trusts its inputs.
package model

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SystemInput is the caller-supplied payload for creating or editing a
// system. It is also the on-disk shape of a system in the inventory file.
type SystemInput struct {
	SystemID             string              `yaml:"system_id,omitempty" json:"system_id,omitempty" validate:"omitempty,uuid"`
	Name                 string              `yaml:"name" json:"name" validate:"notblank,max=200"`
	Description          string              `yaml:"description" json:"description" validate:"max=2000"`
	Domain               string              `yaml:"domain" json:"domain" validate:"notblank,max=200"`
	AIType               AIType              `yaml:"ai_type" json:"ai_type" validate:"enum"`
	OwnerRole            string              `yaml:"owner_role" json:"owner_role" validate:"notblank,max=200"`
	DeploymentMode       DeploymentMode      `yaml:"deployment_mode" json:"deployment_mode" validate:"enum"`
	DecisionCriticality  DecisionCriticality `yaml:"decision_criticality" json:"decision_criticality" validate:"enum"`
	AutomationLevel      AutomationLevel     `yaml:"automation_level" json:"automation_level" validate:"enum"`
	DataSensitivity      DataSensitivity     `yaml:"data_sensitivity" json:"data_sensitivity" validate:"enum"`
	ExternalDependencies []string            `yaml:"external_dependencies,omitempty" json:"external_dependencies" validate:"dive,notblank,max=200"`
	// LastUpdated is kept across a save and reload of the inventory file.
	// It is ignored when editing an existing system.
	LastUpdated *time.Time `yaml:"last_updated,omitempty" json:"last_updated,omitempty"`
}

// Normalized returns in with the fields a SystemRecord trims already
// trimmed.
func (in SystemInput) Normalized() SystemInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Domain = strings.TrimSpace(in.Domain)
	in.OwnerRole = strings.TrimSpace(in.OwnerRole)
	return in
}

// Validate checks every field of the input after trimming.
func (in SystemInput) Validate() error {
	return validateStruct("system", in.Normalized())
}

// SystemRecord is one AI system in the inventory. SystemID never changes
// after construction.
type SystemRecord struct {
	SystemID             uuid.UUID           `json:"system_id"`
	Name                 string              `json:"name"`
	Description          string              `json:"description"`
	Domain               string              `json:"domain"`
	AIType               AIType              `json:"ai_type"`
	OwnerRole            string              `json:"owner_role"`
	DeploymentMode       DeploymentMode      `json:"deployment_mode"`
	DecisionCriticality  DecisionCriticality `json:"decision_criticality"`
	AutomationLevel      AutomationLevel     `json:"automation_level"`
	DataSensitivity      DataSensitivity     `json:"data_sensitivity"`
	ExternalDependencies []string            `json:"external_dependencies"`
	LastUpdated          time.Time           `json:"last_updated"`
}

// NewSystemRecord validates in and builds a record. A fresh v4 identifier is
// assigned unless in.SystemID carries one.
func NewSystemRecord(in SystemInput, now time.Time) (*SystemRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	if in.SystemID != "" {
		parsed, err := uuid.Parse(in.SystemID)
		if err != nil {
			return nil, NewViolation("system", "system_id", "uuid", err.Error(), nil)
		}
		id = parsed
	}
	if in.LastUpdated != nil {
		now = *in.LastUpdated
	}
	rec := &SystemRecord{SystemID: id}
	rec.assign(in, now)
	return rec, nil
}

// Apply replaces every mutable field with in and refreshes LastUpdated.
// The identifier is kept; in.SystemID is ignored. On a validation failure the
// record is left untouched.
func (s *SystemRecord) Apply(in SystemInput, now time.Time) error {
	if err := in.Validate(); err != nil {
		return err
	}
	s.assign(in, now)
	return nil
}

func (s *SystemRecord) assign(in SystemInput, now time.Time) {
	in = in.Normalized()
	s.Name = in.Name
	s.Description = in.Description
	s.Domain = in.Domain
	s.AIType = in.AIType
	s.OwnerRole = in.OwnerRole
	s.DeploymentMode = in.DeploymentMode
	s.DecisionCriticality = in.DecisionCriticality
	s.AutomationLevel = in.AutomationLevel
	s.DataSensitivity = in.DataSensitivity
	s.ExternalDependencies = cloneStrings(in.ExternalDependencies)
	s.LastUpdated = now.UTC()
}

// Input returns the record as an input payload, identifier and last update
// included.
func (s *SystemRecord) Input() SystemInput {
	updated := s.LastUpdated
	return SystemInput{
		LastUpdated:          &updated,
		SystemID:             s.SystemID.String(),
		Name:                 s.Name,
		Description:          s.Description,
		Domain:               s.Domain,
		AIType:               s.AIType,
		OwnerRole:            s.OwnerRole,
		DeploymentMode:       s.DeploymentMode,
		DecisionCriticality:  s.DecisionCriticality,
		AutomationLevel:      s.AutomationLevel,
		DataSensitivity:      s.DataSensitivity,
		ExternalDependencies: cloneStrings(s.ExternalDependencies),
	}
}

// Clone returns a deep copy.
func (s *SystemRecord) Clone() *SystemRecord {
	c := *s
	c.ExternalDependencies = cloneStrings(s.ExternalDependencies)
	return &c
}

// cloneStrings copies ss, returning an empty non-nil slice for nil input so
// lists always serialize as [] rather than null.
func cloneStrings(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return slices.Clone(ss)
}
