package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Impact and likelihood are scored on a closed 1..5 scale.
const (
	MinRating = 1
	MaxRating = 5
)

// RiskInput is the caller-supplied payload for a lifecycle risk. In the
// inventory file the owning system is referenced by SystemName or SystemID.
type RiskInput struct {
	RiskID         string         `yaml:"risk_id,omitempty" json:"risk_id,omitempty" validate:"omitempty,uuid"`
	SystemID       string         `yaml:"system_id,omitempty" json:"system_id,omitempty" validate:"omitempty,uuid"`
	SystemName     string         `yaml:"system_name,omitempty" json:"system_name,omitempty"`
	LifecyclePhase LifecyclePhase `yaml:"lifecycle_phase" json:"lifecycle_phase" validate:"enum"`
	RiskCategory   RiskCategory   `yaml:"risk_category" json:"risk_category" validate:"enum"`
	RiskStatement  string         `yaml:"risk_statement" json:"risk_statement" validate:"notblank,min=10,max=1000"`
	Impact         int            `yaml:"impact" json:"impact" validate:"min=1,max=5"`
	Likelihood     int            `yaml:"likelihood" json:"likelihood" validate:"min=1,max=5"`
	Mitigation     string         `yaml:"mitigation,omitempty" json:"mitigation,omitempty" validate:"max=2000"`
	OwnerRole      string         `yaml:"owner_role,omitempty" json:"owner_role,omitempty" validate:"max=200"`
	EvidenceLinks  []string       `yaml:"evidence_links,omitempty" json:"evidence_links,omitempty" validate:"dive,url"`
	CreatedAt      *time.Time     `yaml:"created_at,omitempty" json:"created_at,omitempty"`
}

// Normalized returns in with its free-text fields trimmed, which is the
// form a LifecycleRisk stores.
func (in RiskInput) Normalized() RiskInput {
	in.SystemName = strings.TrimSpace(in.SystemName)
	in.RiskStatement = strings.TrimSpace(in.RiskStatement)
	in.Mitigation = strings.TrimSpace(in.Mitigation)
	in.OwnerRole = strings.TrimSpace(in.OwnerRole)
	return in
}

// Validate checks every field of the input after trimming, so length rules
// apply to the text that is actually stored.
func (in RiskInput) Validate() error {
	return validateStruct("lifecycle risk", in.Normalized())
}

// LifecycleRisk is a risk identified in one lifecycle phase of a system.
//
// Severity is not a field: it is computed from Impact and Likelihood on every
// read, so it cannot drift from its inputs. Edits should go through
// lifecycle.Apply so the 1..5 range is enforced.
type LifecycleRisk struct {
	RiskID         uuid.UUID
	SystemID       uuid.UUID
	LifecyclePhase LifecyclePhase
	RiskCategory   RiskCategory
	RiskStatement  string
	Impact         int
	Likelihood     int
	Mitigation     *string
	OwnerRole      *string
	EvidenceLinks  []string
	CreatedAt      time.Time
}

// NewLifecycleRisk validates in and builds a risk bound to systemID.
// Reference resolution (does systemID exist?) is the caller's job.
func NewLifecycleRisk(systemID uuid.UUID, in RiskInput, now time.Time) (*LifecycleRisk, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	r := &LifecycleRisk{
		RiskID:    uuid.New(),
		SystemID:  systemID,
		CreatedAt: now.UTC(),
	}
	if in.RiskID != "" {
		id, err := uuid.Parse(in.RiskID)
		if err != nil {
			return nil, NewViolation("lifecycle risk", "risk_id", "uuid", err.Error(), nil)
		}
		r.RiskID = id
	}
	if in.CreatedAt != nil {
		r.CreatedAt = in.CreatedAt.UTC()
	}
	r.Assign(in)
	return r, nil
}

// Severity is Impact × Likelihood.
func (r *LifecycleRisk) Severity() int {
	return r.Impact * r.Likelihood
}

// Assign copies the editable fields of a validated input onto r. Empty
// mitigation and owner role become nil.
func (r *LifecycleRisk) Assign(in RiskInput) {
	in = in.Normalized()
	r.LifecyclePhase = in.LifecyclePhase
	r.RiskCategory = in.RiskCategory
	r.RiskStatement = in.RiskStatement
	r.Impact = in.Impact
	r.Likelihood = in.Likelihood
	r.Mitigation = optional(in.Mitigation)
	r.OwnerRole = optional(in.OwnerRole)
	r.EvidenceLinks = cloneStrings(in.EvidenceLinks)
}

// Input returns the risk as an input payload, identifier and creation time
// included.
func (r *LifecycleRisk) Input() RiskInput {
	created := r.CreatedAt
	return RiskInput{
		RiskID:         r.RiskID.String(),
		CreatedAt:      &created,
		SystemID:       r.SystemID.String(),
		LifecyclePhase: r.LifecyclePhase,
		RiskCategory:   r.RiskCategory,
		RiskStatement:  r.RiskStatement,
		Impact:         r.Impact,
		Likelihood:     r.Likelihood,
		Mitigation:     deref(r.Mitigation),
		OwnerRole:      deref(r.OwnerRole),
		EvidenceLinks:  cloneStrings(r.EvidenceLinks),
	}
}

// Clone returns a deep copy.
func (r *LifecycleRisk) Clone() *LifecycleRisk {
	c := *r
	c.Mitigation = optional(deref(r.Mitigation))
	c.OwnerRole = optional(deref(r.OwnerRole))
	c.EvidenceLinks = cloneStrings(r.EvidenceLinks)
	return &c
}

type riskWire struct {
	RiskID         uuid.UUID      `json:"risk_id"`
	SystemID       uuid.UUID      `json:"system_id"`
	LifecyclePhase LifecyclePhase `json:"lifecycle_phase"`
	RiskCategory   RiskCategory   `json:"risk_category"`
	RiskStatement  string         `json:"risk_statement"`
	Impact         int            `json:"impact"`
	Likelihood     int            `json:"likelihood"`
	Severity       int            `json:"severity"`
	Mitigation     *string        `json:"mitigation"`
	OwnerRole      *string        `json:"owner_role"`
	EvidenceLinks  []string       `json:"evidence_links"`
	CreatedAt      time.Time      `json:"created_at"`
}

// MarshalJSON includes the derived severity.
func (r LifecycleRisk) MarshalJSON() ([]byte, error) {
	return json.Marshal(riskWire{
		RiskID:         r.RiskID,
		SystemID:       r.SystemID,
		LifecyclePhase: r.LifecyclePhase,
		RiskCategory:   r.RiskCategory,
		RiskStatement:  r.RiskStatement,
		Impact:         r.Impact,
		Likelihood:     r.Likelihood,
		Severity:       r.Severity(),
		Mitigation:     r.Mitigation,
		OwnerRole:      r.OwnerRole,
		EvidenceLinks:  cloneStrings(r.EvidenceLinks),
		CreatedAt:      r.CreatedAt,
	})
}

// UnmarshalJSON re-validates the decoded risk and rejects a stored severity
// that disagrees with impact × likelihood.
func (r *LifecycleRisk) UnmarshalJSON(data []byte) error {
	var w riskWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	got := LifecycleRisk{
		RiskID:         w.RiskID,
		SystemID:       w.SystemID,
		LifecyclePhase: w.LifecyclePhase,
		RiskCategory:   w.RiskCategory,
		RiskStatement:  w.RiskStatement,
		Impact:         w.Impact,
		Likelihood:     w.Likelihood,
		Mitigation:     w.Mitigation,
		OwnerRole:      w.OwnerRole,
		EvidenceLinks:  cloneStrings(w.EvidenceLinks),
		CreatedAt:      w.CreatedAt,
	}
	if err := got.Input().Validate(); err != nil {
		return err
	}
	got.Assign(got.Input())
	if w.Severity != got.Severity() {
		return fmt.Errorf("lifecycle risk %s: severity %d does not match impact %d × likelihood %d",
			w.RiskID, w.Severity, w.Impact, w.Likelihood)
	}
	*r = got
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
