package inventory

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"aigov/internal/model"
)

// File is the on-disk inventory input. Lifecycle risks reference their
// system by system_name or system_id.
//
//	submitter: AI Program Lead
//	systems:
//	  - name: ML-based Credit Underwriting Model
//	    ai_type: ML
//	    ...
//	lifecycle_risks:
//	  - system_name: ML-based Credit Underwriting Model
//	    lifecycle_phase: DESIGN
//	    ...
type File struct {
	Submitter      string              `yaml:"submitter,omitempty"`
	Systems        []model.SystemInput `yaml:"systems"`
	LifecycleRisks []model.RiskInput   `yaml:"lifecycle_risks"`
}

// ReadFile parses an inventory file without validating it.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse inventory %s: %w", path, err)
	}
	return &f, nil
}

// LoadFile reads path into a new inventory. Every system and risk is
// validated; the first failure aborts the load.
func LoadFile(path string, log *zap.Logger, opts ...Option) (*Inventory, *File, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	inv := New(opts...)
	if err := inv.Import(f); err != nil {
		return nil, nil, fmt.Errorf("load inventory %s: %w", path, err)
	}
	log.Info("inventory loaded",
		zap.String("path", path),
		zap.Int("systems", len(f.Systems)),
		zap.Int("lifecycle_risks", len(f.LifecycleRisks)))
	return inv, f, nil
}

// Import adds every system and then every risk in f. On error the
// inventory is left as it was.
func (inv *Inventory) Import(f *File) error {
	staged := New(WithClock(inv.clock()))
	for i, in := range f.Systems {
		if _, err := staged.AddSystem(in); err != nil {
			return fmt.Errorf("systems[%d]: %w", i, err)
		}
	}
	for i, in := range f.LifecycleRisks {
		if _, err := staged.AddRisk(in); err != nil {
			return fmt.Errorf("lifecycle_risks[%d]: %w", i, err)
		}
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	for _, s := range staged.systems {
		if inv.systemIndex(s.SystemID) >= 0 {
			return model.NewViolation("system", "system_id", "unique",
				fmt.Sprintf("%s is already in the inventory", s.SystemID), nil)
		}
		if err := inv.checkName(s.Name, s.SystemID); err != nil {
			return err
		}
	}
	for _, r := range staged.risks {
		if inv.riskIndex(r.RiskID) >= 0 {
			return model.NewViolation("lifecycle risk", "risk_id", "unique",
				fmt.Sprintf("%s is already in the inventory", r.RiskID), nil)
		}
	}
	inv.systems = append(inv.systems, staged.systems...)
	inv.risks = append(inv.risks, staged.risks...)
	return nil
}

// File returns the inventory in its on-disk shape. Systems and risks carry
// their ids and timestamps, and risks reference systems by id and name.
func (inv *Inventory) File(submitter string) *File {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	f := &File{
		Submitter:      submitter,
		Systems:        make([]model.SystemInput, 0, len(inv.systems)),
		LifecycleRisks: make([]model.RiskInput, 0, len(inv.risks)),
	}
	for _, s := range inv.systems {
		f.Systems = append(f.Systems, s.Input())
	}
	for _, r := range inv.risks {
		in := r.Input()
		if i := inv.systemIndex(r.SystemID); i >= 0 {
			in.SystemName = inv.systems[i].Name
		}
		f.LifecycleRisks = append(f.LifecycleRisks, in)
	}
	return f
}

// SaveFile writes f to path, replacing any existing file.
func SaveFile(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write inventory %s: %w", path, err)
	}
	return nil
}

// WriteSeedFile writes the Sentinel Financial scenario to path with ids and
// timestamps assigned, so every later load sees the same records. It errors
// if path already exists.
func WriteSeedFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("inventory %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	seed := Seed()
	inv := New()
	if err := inv.Import(seed); err != nil {
		return fmt.Errorf("seed inventory: %w", err)
	}
	return SaveFile(path, inv.File(seed.Submitter))
}

func (inv *Inventory) clock() func() time.Time {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.now
}
