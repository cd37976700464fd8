// Package inventory holds the in-memory collections of an assessment: AI
// systems, their risk-tier results and their lifecycle risks.
//
// All three collections sit behind one mutex so operations that touch more
// than one of them (cascade delete, bulk recompute) are atomic with respect
// to each other. Every accessor returns deep copies.
package inventory

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"aigov/internal/lifecycle"
	"aigov/internal/model"
	"aigov/internal/scoring"
)

// UnknownSystem is the display name for a reference to a system that is no
// longer in the inventory.
const UnknownSystem = "Unknown"

var (
	ErrSystemNotFound = errors.New("system not found")
	ErrRiskNotFound   = errors.New("lifecycle risk not found")
	ErrDuplicateName  = errors.New("system name already in use")
)

// Inventory is safe for concurrent use.
type Inventory struct {
	mu      sync.Mutex
	now     func() time.Time
	systems []*model.SystemRecord
	results []*model.RiskTierResult
	risks   []*model.LifecycleRisk
	stale   map[uuid.UUID]bool
}

// Option configures an Inventory.
type Option func(*Inventory)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(inv *Inventory) { inv.now = now }
}

// New returns an empty inventory.
func New(opts ...Option) *Inventory {
	inv := &Inventory{now: time.Now, stale: map[uuid.UUID]bool{}}
	for _, o := range opts {
		o(inv)
	}
	return inv
}

// Snapshot is a consistent deep copy of all three collections.
type Snapshot struct {
	Systems []*model.SystemRecord
	Results []*model.RiskTierResult
	Risks   []*model.LifecycleRisk
}

// SystemName resolves id against the snapshot, falling back to UnknownSystem.
func (s *Snapshot) SystemName(id uuid.UUID) string {
	for _, sys := range s.Systems {
		if sys.SystemID == id {
			return sys.Name
		}
	}
	return UnknownSystem
}

// ---- systems ----

// AddSystem validates in and appends a new system. Names are unique,
// compared case-insensitively after trimming.
func (inv *Inventory) AddSystem(in model.SystemInput) (*model.SystemRecord, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	rec, err := model.NewSystemRecord(in, inv.now())
	if err != nil {
		return nil, err
	}
	if err := inv.checkName(rec.Name, uuid.Nil); err != nil {
		return nil, err
	}
	if inv.systemIndex(rec.SystemID) >= 0 {
		return nil, model.NewViolation("system", "system_id", "unique",
			fmt.Sprintf("%s is already in the inventory", rec.SystemID), nil)
	}
	inv.systems = append(inv.systems, rec)
	return rec.Clone(), nil
}

// UpdateSystem replaces every mutable field of the system with id. Its tier
// result, if any, is kept but reported by StaleResults until the next
// RecomputeTiers.
func (inv *Inventory) UpdateSystem(id uuid.UUID, in model.SystemInput) (*model.SystemRecord, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	i := inv.systemIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("update %s: %w", id, ErrSystemNotFound)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := inv.checkName(in.Name, id); err != nil {
		return nil, err
	}
	rec := inv.systems[i].Clone()
	if err := rec.Apply(in, inv.now()); err != nil {
		return nil, err
	}
	inv.systems[i] = rec
	if inv.resultIndex(id) >= 0 {
		inv.stale[id] = true
	}
	return rec.Clone(), nil
}

// Deleted counts the records removed by DeleteSystem.
type Deleted struct {
	Results int
	Risks   int
}

// DeleteSystem removes the system with id along with every tier result and
// lifecycle risk that references it.
func (inv *Inventory) DeleteSystem(id uuid.UUID) (Deleted, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	i := inv.systemIndex(id)
	if i < 0 {
		return Deleted{}, fmt.Errorf("delete %s: %w", id, ErrSystemNotFound)
	}
	var d Deleted
	inv.systems = append(inv.systems[:i:i], inv.systems[i+1:]...)

	results := inv.results[:0:0]
	for _, r := range inv.results {
		if r.SystemID == id {
			d.Results++
			continue
		}
		results = append(results, r)
	}
	inv.results = results

	risks := inv.risks[:0:0]
	for _, r := range inv.risks {
		if r.SystemID == id {
			d.Risks++
			continue
		}
		risks = append(risks, r)
	}
	inv.risks = risks
	delete(inv.stale, id)
	return d, nil
}

// System returns a copy of the system with id.
func (inv *Inventory) System(id uuid.UUID) (*model.SystemRecord, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	i := inv.systemIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrSystemNotFound)
	}
	return inv.systems[i].Clone(), nil
}

// Systems returns copies of all systems in insertion order.
func (inv *Inventory) Systems() []*model.SystemRecord {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return cloneAll(inv.systems, (*model.SystemRecord).Clone)
}

// FindSystem looks a system up by name, case-insensitively.
func (inv *Inventory) FindSystem(name string) (*model.SystemRecord, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if sys := inv.byName(name); sys != nil {
		return sys.Clone(), nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrSystemNotFound)
}

// SystemName resolves id to a display name, or UnknownSystem.
func (inv *Inventory) SystemName(id uuid.UUID) string {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if i := inv.systemIndex(id); i >= 0 {
		return inv.systems[i].Name
	}
	return UnknownSystem
}

// ---- tier results ----

// RecomputeTiers scores every system and replaces the results collection
// wholesale, one result per system in inventory order. Edited
// justifications are discarded.
func (inv *Inventory) RecomputeTiers() []*model.RiskTierResult {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	at := inv.now()
	results := make([]*model.RiskTierResult, 0, len(inv.systems))
	for _, sys := range inv.systems {
		results = append(results, scoring.Score(sys, at))
	}
	inv.results = results
	clear(inv.stale)
	return cloneAll(inv.results, (*model.RiskTierResult).Clone)
}

// Results returns copies of all tier results.
func (inv *Inventory) Results() []*model.RiskTierResult {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return cloneAll(inv.results, (*model.RiskTierResult).Clone)
}

// Result returns the tier result of the system with id.
func (inv *Inventory) Result(id uuid.UUID) (*model.RiskTierResult, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	i := inv.resultIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("no tier result for %s: %w", id, ErrSystemNotFound)
	}
	return inv.results[i].Clone(), nil
}

// UpdateJustification replaces the justification of one result. Tier, score
// and controls are untouched.
func (inv *Inventory) UpdateJustification(id uuid.UUID, text string) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return model.NewViolation("risk tier result", "justification", "notblank", "must not be blank", nil)
	}
	i := inv.resultIndex(id)
	if i < 0 {
		return fmt.Errorf("no tier result for %s: %w", id, ErrSystemNotFound)
	}
	r := inv.results[i].Clone()
	r.Justification = text
	inv.results[i] = r
	return nil
}

// StaleResults lists the systems edited since their tier was computed, in
// inventory order.
func (inv *Inventory) StaleResults() []uuid.UUID {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	var ids []uuid.UUID
	for _, sys := range inv.systems {
		if inv.stale[sys.SystemID] {
			ids = append(ids, sys.SystemID)
		}
	}
	return ids
}

// ---- lifecycle risks ----

// AddRisk validates in and binds it to an existing system, referenced by
// in.SystemID or, when that is empty, by in.SystemName.
func (inv *Inventory) AddRisk(in model.RiskInput) (*model.LifecycleRisk, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	sys, err := inv.resolve(in)
	if err != nil {
		return nil, err
	}
	r, err := model.NewLifecycleRisk(sys.SystemID, in, inv.now())
	if err != nil {
		return nil, err
	}
	if inv.riskIndex(r.RiskID) >= 0 {
		return nil, model.NewViolation("lifecycle risk", "risk_id", "unique",
			fmt.Sprintf("%s is already in the inventory", r.RiskID), nil)
	}
	inv.risks = append(inv.risks, r)
	return r.Clone(), nil
}

// UpdateRisk applies a partial edit. Severity follows the new impact and
// likelihood.
func (inv *Inventory) UpdateRisk(id uuid.UUID, u lifecycle.Update) (*model.LifecycleRisk, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	i := inv.riskIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("update %s: %w", id, ErrRiskNotFound)
	}
	r := inv.risks[i].Clone()
	if err := lifecycle.Apply(r, u); err != nil {
		return nil, err
	}
	inv.risks[i] = r
	return r.Clone(), nil
}

// DeleteRisk removes one lifecycle risk.
func (inv *Inventory) DeleteRisk(id uuid.UUID) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	i := inv.riskIndex(id)
	if i < 0 {
		return fmt.Errorf("delete %s: %w", id, ErrRiskNotFound)
	}
	inv.risks = append(inv.risks[:i:i], inv.risks[i+1:]...)
	return nil
}

// Risks returns copies of all lifecycle risks in insertion order.
func (inv *Inventory) Risks() []*model.LifecycleRisk {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return cloneAll(inv.risks, (*model.LifecycleRisk).Clone)
}

// Snapshot copies all three collections under a single lock.
func (inv *Inventory) Snapshot() *Snapshot {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return &Snapshot{
		Systems: cloneAll(inv.systems, (*model.SystemRecord).Clone),
		Results: cloneAll(inv.results, (*model.RiskTierResult).Clone),
		Risks:   cloneAll(inv.risks, (*model.LifecycleRisk).Clone),
	}
}

// ---- helpers (callers hold mu) ----

func (inv *Inventory) systemIndex(id uuid.UUID) int {
	for i, s := range inv.systems {
		if s.SystemID == id {
			return i
		}
	}
	return -1
}

func (inv *Inventory) resultIndex(id uuid.UUID) int {
	for i, r := range inv.results {
		if r.SystemID == id {
			return i
		}
	}
	return -1
}

func (inv *Inventory) riskIndex(id uuid.UUID) int {
	for i, r := range inv.risks {
		if r.RiskID == id {
			return i
		}
	}
	return -1
}

func (inv *Inventory) byName(name string) *model.SystemRecord {
	key := normalizeName(name)
	for _, s := range inv.systems {
		if normalizeName(s.Name) == key {
			return s
		}
	}
	return nil
}

// checkName rejects name when a system other than self already uses it.
func (inv *Inventory) checkName(name string, self uuid.UUID) error {
	if other := inv.byName(name); other != nil && other.SystemID != self {
		return model.NewViolation("system", "name", "unique",
			fmt.Sprintf("%q is already used by system %s", strings.TrimSpace(name), other.SystemID), ErrDuplicateName)
	}
	return nil
}

func (inv *Inventory) resolve(in model.RiskInput) (*model.SystemRecord, error) {
	if in.SystemID != "" {
		id, err := uuid.Parse(in.SystemID)
		if err != nil {
			return nil, model.NewViolation("lifecycle risk", "system_id", "uuid", err.Error(), nil)
		}
		if i := inv.systemIndex(id); i >= 0 {
			return inv.systems[i], nil
		}
		return nil, fmt.Errorf("lifecycle risk references %s: %w", id, ErrSystemNotFound)
	}
	if strings.TrimSpace(in.SystemName) == "" {
		return nil, model.NewViolation("lifecycle risk", "system_id", "required",
			"a system_id or system_name is required", nil)
	}
	if sys := inv.byName(in.SystemName); sys != nil {
		return sys, nil
	}
	return nil, fmt.Errorf("lifecycle risk references %q: %w", in.SystemName, ErrSystemNotFound)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cloneAll[T any](in []T, clone func(T) T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}
