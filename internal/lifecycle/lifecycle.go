// Package lifecycle holds the mutation and ranking rules for lifecycle risks.
//
// Severity is derived (impact × likelihood) and has no setter; every edit goes
// through Apply, which re-validates the whole risk before touching it.
package lifecycle

import (
	"cmp"
	"slices"

	"aigov/internal/model"
)

// Update is a partial edit of a lifecycle risk. Nil fields are left as they
// are. An empty string clears Mitigation or OwnerRole.
type Update struct {
	LifecyclePhase *model.LifecyclePhase
	RiskCategory   *model.RiskCategory
	RiskStatement  *string
	Impact         *int
	Likelihood     *int
	Mitigation     *string
	OwnerRole      *string
	EvidenceLinks  []string
}

// Empty reports whether u changes nothing.
func (u Update) Empty() bool {
	return u.LifecyclePhase == nil && u.RiskCategory == nil && u.RiskStatement == nil &&
		u.Impact == nil && u.Likelihood == nil && u.Mitigation == nil &&
		u.OwnerRole == nil && u.EvidenceLinks == nil
}

// Apply merges u into r. The merged risk is validated in full first; on
// failure r is unchanged and a *model.ValidationError is returned.
func Apply(r *model.LifecycleRisk, u Update) error {
	in := r.Input()
	if u.LifecyclePhase != nil {
		in.LifecyclePhase = *u.LifecyclePhase
	}
	if u.RiskCategory != nil {
		in.RiskCategory = *u.RiskCategory
	}
	if u.RiskStatement != nil {
		in.RiskStatement = *u.RiskStatement
	}
	if u.Impact != nil {
		in.Impact = *u.Impact
	}
	if u.Likelihood != nil {
		in.Likelihood = *u.Likelihood
	}
	if u.Mitigation != nil {
		in.Mitigation = *u.Mitigation
	}
	if u.OwnerRole != nil {
		in.OwnerRole = *u.OwnerRole
	}
	if u.EvidenceLinks != nil {
		in.EvidenceLinks = u.EvidenceLinks
	}
	if err := in.Validate(); err != nil {
		return err
	}
	r.Assign(in)
	return nil
}

// Rank returns the risks ordered by descending severity. Ties keep their
// input order. The input slice is not reordered.
func Rank(risks []*model.LifecycleRisk) []*model.LifecycleRisk {
	out := slices.Clone(risks)
	slices.SortStableFunc(out, func(a, b *model.LifecycleRisk) int {
		return cmp.Compare(b.Severity(), a.Severity())
	})
	return out
}

// Top returns at most n of the highest-severity risks.
func Top(risks []*model.LifecycleRisk, n int) []*model.LifecycleRisk {
	ranked := Rank(risks)
	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Band is a coarse label for a severity, used in summaries.
func Band(severity int) string {
	switch {
	case severity >= 15:
		return "HIGH"
	case severity >= 8:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
