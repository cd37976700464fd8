package export

import (
	"encoding/json"
	"fmt"

	"aigov/internal/inventory"
	"aigov/internal/model"
	"aigov/internal/scoring"
)

const jsonIndent = "    "

func riskTieringJSON(snap *inventory.Snapshot, _ Meta) ([]byte, error) {
	return marshalList(snap.Results)
}

func lifecycleRiskJSON(snap *inventory.Snapshot, _ Meta) ([]byte, error) {
	return marshalList(snap.Risks)
}

// marshalList writes a JSON array, never null, with a trailing newline.
func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", jsonIndent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeResults parses risk_tiering.json. Each result must be internally
// consistent: total equal to the component sum and a tier matching it.
func DecodeResults(data []byte) ([]*model.RiskTierResult, error) {
	var out []*model.RiskTierResult
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", RiskTieringJSON, err)
	}
	for i, r := range out {
		if err := scoring.Check(r); err != nil {
			return nil, fmt.Errorf("decode %s: [%d]: %w", RiskTieringJSON, i, err)
		}
	}
	return out, nil
}

// DecodeRisks parses lifecycle_risk_map.json. A stored severity that
// disagrees with impact × likelihood is rejected.
func DecodeRisks(data []byte) ([]*model.LifecycleRisk, error) {
	var out []*model.LifecycleRisk
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", LifecycleRiskMap, err)
	}
	return out, nil
}
