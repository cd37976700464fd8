package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"aigov/internal/inventory"
	"aigov/internal/model"
)

var inventoryColumns = []string{
	"system_id", "name", "description", "domain", "ai_type", "owner_role",
	"deployment_mode", "decision_criticality", "automation_level",
	"data_sensitivity", "external_dependencies", "last_updated",
}

func inventoryCSV(snap *inventory.Snapshot, _ Meta) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(inventoryColumns); err != nil {
		return nil, err
	}
	for _, s := range snap.Systems {
		deps, err := json.Marshal(s.ExternalDependencies)
		if err != nil {
			return nil, fmt.Errorf("system %s: %w", s.SystemID, err)
		}
		row := []string{
			s.SystemID.String(),
			s.Name,
			s.Description,
			s.Domain,
			string(s.AIType),
			s.OwnerRole,
			string(s.DeploymentMode),
			string(s.DecisionCriticality),
			string(s.AutomationLevel),
			string(s.DataSensitivity),
			string(deps),
			s.LastUpdated.UTC().Format(time.RFC3339Nano),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseInventoryCSV reads a model_inventory.csv back into records. Every row
// is re-validated.
func ParseInventoryCSV(r io.Reader) ([]*model.SystemRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(inventoryColumns)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range inventoryColumns {
		if header[i] != col {
			return nil, fmt.Errorf("column %d: got %q, want %q", i, header[i], col)
		}
	}

	var out []*model.SystemRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var deps []string
		if err := json.Unmarshal([]byte(row[10]), &deps); err != nil {
			return nil, fmt.Errorf("line %d: external_dependencies: %w", line, err)
		}
		updated, err := time.Parse(time.RFC3339Nano, row[11])
		if err != nil {
			return nil, fmt.Errorf("line %d: last_updated: %w", line, err)
		}
		rec, err := model.NewSystemRecord(model.SystemInput{
			SystemID:             row[0],
			Name:                 row[1],
			Description:          row[2],
			Domain:               row[3],
			AIType:               model.AIType(row[4]),
			OwnerRole:            row[5],
			DeploymentMode:       model.DeploymentMode(row[6]),
			DecisionCriticality:  model.DecisionCriticality(row[7]),
			AutomationLevel:      model.AutomationLevel(row[8]),
			DataSensitivity:      model.DataSensitivity(row[9]),
			ExternalDependencies: deps,
		}, updated)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
