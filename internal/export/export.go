package export

// export.go - audit artifact export: converts an inventory snapshot into the
// four files an auditor receives.
//
// Layout of a run directory after Write:
//   model_inventory.csv          one row per system
//   risk_tiering.json            one object per tier result
//   lifecycle_risk_map.json      one object per lifecycle risk
//   case1_executive_summary.md   narrative report
//
// Build is pure; Write is the only step that touches the filesystem.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aigov/internal/inventory"
)

// Artifact file names, in production order.
const (
	InventoryCSV     = "model_inventory.csv"
	RiskTieringJSON  = "risk_tiering.json"
	LifecycleRiskMap = "lifecycle_risk_map.json"
	ExecutiveSummary = "case1_executive_summary.md"
)

// Meta is report context that is not part of the inventory.
type Meta struct {
	Organization string
	PreparedBy   string
	Date         time.Time
}

// Producer renders one artifact from a snapshot.
type Producer interface {
	// Name is the artifact's file name.
	Name() string

	// Produce returns the artifact's exact bytes. It must not depend on
	// anything but its arguments.
	Produce(snap *inventory.Snapshot, meta Meta) ([]byte, error)
}

// Producers returns the standard artifact set in its fixed order.
func Producers() []Producer {
	return []Producer{
		producerFunc{InventoryCSV, inventoryCSV},
		producerFunc{RiskTieringJSON, riskTieringJSON},
		producerFunc{LifecycleRiskMap, lifecycleRiskJSON},
		producerFunc{ExecutiveSummary, summaryMarkdown},
	}
}

type producerFunc struct {
	name string
	fn   func(*inventory.Snapshot, Meta) ([]byte, error)
}

func (p producerFunc) Name() string { return p.name }

func (p producerFunc) Produce(snap *inventory.Snapshot, meta Meta) ([]byte, error) {
	return p.fn(snap, meta)
}

// File is one rendered artifact.
type File struct {
	Name string
	Data []byte
}

// Bundle holds rendered artifacts in production order.
type Bundle struct {
	Files []File
}

// Build renders every producer against snap. No files are written.
func Build(snap *inventory.Snapshot, meta Meta, producers ...Producer) (*Bundle, error) {
	if len(producers) == 0 {
		producers = Producers()
	}
	b := &Bundle{Files: make([]File, 0, len(producers))}
	seen := make(map[string]bool, len(producers))
	for _, p := range producers {
		if seen[p.Name()] {
			return nil, fmt.Errorf("duplicate artifact %q", p.Name())
		}
		seen[p.Name()] = true
		data, err := p.Produce(snap, meta)
		if err != nil {
			return nil, fmt.Errorf("produce %s: %w", p.Name(), err)
		}
		b.Files = append(b.Files, File{Name: p.Name(), Data: data})
	}
	return b, nil
}

// Write writes every file of b into dir and returns the written paths in
// order. dir must already exist. A failure partway leaves the files written
// so far in place.
func Write(b *Bundle, dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output directory %s is not a directory", dir)
	}
	paths := make([]string, 0, len(b.Files))
	for _, f := range b.Files {
		p := filepath.Join(dir, f.Name)
		if err := os.WriteFile(p, f.Data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
