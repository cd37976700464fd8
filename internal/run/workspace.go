// Package run manages run-scoped output directories and the
// export → manifest → package pipeline that fills them.
//
// Directory layout:
//
//	<base>/
//	    20260314T093000Z-1a2b3c4d/    # one directory per run
//	        model_inventory.csv
//	        ...
//	        evidence_manifest.json
//	        audit_package_ai_governance.zip
package run

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const stampLayout = "20060102T150405Z"

// Workspace is the base directory holding every run directory.
type Workspace struct {
	BaseDir string
	log     *zap.Logger
}

// Dir is one run directory found in a workspace.
type Dir struct {
	Name    string
	Path    string
	Created time.Time
}

// NewWorkspace returns a workspace rooted at base. The directory is created
// lazily by Create.
func NewWorkspace(base string, log *zap.Logger) *Workspace {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workspace{BaseDir: base, log: log}
}

// DirName is the directory name of a run started at now with id.
func DirName(now time.Time, id uuid.UUID) string {
	return now.UTC().Format(stampLayout) + "-" + id.String()[:8]
}

// Create makes a fresh run directory and errors if it already exists.
func (w *Workspace) Create(now time.Time, id uuid.UUID) (string, error) {
	if err := os.MkdirAll(w.BaseDir, 0o755); err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	dir := filepath.Join(w.BaseDir, DirName(now, id))
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("run directory %s already exists", dir)
		}
		return "", fmt.Errorf("create run directory: %w", err)
	}
	w.log.Debug("run directory created", zap.String("dir", dir))
	return dir, nil
}

// List returns the run directories in the workspace, oldest first.
// Entries whose names are not run directory names are ignored. A missing
// workspace has no runs.
func (w *Workspace) List() ([]Dir, error) {
	entries, err := os.ReadDir(w.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var dirs []Dir
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		created, ok := parseDirName(e.Name())
		if !ok {
			continue
		}
		dirs = append(dirs, Dir{Name: e.Name(), Path: filepath.Join(w.BaseDir, e.Name()), Created: created})
	}
	slices.SortFunc(dirs, func(a, b Dir) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return dirs, nil
}

// Latest returns the most recent run directory.
func (w *Workspace) Latest() (Dir, error) {
	dirs, err := w.List()
	if err != nil {
		return Dir{}, err
	}
	if len(dirs) == 0 {
		return Dir{}, fmt.Errorf("no runs in %s", w.BaseDir)
	}
	return dirs[len(dirs)-1], nil
}

// Cleanup removes every run directory created more than retention before
// now and returns the removed paths. A zero retention removes nothing.
// Directories listed in keep are never removed.
func (w *Workspace) Cleanup(retention time.Duration, now time.Time, keep ...string) ([]string, error) {
	if retention < 0 {
		return nil, fmt.Errorf("negative retention %s", retention)
	}
	if retention == 0 {
		return nil, nil
	}
	dirs, err := w.List()
	if err != nil {
		return nil, err
	}
	cutoff := now.Add(-retention)
	var removed []string
	for _, d := range dirs {
		if !d.Created.Before(cutoff) || kept(d.Path, keep) {
			continue
		}
		if err := os.RemoveAll(d.Path); err != nil {
			return removed, fmt.Errorf("remove run %s: %w", d.Name, err)
		}
		removed = append(removed, d.Path)
	}
	if len(removed) > 0 {
		w.log.Info("stale runs removed", zap.Int("count", len(removed)), zap.Duration("retention", retention))
	}
	return removed, nil
}

func parseDirName(name string) (time.Time, bool) {
	stamp, suffix, ok := strings.Cut(name, "-")
	if !ok || len(suffix) != 8 {
		return time.Time{}, false
	}
	for _, r := range suffix {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return time.Time{}, false
		}
	}
	t, err := time.Parse(stampLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func kept(path string, keep []string) bool {
	for _, k := range keep {
		if filepath.Clean(k) == filepath.Clean(path) {
			return true
		}
	}
	return false
}
