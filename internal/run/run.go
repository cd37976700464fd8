package run

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aigov/internal/evidence"
	"aigov/internal/export"
	"aigov/internal/inventory"
	"aigov/internal/model"
)

// State is a stage of the evidence pipeline.
type State string

const (
	StateEmpty              State = "EMPTY"
	StateArtifactsGenerated State = "ARTIFACTS_GENERATED"
	StateManifestGenerated  State = "MANIFEST_GENERATED"
	StatePackaged           State = "PACKAGED"
)

var (
	ErrInvalidTransition = errors.New("invalid pipeline transition")
	ErrNoArtifacts       = errors.New("no artifacts generated")
)

// Settings are the run-independent inputs of the pipeline.
type Settings struct {
	Submitter   string
	AppVersion  string
	ArchiveName string
	// InputsHash is recorded in the manifest when set.
	InputsHash *string
}

// Run is one pass through the pipeline in its own directory. It is not safe
// for concurrent use.
type Run struct {
	ws       *Workspace
	settings Settings
	log      *zap.Logger
	now      func() time.Time

	id       uuid.UUID
	dir      string
	state    State
	files    []string
	manifest *model.EvidenceManifest
	archive  string
}

// Option configures a Run.
type Option func(*Run)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Run) { r.now = now }
}

// Start creates a run directory in w and returns an EMPTY run.
func (w *Workspace) Start(s Settings, opts ...Option) (*Run, error) {
	if s.ArchiveName == "" {
		return nil, errors.New("archive name is required")
	}
	r := &Run{ws: w, settings: s, log: w.log, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Run) open() error {
	id := uuid.New()
	dir, err := r.ws.Create(r.now(), id)
	if err != nil {
		return err
	}
	r.id, r.dir, r.state = id, dir, StateEmpty
	r.files, r.manifest, r.archive = nil, nil, ""
	r.log = r.ws.log.With(zap.String("run_id", id.String()))
	r.log.Info("run started", zap.String("dir", dir))
	return nil
}

func (r *Run) ID() uuid.UUID { return r.id }
func (r *Run) Dir() string { return r.dir }
func (r *Run) State() State { return r.state }
func (r *Run) Files() []string { return slices.Clone(r.files) }
func (r *Run) Manifest() *model.EvidenceManifest { return r.manifest }
func (r *Run) Archive() string { return r.archive }

// GenerateArtifacts exports snap into the run directory. It may be repeated
// until the run is packaged; a repeat discards any manifest already built.
func (r *Run) GenerateArtifacts(snap *inventory.Snapshot, meta export.Meta) ([]string, error) {
	if r.state == StatePackaged {
		return nil, r.transitionErr("generate artifacts")
	}
	b, err := export.Build(snap, meta)
	if err != nil {
		return nil, err
	}
	if r.manifest != nil {
		if err := os.Remove(filepath.Join(r.dir, evidence.ManifestName)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("discard manifest: %w", err)
		}
		r.manifest = nil
	}
	paths, err := export.Write(b, r.dir)
	if err != nil {
		r.files, r.state = nil, StateEmpty
		return nil, err
	}
	r.files = paths
	r.state = StateArtifactsGenerated
	r.log.Info("artifacts generated",
		zap.Int("systems", len(snap.Systems)),
		zap.Int("results", len(snap.Results)),
		zap.Int("risks", len(snap.Risks)),
		zap.Strings("files", names(paths)))
	return slices.Clone(paths), nil
}

// GenerateManifest hashes the generated artifacts and writes the manifest,
// which joins the file list. Rebuilding replaces the previous manifest.
func (r *Run) GenerateManifest() (*model.EvidenceManifest, error) {
	switch r.state {
	case StateEmpty:
		return nil, fmt.Errorf("generate manifest: %w", ErrNoArtifacts)
	case StatePackaged:
		return nil, r.transitionErr("generate manifest")
	}
	artifacts := slices.DeleteFunc(slices.Clone(r.files), func(p string) bool {
		return filepath.Base(p) == evidence.ManifestName
	})
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("generate manifest: %w", ErrNoArtifacts)
	}

	m, err := evidence.BuildManifest(artifacts, evidence.Options{
		RunID:       r.id,
		GeneratedAt: r.now(),
		Submitter:   r.settings.Submitter,
		AppVersion:  r.settings.AppVersion,
		InputsHash:  r.settings.InputsHash,
	})
	if err != nil {
		return nil, err
	}
	path, err := evidence.WriteManifest(m, r.dir)
	if err != nil {
		return nil, err
	}
	r.files = append(artifacts, path)
	r.manifest = m
	r.state = StateManifestGenerated
	r.log.Info("manifest generated", zap.Int("artifacts", len(m.Artifacts)), zap.Stringp("outputs_hash", m.OutputsHash))
	return m, nil
}

// Package zips every file of the run, manifest included, into
// <dir>/<archive name>.zip.
func (r *Run) Package() (string, error) {
	if r.state != StateManifestGenerated {
		return "", r.transitionErr("package")
	}
	if len(r.files) == 0 {
		return "", fmt.Errorf("package: %w", ErrNoArtifacts)
	}
	zipPath := filepath.Join(r.dir, r.settings.ArchiveName+".zip")
	if err := evidence.Package(zipPath, r.files, r.manifest.GeneratedAt, r.log); err != nil {
		return "", err
	}
	r.archive = zipPath
	r.state = StatePackaged
	return zipPath, nil
}

// Reset hands a packaged run off and moves to a fresh, EMPTY run directory.
// The previous directory is kept until Cleanup removes it.
func (r *Run) Reset() error {
	if r.state != StatePackaged {
		return r.transitionErr("reset")
	}
	return r.open()
}

func (r *Run) transitionErr(op string) error {
	return fmt.Errorf("%s from %s: %w", op, r.state, ErrInvalidTransition)
}

func names(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
