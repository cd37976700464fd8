package run_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"aigov/internal/evidence"
	"aigov/internal/export"
	"aigov/internal/inventory"
	"aigov/internal/run"
)

var start = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

func settings() run.Settings {
	return run.Settings{
		Submitter:   "AI Program Lead",
		AppVersion:  "1.0.0",
		ArchiveName: "audit_package_ai_governance",
	}
}

func snapshot(t *testing.T) *inventory.Snapshot {
	t.Helper()
	inv := inventory.New(inventory.WithClock(func() time.Time { return start }))
	require.NoError(t, inv.Import(inventory.Seed()))
	inv.RecomputeTiers()
	return inv.Snapshot()
}

var meta = export.Meta{Organization: "Sentinel Financial", PreparedBy: "AI Program Lead", Date: start}

// ---- workspace ----

func TestDirName(t *testing.T) {
	id := uuid.MustParse("1a2b3c4d-0000-4000-8000-000000000000")
	local := start.In(time.FixedZone("X", 3600))
	assert.Equal(t, "20260701T090000Z-1a2b3c4d", run.DirName(local, id))
}

func TestWorkspaceListAndCleanup(t *testing.T) {
	base := t.TempDir()
	ws := run.NewWorkspace(base, nil)

	old, err := ws.Create(start.Add(-48*time.Hour), uuid.New())
	require.NoError(t, err)
	recent, err := ws.Create(start.Add(-time.Hour), uuid.New())
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(base, "not-a-run"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "notes.txt"), nil, 0o644))

	dirs, err := ws.List()
	require.NoError(t, err)
	require.Len(t, dirs, 2)
	assert.Equal(t, old, dirs[0].Path)
	assert.Equal(t, recent, dirs[1].Path)

	latest, err := ws.Latest()
	require.NoError(t, err)
	assert.Equal(t, recent, latest.Path)

	removed, err := ws.Cleanup(24*time.Hour, start)
	require.NoError(t, err)
	assert.Equal(t, []string{old}, removed)
	assert.NoDirExists(t, old)
	assert.DirExists(t, recent)
	assert.DirExists(t, filepath.Join(base, "not-a-run"))

	removed, err = ws.Cleanup(0, start)
	require.NoError(t, err)
	assert.Empty(t, removed)

	_, err = ws.Cleanup(-time.Hour, start)
	assert.Error(t, err)
}

func TestCleanupKeepsCurrentRun(t *testing.T) {
	ws := run.NewWorkspace(t.TempDir(), nil)
	created := start.Add(900 * time.Millisecond)
	current, err := ws.Create(created, uuid.New())
	require.NoError(t, err)

	// The directory is stamped 09:00:00, so a sub-second window already
	// places it before the cutoff.
	removed, err := ws.Cleanup(500*time.Millisecond, created, current)
	require.NoError(t, err)
	assert.Empty(t, removed)
	assert.DirExists(t, current)

	removed, err = ws.Cleanup(500*time.Millisecond, created)
	require.NoError(t, err)
	assert.Equal(t, []string{current}, removed)
}

func TestWorkspaceMissingBase(t *testing.T) {
	ws := run.NewWorkspace(filepath.Join(t.TempDir(), "absent"), nil)
	dirs, err := ws.List()
	require.NoError(t, err)
	assert.Empty(t, dirs)
	_, err = ws.Latest()
	assert.Error(t, err)
}

func TestCreateRejectsExisting(t *testing.T) {
	ws := run.NewWorkspace(t.TempDir(), nil)
	id := uuid.New()
	_, err := ws.Create(start, id)
	require.NoError(t, err)
	_, err = ws.Create(start, id)
	assert.Error(t, err)
}

// ---- pipeline ----

func TestPipelineHappyPath(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ws := run.NewWorkspace(t.TempDir(), zap.New(core))
	in := "deadbeef"
	s := settings()
	s.InputsHash = &in

	r, err := ws.Start(s, run.WithClock(func() time.Time { return start }))
	require.NoError(t, err)
	assert.Equal(t, run.StateEmpty, r.State())

	paths, err := r.GenerateArtifacts(snapshot(t), meta)
	require.NoError(t, err)
	assert.Len(t, paths, 4)
	assert.Equal(t, run.StateArtifactsGenerated, r.State())

	m, err := r.GenerateManifest()
	require.NoError(t, err)
	assert.Equal(t, run.StateManifestGenerated, r.State())
	assert.Equal(t, r.ID(), m.RunID)
	assert.Equal(t, &in, m.InputsHash)
	assert.Len(t, m.Artifacts, 4)
	require.Len(t, r.Files(), 5)
	assert.Equal(t, evidence.ManifestName, filepath.Base(r.Files()[4]))

	zipPath, err := r.Package()
	require.NoError(t, err)
	assert.Equal(t, run.StatePackaged, r.State())
	assert.Equal(t, filepath.Join(r.Dir(), "audit_package_ai_governance.zip"), zipPath)

	entries, err := evidence.Entries(zipPath)
	require.NoError(t, err)
	assert.Equal(t, []string{
		export.InventoryCSV, export.RiskTieringJSON, export.LifecycleRiskMap,
		export.ExecutiveSummary, evidence.ManifestName,
	}, entries)

	checks, err := evidence.Verify(m, r.Dir())
	require.NoError(t, err)
	assert.Len(t, checks, 4)

	assert.Equal(t, 1, logs.FilterMessage("manifest generated").Len())
	assert.Equal(t, 1, logs.FilterMessage("archive written").Len())
}

func TestPipelineRejectsOutOfOrderTransitions(t *testing.T) {
	ws := run.NewWorkspace(t.TempDir(), nil)
	r, err := ws.Start(settings())
	require.NoError(t, err)

	_, err = r.GenerateManifest()
	assert.ErrorIs(t, err, run.ErrNoArtifacts)
	assert.Equal(t, run.StateEmpty, r.State())

	_, err = r.Package()
	assert.ErrorIs(t, err, run.ErrInvalidTransition)
	assert.ErrorIs(t, r.Reset(), run.ErrInvalidTransition)

	_, err = r.GenerateArtifacts(snapshot(t), meta)
	require.NoError(t, err)
	_, err = r.Package()
	assert.ErrorIs(t, err, run.ErrInvalidTransition)
	assert.Equal(t, run.StateArtifactsGenerated, r.State())
}

func TestRegenerateDiscardsManifest(t *testing.T) {
	ws := run.NewWorkspace(t.TempDir(), nil)
	r, err := ws.Start(settings())
	require.NoError(t, err)

	_, err = r.GenerateArtifacts(snapshot(t), meta)
	require.NoError(t, err)
	_, err = r.GenerateManifest()
	require.NoError(t, err)

	_, err = r.GenerateArtifacts(&inventory.Snapshot{}, meta)
	require.NoError(t, err)
	assert.Equal(t, run.StateArtifactsGenerated, r.State())
	assert.Nil(t, r.Manifest())
	assert.Len(t, r.Files(), 4)
	assert.NoFileExists(t, filepath.Join(r.Dir(), evidence.ManifestName))
}

func TestPackagedRunResetsToFreshDirectory(t *testing.T) {
	ws := run.NewWorkspace(t.TempDir(), nil)
	r, err := ws.Start(settings())
	require.NoError(t, err)
	_, err = r.GenerateArtifacts(snapshot(t), meta)
	require.NoError(t, err)
	_, err = r.GenerateManifest()
	require.NoError(t, err)
	_, err = r.Package()
	require.NoError(t, err)

	_, err = r.GenerateArtifacts(snapshot(t), meta)
	assert.ErrorIs(t, err, run.ErrInvalidTransition)

	firstDir, firstID := r.Dir(), r.ID()
	require.NoError(t, r.Reset())
	assert.Equal(t, run.StateEmpty, r.State())
	assert.NotEqual(t, firstDir, r.Dir())
	assert.NotEqual(t, firstID, r.ID())
	assert.Empty(t, r.Files())
	assert.Empty(t, r.Archive())
	assert.DirExists(t, firstDir)

	dirs, err := ws.List()
	require.NoError(t, err)
	assert.Len(t, dirs, 2)
}

func TestPackageFailsWhenArtifactRemoved(t *testing.T) {
	ws := run.NewWorkspace(t.TempDir(), nil)
	r, err := ws.Start(settings())
	require.NoError(t, err)
	paths, err := r.GenerateArtifacts(snapshot(t), meta)
	require.NoError(t, err)
	_, err = r.GenerateManifest()
	require.NoError(t, err)

	require.NoError(t, os.Remove(paths[0]))
	_, err = r.Package()
	require.Error(t, err)
	assert.Equal(t, run.StateManifestGenerated, r.State())
	assert.NoFileExists(t, filepath.Join(r.Dir(), "audit_package_ai_governance.zip"))
}
