// Package evidence turns exported artifacts into audit evidence: a SHA-256
// digest per file, a manifest listing them, a zip archive, and a verifier
// that re-hashes files against a manifest.
//
// The split mirrors the lifecycle of a run:
//
//	BuildManifest  hashes files, no writes
//	WriteManifest  writes evidence_manifest.json
//	Package        bundles files into a zip at the archive root
//	Verify         re-hashes and reports drift
package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"aigov/internal/model"
)

const (
	// ChunkSize is the read size used while hashing.
	ChunkSize = 4096

	// ManifestName is the file name of the written manifest.
	ManifestName = "evidence_manifest.json"
)

// ErrDigestMismatch is wrapped by Verify when a file no longer matches its
// manifest entry.
var ErrDigestMismatch = errors.New("digest mismatch")

// HashFile returns the hex SHA-256 of the file at path, read in ChunkSize
// blocks.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()
	sum, err := HashReader(f)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return sum, nil
}

// HashReader returns the hex SHA-256 of everything read from r.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, ChunkSize)
	for {
		n, err := r.Read(buf)
		h.Write(buf[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Options carries the manifest fields that are not derived from the files.
type Options struct {
	RunID       uuid.UUID
	GeneratedAt time.Time
	Submitter   string
	AppVersion  string
	InputsHash  *string
}

// BuildManifest hashes every path in order and assembles a manifest. A path
// named ManifestName is skipped so a manifest never lists itself. Two
// artifacts with the same base name are rejected since they would collide
// at the archive root.
func BuildManifest(paths []string, opts Options) (*model.EvidenceManifest, error) {
	if opts.RunID == uuid.Nil {
		opts.RunID = uuid.New()
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	m := &model.EvidenceManifest{
		RunID:       opts.RunID,
		GeneratedAt: opts.GeneratedAt.UTC(),
		TeamOrUser:  opts.Submitter,
		AppVersion:  opts.AppVersion,
		InputsHash:  opts.InputsHash,
		Artifacts:   make([]model.EvidenceArtifact, 0, len(paths)),
	}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		if name == ManifestName {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate artifact name %q", name)
		}
		seen[name] = true
		sum, err := HashFile(p)
		if err != nil {
			return nil, err
		}
		m.Artifacts = append(m.Artifacts, model.EvidenceArtifact{Name: name, Path: p, SHA256: sum})
	}
	out := OutputsHash(m.Artifacts)
	m.OutputsHash = &out
	return m, nil
}

// OutputsHash is the SHA-256 of "<name>  <sha256>\n" lines in artifact
// order, the layout of a sha256sum check file.
func OutputsHash(artifacts []model.EvidenceArtifact) string {
	var b strings.Builder
	for _, a := range artifacts {
		fmt.Fprintf(&b, "%s  %s\n", a.Name, a.SHA256)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// WriteManifest writes m as dir/evidence_manifest.json and returns its path.
// The file is overwritten entirely on each call.
func WriteManifest(m *model.EvidenceManifest, dir string) (string, error) {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ReadManifest parses a manifest file.
func ReadManifest(path string) (*model.EvidenceManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m model.EvidenceManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Check is the verification outcome for one artifact.
type Check struct {
	Name string
	Path string
	Want string
	Got  string
	Err  error
}

// OK reports whether the file was readable and its digest matched.
func (c Check) OK() bool {
	return c.Err == nil && c.Got == c.Want
}

// Verify re-hashes every artifact of m. Files are looked up as dir/<name>
// when dir is set, else at their recorded path. It returns one Check per
// artifact and an error wrapping ErrDigestMismatch when any artifact is
// missing or changed, or when the recorded outputs hash is inconsistent.
func Verify(m *model.EvidenceManifest, dir string) ([]Check, error) {
	checks := make([]Check, 0, len(m.Artifacts))
	var bad []string
	for _, a := range m.Artifacts {
		p := a.Path
		if dir != "" {
			p = filepath.Join(dir, a.Name)
		}
		c := Check{Name: a.Name, Path: p, Want: a.SHA256}
		c.Got, c.Err = HashFile(p)
		if !c.OK() {
			bad = append(bad, a.Name)
		}
		checks = append(checks, c)
	}
	if m.OutputsHash != nil && *m.OutputsHash != OutputsHash(m.Artifacts) {
		bad = append(bad, "outputs_hash")
	}
	if len(bad) > 0 {
		return checks, fmt.Errorf("%w: %s", ErrDigestMismatch, strings.Join(bad, ", "))
	}
	return checks, nil
}
