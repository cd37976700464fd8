package model

import (
	"time"

	"github.com/google/uuid"
)

// EvidenceArtifact is one exported file and the SHA-256 of its exact bytes
// at hashing time.
type EvidenceArtifact struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
}

// EvidenceManifest lists every artifact of a run with its digest. It is
// rebuilt wholesale each time artifacts are regenerated.
type EvidenceManifest struct {
	RunID       uuid.UUID          `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	TeamOrUser  string             `json:"team_or_user"`
	AppVersion  string             `json:"app_version"`
	InputsHash  *string            `json:"inputs_hash"`
	OutputsHash *string            `json:"outputs_hash"`
	Artifacts   []EvidenceArtifact `json:"artifacts"`
}
