package domain

import "time"

// BuildInfo records the last successful build of a module.
type BuildInfo struct {
	Module      string    `json:"module,omitzero"`
	Artifact    string    `json:"artifact,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	RunID       string    `json:"run_id,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}
