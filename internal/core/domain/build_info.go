package domain

import "time"

// BuildInfo is the cached record of the last successful action producing a
// target in a given context.
type BuildInfo struct {
	Context    string    `json:"context,omitzero"`
	Target     string    `json:"target,omitzero"`
	InputHash  string    `json:"input_hash,omitzero"`
	OutputHash string    `json:"output_hash,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}
