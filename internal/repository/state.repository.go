package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// StateRepository persists the fingerprint of the last published payload
// between runs.
type StateRepository interface {
	// LastPayloadHash returns the stored fingerprint, or "" when no state
	// file exists or it cannot be parsed. A corrupt file is treated the
	// same as a missing one.
	LastPayloadHash() string
	SavePayloadHash(hash string) error
}

type stateFileRepositoryHandler struct {
	Path string
}

func NewStateFileRepository(path string) StateRepository {
	return stateFileRepositoryHandler{
		Path: path,
	}
}

type stateFile struct {
	LastPayloadHash string `json:"last_payload_hash"`
}

func (h stateFileRepositoryHandler) LastPayloadHash() string {
	contents, err := os.ReadFile(h.Path)
	if err != nil {
		return ""
	}

	state := stateFile{}
	if err := json.Unmarshal(contents, &state); err != nil {
		return ""
	}

	return state.LastPayloadHash
}

func (h stateFileRepositoryHandler) SavePayloadHash(hash string) error {
	if err := os.MkdirAll(filepath.Dir(h.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	contents, err := json.MarshalIndent(stateFile{LastPayloadHash: hash}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// the hash is not secret, but the cache dir is per-user state
	if err := os.WriteFile(h.Path, contents, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}
