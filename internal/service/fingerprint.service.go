package service

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"trmnlhealth/internal/domain"
)

// FingerprintService computes the content hash used to detect no-op runs.
type FingerprintService interface {
	Fingerprint(payload *domain.Payload) (string, error)
}

type fingerprintServiceHandler struct{}

func NewFingerprintService() FingerprintService {
	return fingerprintServiceHandler{}
}

// Fingerprint hashes the canonical serialization of the payload.
// Serializing through a generic map forces recursive key sorting
// (encoding/json writes map keys in sorted order), so struct field order
// and any map insertion order never change the digest.
func (fingerprintServiceHandler) Fingerprint(payload *domain.Payload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	generic := map[string]interface{}{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("failed to canonicalize payload: %w", err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("failed to serialize canonical payload: %w", err)
	}

	digest := sha1.Sum(canonical)
	return hex.EncodeToString(digest[:]), nil
}
