package stage

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodePayload serializes a stage payload for persistence on the
// session's stage record.
func EncodePayload(payload any) (string, error) {
	if payload == nil {
		return "", nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode stage payload: %w", err)
	}
	return string(raw), nil
}

// DecodePayload parses a persisted stage payload into out. An empty
// payload leaves out untouched.
func DecodePayload(raw string, out any) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode stage payload: %w", err)
	}
	return nil
}
