package storage

import (
	"encoding/json"

	"matingcore/internal/diagnostics"
)

// EncodeRun and DecodeRun are the sqlite backend's wire format for a
// RunSummary row; JSON, matching the teacher's codec.go choice of
// encoding/json over a binary format for every persisted record type.
func EncodeRun(run diagnostics.RunSummary) ([]byte, error) {
	return json.Marshal(run)
}

func DecodeRun(data []byte) (diagnostics.RunSummary, error) {
	var run diagnostics.RunSummary
	if err := json.Unmarshal(data, &run); err != nil {
		return diagnostics.RunSummary{}, err
	}
	return run, nil
}
