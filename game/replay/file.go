package replay

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type (
	// File is the exported replay document.
	File struct {
		Kind       string `json:"kind"`
		V          int    `json:"v"`
		ExportedAt int64  `json:"exportedAt"`
		Replay     Replay `json:"replay"`
		// AnalysisByStepIndex caches analyzer output keyed by decimal step index.
		AnalysisByStepIndex map[string]AnalysisResult `json:"analysisByStepIndex,omitempty"`
		Meta                Meta                      `json:"meta"`
	}

	// Meta describes where the replay came from.
	Meta struct {
		Source       string `json:"source"`
		SourceRoomID string `json:"sourceRoomId,omitempty"`
		SourceStatus string `json:"sourceStatus,omitempty"`
		App          string `json:"app,omitempty"`
	}
)

const (
	fileKind    = "anagram-thief-replay"
	fileVersion = 1
)

// NewFile wraps a replay for export.
func NewFile(r Replay, exportedAt int64, meta Meta) File {
	return File{
		Kind:       fileKind,
		V:          fileVersion,
		ExportedAt: exportedAt,
		Replay:     r,
		Meta:       meta,
	}
}

// Marshal serializes the file as JSON.
func (f File) Marshal() ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshalling replay file: %w", err)
	}
	return b, nil
}

// ParseFile deserializes and validates an imported replay file.
func ParseFile(b []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("unmarshalling replay file: %w", err)
	}
	if f.Kind != fileKind {
		return nil, fmt.Errorf("unknown replay file kind: %q", f.Kind)
	}
	if f.V != fileVersion {
		return nil, fmt.Errorf("unsupported replay file version: %v", f.V)
	}
	if len(f.Replay.Steps) == 0 {
		return nil, fmt.Errorf("replay has no steps")
	}
	for i, step := range f.Replay.Steps {
		if step.Index != i {
			return nil, fmt.Errorf("step %v has index %v, want indices sequential from 0", i, step.Index)
		}
		if step.Kind == "" {
			return nil, fmt.Errorf("step %v has no kind", i)
		}
		if err := validateSnapshot(step.State); err != nil {
			return nil, fmt.Errorf("step %v: %w", i, err)
		}
	}
	for key := range f.AnalysisByStepIndex {
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= len(f.Replay.Steps) {
			return nil, fmt.Errorf("analysis key %q does not reference a step", key)
		}
	}
	return &f, nil
}

func validateSnapshot(s Snapshot) error {
	switch {
	case s.Status == "":
		return fmt.Errorf("snapshot has no status")
	case s.BagCount < 0:
		return fmt.Errorf("snapshot has negative bag count")
	case s.Players == nil:
		return fmt.Errorf("snapshot has no players")
	}
	seen := make(map[string]struct{}, len(s.Players))
	for _, p := range s.Players {
		if p.ID == "" {
			return fmt.Errorf("snapshot player has no id")
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("snapshot has duplicate player id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
