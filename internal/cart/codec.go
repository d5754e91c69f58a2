package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorruptState marks persisted cart data that cannot be decoded.
var ErrCorruptState = errors.New("corrupt cart state")

// State is the persisted form of a cart: its ordered lines.
type State struct {
	Lines []Line
}

// Len reports the number of lines.
func (s State) Len() int {
	return len(s.Lines)
}

// EncodeState serializes s as a JSON array of lines.
func EncodeState(s State) ([]byte, error) {
	lines := s.Lines
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encode cart state: %w", err)
	}
	return raw, nil
}

// DecodeState parses a JSON array of lines. Any malformed line makes the
// whole payload corrupt; the returned error wraps ErrCorruptState.
func DecodeState(raw []byte) (State, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return State{}, nil
	}
	var lines []Line
	if err := json.Unmarshal(trimmed, &lines); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	seen := make(map[lineKey]struct{}, len(lines))
	for _, l := range lines {
		k := l.Item.key()
		if _, dup := seen[k]; dup {
			return State{}, fmt.Errorf("%w: duplicate %s line %q", ErrCorruptState, k.kind, k.id)
		}
		seen[k] = struct{}{}
	}
	return State{Lines: lines}, nil
}
