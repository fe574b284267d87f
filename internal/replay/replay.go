// Package replay re-runs a recorded action log through the game reducer.
// A log is JSON lines, one action per line in the wire format accepted by
// domain.DecodeAction. Blank lines and lines starting with # are skipped.
package replay

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"codeamongus/internal/domain"
)

// maxLineSize bounds a single log line; JOIN_GAME lines carry a full player
const maxLineSize = 1 << 20

// Step is one applied action and the state it produced
type Step struct {
	Line   int
	Action domain.Action
	Before domain.GameState
	After  domain.GameState
}

// Run applies every action in r to initial in order, calling fn after each
// one, and returns the final state. Decoding stops at the first bad line.
func Run(r io.Reader, initial domain.GameState, fn func(Step)) (domain.GameState, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	state := initial
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}

		action, err := domain.DecodeAction(raw)
		if err != nil {
			return state, fmt.Errorf("line %d: %w", line, err)
		}

		next := domain.Reduce(state, action)
		if fn != nil {
			fn(Step{Line: line, Action: action, Before: state, After: next})
		}
		state = next
	}
	if err := scanner.Err(); err != nil {
		return state, fmt.Errorf("read log: %w", err)
	}
	return state, nil
}
