// Package transcript accumulates speech-recognition fragments into the
// canonical answer text.
package transcript

import (
	"strings"
	"sync"

	"github.com/voiceprep/interview-service/internal/models"
)

// Accumulator keeps the ordered fragment history for one recording. The
// accumulated answer is always recomputed from the full history rather than
// mutated incrementally, so replaced or late-arriving fragments cannot make
// the stored text diverge from the source of truth.
//
// Fragment delivery is push-driven and asynchronous; all methods are safe
// for concurrent use. Fragments pushed after Stop are dropped; the stop
// boundary is final.
type Accumulator struct {
	mu        sync.Mutex
	fragments []models.Fragment
	stopped   bool
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Push appends a fragment to the history. It reports whether the fragment
// was accepted; fragments arriving after Stop are ignored.
func (a *Accumulator) Push(f models.Fragment) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return false
	}
	a.fragments = append(a.fragments, f)
	return true
}

// Stop marks the capture boundary. Fragments pushed afterwards are dropped.
func (a *Accumulator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
}

// Answer returns the accumulated answer: the space-joined concatenation of
// all final fragments in arrival order. Interim fragments never contribute.
func (a *Accumulator) Answer() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.joinFinals()
}

// Display returns the text shown to the user while recording: the answer so
// far plus the latest interim fragment, if one followed the last final.
func (a *Accumulator) Display() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	joined := a.joinFinals()
	for i := len(a.fragments) - 1; i >= 0; i-- {
		if a.fragments[i].IsFinal {
			break
		}
		if text := strings.TrimSpace(a.fragments[i].Text); text != "" {
			if joined == "" {
				return text
			}
			return joined + " " + text
		}
	}
	return joined
}

func (a *Accumulator) joinFinals() string {
	var finals []string
	for _, f := range a.fragments {
		if !f.IsFinal {
			continue
		}
		if text := strings.TrimSpace(f.Text); text != "" {
			finals = append(finals, text)
		}
	}
	return strings.Join(finals, " ")
}
