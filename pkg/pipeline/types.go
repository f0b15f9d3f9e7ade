package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/tendant/sticker-resize-fix/pkg/media"
)

// Outcome is the per-identifier result of a correction pass
type Outcome string

// Outcome constants
const (
	OutcomeResized   Outcome = "resized"   // original exceeded the bounds and was downscaled
	OutcomeReplaced  Outcome = "replaced"  // original fit the bounds and replaced the resized variant
	OutcomeNotFound  Outcome = "not_found" // original object missing from the bucket
	OutcomeFailed    Outcome = "failed"    // decode, encode or upload failure
	OutcomeUnhandled Outcome = "unhandled" // dimensions matched no correction rule
)

// Outcomes lists every outcome in report order
var Outcomes = []Outcome{OutcomeResized, OutcomeReplaced, OutcomeNotFound, OutcomeFailed, OutcomeUnhandled}

// Counters accumulates per-library outcome counts
type Counters struct {
	Resized   int `json:"resized"`
	Replaced  int `json:"replaced"`
	NotFound  int `json:"not_found"`
	Failed    int `json:"failed"`
	Unhandled int `json:"unhandled"`
}

// Add increments the counter for outcome
func (c *Counters) Add(outcome Outcome) {
	switch outcome {
	case OutcomeResized:
		c.Resized++
	case OutcomeReplaced:
		c.Replaced++
	case OutcomeNotFound:
		c.NotFound++
	case OutcomeFailed:
		c.Failed++
	case OutcomeUnhandled:
		c.Unhandled++
	}
}

// Get returns the counter for outcome
func (c Counters) Get(outcome Outcome) int {
	switch outcome {
	case OutcomeResized:
		return c.Resized
	case OutcomeReplaced:
		return c.Replaced
	case OutcomeNotFound:
		return c.NotFound
	case OutcomeFailed:
		return c.Failed
	case OutcomeUnhandled:
		return c.Unhandled
	}
	return 0
}

// Total returns the number of identifiers visited
func (c Counters) Total() int {
	return c.Resized + c.Replaced + c.NotFound + c.Failed + c.Unhandled
}

// LibraryReport holds the result of correcting one library
type LibraryReport struct {
	Library    media.Library `json:"library"`
	Candidates int           `json:"candidates"`
	Counters   Counters      `json:"counters"`
	Error      string        `json:"error,omitempty"`
}

// Summary is the result of one correction pass over every library
type Summary struct {
	RunID      string          `json:"run_id"`
	DryRun     bool            `json:"dry_run"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Libraries  []LibraryReport `json:"libraries"`
}

// Library returns the report for l, or a zero report if l was not visited
func (s *Summary) Library(l media.Library) LibraryReport {
	for _, r := range s.Libraries {
		if r.Library == l {
			return r
		}
	}
	return LibraryReport{Library: l}
}

// String renders the summary as the plain-text trigger response
func (s *Summary) String() string {
	var b strings.Builder
	if s.DryRun {
		b.WriteString("[dry run] ")
	}
	for i, r := range s.Libraries {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %d resized, %d replaced with original",
			r.Library, r.Counters.Resized, r.Counters.Replaced)
		if extra := r.Counters.NotFound + r.Counters.Failed + r.Counters.Unhandled; extra > 0 {
			fmt.Fprintf(&b, " (%d not found, %d failed, %d unhandled)",
				r.Counters.NotFound, r.Counters.Failed, r.Counters.Unhandled)
		}
		if r.Error != "" {
			fmt.Fprintf(&b, " [error: %s]", r.Error)
		}
	}
	return b.String()
}

// RunResponse is the JSON body returned by the HTTP trigger
type RunResponse struct {
	Summary *Summary `json:"summary"`
	Text    string   `json:"text"`
}
