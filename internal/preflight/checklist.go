// Package preflight tracks the pre-export checklist and runs the layout
// checks that do not need image pixels.
package preflight

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownCheck = errors.New("unknown preflight check")

type CheckKind string

const (
	KindAutomated CheckKind = "automated"
	KindManual    CheckKind = "manual"
)

type Check struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Complete    bool      `json:"complete"`
	Required    bool      `json:"required"`
	Kind        CheckKind `json:"kind"`
}

// DefaultChecks returns a fresh, all-incomplete checklist.
func DefaultChecks() []Check {
	return []Check{
		{ID: "dpi_check", Title: "Image Resolution Check", Description: "Analyze images for print quality", Required: true, Kind: KindAutomated},
		{ID: "bleed_setup", Title: "Bleed & Trim Setup", Description: "Verify bleed extends past cut lines", Required: true, Kind: KindManual},
		{ID: "safe_zone", Title: "Safe Zone Check", Description: "Keep important content away from edges", Required: true, Kind: KindManual},
		{ID: "color_check", Title: "Color Mode Review", Description: "Ensure colors are print-ready", Required: false, Kind: KindManual},
	}
}

// Checklist is a value type; mutating methods return a new list and leave
// the receiver untouched.
type Checklist struct {
	Checks []Check `json:"checks"`
}

func NewChecklist() Checklist { return Checklist{Checks: DefaultChecks()} }

func (c Checklist) index(id string) (int, error) {
	for i, ch := range c.Checks {
		if ch.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownCheck, id)
}

func (c Checklist) clone() Checklist {
	out := make([]Check, len(c.Checks))
	copy(out, c.Checks)
	return Checklist{Checks: out}
}

// Toggle flips the completion state of check id.
func (c Checklist) Toggle(id string) (Checklist, error) {
	i, err := c.index(id)
	if err != nil {
		return c, err
	}
	out := c.clone()
	out.Checks[i].Complete = !out.Checks[i].Complete
	return out, nil
}

// Complete marks check id done. Completing a done check is a no-op.
func (c Checklist) Complete(id string) (Checklist, error) {
	i, err := c.index(id)
	if err != nil {
		return c, err
	}
	out := c.clone()
	out.Checks[i].Complete = true
	return out, nil
}

// Reset clears every check.
func (c Checklist) Reset() Checklist {
	out := c.clone()
	for i := range out.Checks {
		out.Checks[i].Complete = false
	}
	return out
}

// Progress is the rounded percentage of required checks completed.
// A list with no required checks is 100.
func (c Checklist) Progress() int {
	var required, done int
	for _, ch := range c.Checks {
		if !ch.Required {
			continue
		}
		required++
		if ch.Complete {
			done++
		}
	}
	if required == 0 {
		return 100
	}
	return int(math.Round(float64(done) / float64(required) * 100))
}

// ReadyForExport is true once every required check is complete.
func (c Checklist) ReadyForExport() bool {
	for _, ch := range c.Checks {
		if ch.Required && !ch.Complete {
			return false
		}
	}
	return true
}
