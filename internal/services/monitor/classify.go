package monitor

import (
	"slices"

	"github.com/NordCoder/Upwatch/internal/domain/check"
	"github.com/NordCoder/Upwatch/internal/domain/run"
)

// Classify derives the new state from an outcome and reports whether the change
// against the persisted state warrants an alert. A check that was never probed
// before does not alert.
func Classify(c *check.Check, o run.Outcome) (check.State, bool) {
	state := check.StateDown
	if !o.Failed() && slices.Contains(c.SuccessCodes, o.ResponseCode) {
		state = check.StateUp
	}
	return state, c.LastChecked != nil && c.State != state
}
