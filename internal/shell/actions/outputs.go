package actions

import (
	"sort"

	"github.com/sethvargo/go-githubactions"
)

// =============================================================================
// Step Outputs
// =============================================================================

// Outputs publishes step outputs through a runner action.
//
// Entries are appended to the action's output file in heredoc form. When no
// output file is available the action falls back to legacy ::set-output
// commands on its writer.
type Outputs struct {
	action *githubactions.Action
}

// NewOutputs creates an Outputs writing through action.
func NewOutputs(action *githubactions.Action) *Outputs {
	return &Outputs{action: action}
}

// Set writes every non-empty entry of values, sorted by key.
func (o *Outputs) Set(values map[string]string) {
	keys := make([]string, 0, len(values))
	for k, v := range values {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		o.action.SetOutput(k, values[k])
	}
}
