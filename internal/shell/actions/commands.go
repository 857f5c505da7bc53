package actions

import (
	"io"
	"os"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// =============================================================================
// Runner Action
// =============================================================================

// outputFileEnv names the file the runner collects step outputs from.
const outputFileEnv = "GITHUB_OUTPUT"

// NewAction returns a runner action that writes workflow commands to w.
//
// outputPath replaces GITHUB_OUTPUT for step outputs, so the configured path
// is the only one ever written. An empty outputPath selects ::set-output on w.
// Every other variable is read from the process environment.
func NewAction(w io.Writer, outputPath string) *githubactions.Action {
	getenv := func(key string) string {
		if key == outputFileEnv {
			return outputPath
		}
		return os.Getenv(key)
	}
	return githubactions.New(
		githubactions.WithWriter(w),
		githubactions.WithGetenv(getenv),
	)
}

// Mask asks the runner to hide value in all later log output. Each line of a
// multi-line value is masked separately; blank lines are skipped.
func Mask(action *githubactions.Action, value string) {
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		action.AddMask(line)
	}
}
