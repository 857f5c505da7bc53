// Package actions talks to the CI runner: workflow commands on stdout, step
// outputs in the GITHUB_OUTPUT file, secret masking, and dotenv files from the
// workspace.
package actions
