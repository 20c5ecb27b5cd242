// Package support holds the shared state and step definitions for the CLI
// integration suite. Commands run in-process against the cobra command tree,
// so scenarios must reset flag and config state between runs.
package support

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/shelfscan/expiryocr/cmd/expiryocr/cmd"
)

// TestContext holds per-scenario state.
type TestContext struct {
	// TempDir receives scenario artifacts: generated images, config files,
	// batch output. Steps reference it as ${TMP} in commands and paths.
	TempDir string

	LastOutput string
	LastErr    error
}

// NewTestContext creates a scenario context with a fresh temp directory.
func NewTestContext() (*TestContext, error) {
	tempDir, err := os.MkdirTemp("", "expiryocr-test-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	return &TestContext{TempDir: tempDir}, nil
}

// Cleanup removes scenario artifacts and resets shared CLI state.
func (tc *TestContext) Cleanup() error {
	cmd.ResetConfig()
	return os.RemoveAll(tc.TempDir)
}

// Resolve expands the ${TMP} placeholder to the scenario temp directory.
func (tc *TestContext) Resolve(s string) string {
	return strings.ReplaceAll(s, "${TMP}", tc.TempDir)
}

// RunCLI executes one CLI invocation in-process, capturing combined output
// from the command writers and os.Stdout (batch statistics print there).
func (tc *TestContext) RunCLI(commandLine string) error {
	fields := strings.Fields(tc.Resolve(commandLine))
	if len(fields) == 0 {
		return fmt.Errorf("empty command")
	}
	if fields[0] == "expiryocr" {
		fields = fields[1:]
	}

	root := cmd.GetRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(fields)

	stdout, err := captureStdout(func() {
		tc.LastErr = root.Execute()
	})
	if err != nil {
		return err
	}
	tc.LastOutput = buf.String() + stdout

	resetFlags(root)
	cmd.ResetConfig()
	return nil
}

// captureStdout redirects os.Stdout around fn and returns what was written.
func captureStdout(fn func()) (string, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return "", fmt.Errorf("stdout pipe: %w", err)
	}
	old := os.Stdout
	os.Stdout = w

	done := make(chan string)
	go func() {
		var b bytes.Buffer
		_, _ = io.Copy(&b, r)
		done <- b.String()
	}()

	fn()

	os.Stdout = old
	_ = w.Close()
	out := <-done
	_ = r.Close()
	return out, nil
}

// resetFlags restores every changed flag in the command tree to its default,
// so one scenario's flags never leak into the next.
func resetFlags(c *cobra.Command) {
	resetFlagSet(c.Flags())
	resetFlagSet(c.PersistentFlags())
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func resetFlagSet(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		// Slice values append on repeated Set; Replace restores them.
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}
