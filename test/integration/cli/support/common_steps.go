package support

import (
	"fmt"
	"os"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterCommonSteps wires command execution and output assertions.
func (tc *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, tc.iRun)
	sc.Step(`^the command succeeds$`, tc.commandSucceeds)
	sc.Step(`^the command fails$`, tc.commandFails)
	sc.Step(`^the output contains "([^"]*)"$`, tc.outputContains)
	sc.Step(`^the output does not contain "([^"]*)"$`, tc.outputDoesNotContain)
	sc.Step(`^the file "([^"]*)" exists$`, tc.fileExists)
	sc.Step(`^the file "([^"]*)" contains "([^"]*)"$`, tc.fileContains)
}

func (tc *TestContext) iRun(commandLine string) error {
	return tc.RunCLI(commandLine)
}

func (tc *TestContext) commandSucceeds() error {
	if tc.LastErr != nil {
		return fmt.Errorf("expected success, got error: %v\noutput:\n%s", tc.LastErr, tc.LastOutput)
	}
	return nil
}

func (tc *TestContext) commandFails() error {
	if tc.LastErr == nil {
		return fmt.Errorf("expected failure, command succeeded\noutput:\n%s", tc.LastOutput)
	}
	return nil
}

func (tc *TestContext) outputContains(expected string) error {
	expected = tc.Resolve(expected)
	if !strings.Contains(tc.LastOutput, expected) {
		return fmt.Errorf("output does not contain %q:\n%s", expected, tc.LastOutput)
	}
	return nil
}

func (tc *TestContext) outputDoesNotContain(unexpected string) error {
	unexpected = tc.Resolve(unexpected)
	if strings.Contains(tc.LastOutput, unexpected) {
		return fmt.Errorf("output unexpectedly contains %q:\n%s", unexpected, tc.LastOutput)
	}
	return nil
}

func (tc *TestContext) fileExists(path string) error {
	if _, err := os.Stat(tc.Resolve(path)); err != nil {
		return fmt.Errorf("expected file %s: %w", path, err)
	}
	return nil
}

func (tc *TestContext) fileContains(path, expected string) error {
	data, err := os.ReadFile(tc.Resolve(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if !strings.Contains(string(data), tc.Resolve(expected)) {
		return fmt.Errorf("file %s does not contain %q:\n%s", path, expected, string(data))
	}
	return nil
}
