// Package steps provides step definitions for the ftgen Gherkin specs.
package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cucumber/godog"

	"github.com/chriserin/ftgen/cmd"
	"github.com/chriserin/ftgen/spec/support"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	testEnvKey    contextKey = "testEnv"
	lastResultKey contextKey = "lastResult"
)

// result is the outcome of the last command.
type result struct {
	Output string
	Err    error
}

func getTestEnv(ctx context.Context) *support.TestEnv {
	if env, ok := ctx.Value(testEnvKey).(*support.TestEnv); ok {
		return env
	}
	return nil
}

func getLastResult(ctx context.Context) *result {
	if r, ok := ctx.Value(lastResultKey).(*result); ok {
		return r
	}
	return nil
}

// InitializeSteps registers every step definition.
func InitializeSteps(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		env, err := support.NewTestEnv()
		if err != nil {
			return ctx, fmt.Errorf("failed to create test environment: %w", err)
		}
		return context.WithValue(ctx, testEnvKey, env), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if env := getTestEnv(ctx); env != nil {
			if cleanupErr := env.Cleanup(); cleanupErr != nil {
				fmt.Printf("Warning: cleanup failed: %v\n", cleanupErr)
			}
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an initialized project directory$`, anInitializedProjectDirectory)
	ctx.Step(`^a file "([^"]*)" with content:$`, aFileWithContent)

	// When steps
	ctx.Step(`^I run init$`, iRunInit)
	ctx.Step(`^I render "([^"]*)" in "([^"]*)"$`, iRenderIn)
	ctx.Step(`^I render section "([^"]*)" of "([^"]*)" in "([^"]*)"$`, iRenderSectionOfIn)
	ctx.Step(`^I export "([^"]*)" in "([^"]*)" to "([^"]*)"$`, iExportInTo)
	ctx.Step(`^I ask for the status$`, iAskForTheStatus)
	ctx.Step(`^I list the dialects$`, iListTheDialects)

	// Then steps
	ctx.Step(`^the command should succeed$`, theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, theCommandShouldFailWith)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^the output should not contain "([^"]*)"$`, theOutputShouldNotContain)
	ctx.Step(`^the output should be:$`, theOutputShouldBe)
	ctx.Step(`^the file "([^"]*)" should exist$`, theFileShouldExist)
	ctx.Step(`^the file "([^"]*)" should contain:$`, theFileShouldContain)
}

func record(ctx context.Context, run func(w *bytes.Buffer) error) context.Context {
	var buf bytes.Buffer
	err := run(&buf)
	return context.WithValue(ctx, lastResultKey, &result{Output: buf.String(), Err: err})
}

func anInitializedProjectDirectory(ctx context.Context) (context.Context, error) {
	ctx = iRunInit(ctx)
	return ctx, getLastResult(ctx).Err
}

func aFileWithContent(ctx context.Context, name string, content *godog.DocString) error {
	return getTestEnv(ctx).WriteFile(name, content.Content+"\n")
}

func iRunInit(ctx context.Context) context.Context {
	return record(ctx, func(w *bytes.Buffer) error { return cmd.RunInit(w) })
}

func iRenderIn(ctx context.Context, project, dialect string) context.Context {
	return record(ctx, func(w *bytes.Buffer) error { return cmd.RunRender(w, project, dialect, "", nil) })
}

func iRenderSectionOfIn(ctx context.Context, section, project, dialect string) context.Context {
	return record(ctx, func(w *bytes.Buffer) error { return cmd.RunRender(w, project, dialect, section, nil) })
}

func iExportInTo(ctx context.Context, project, dialects, output string) context.Context {
	var names []string
	for _, d := range strings.Split(dialects, ",") {
		names = append(names, strings.TrimSpace(d))
	}
	opts := cmd.ExportOptions{Dialects: names, OutputDir: output}
	return record(ctx, func(w *bytes.Buffer) error { return cmd.RunExport(w, project, opts) })
}

func iAskForTheStatus(ctx context.Context) context.Context {
	return record(ctx, func(w *bytes.Buffer) error { return cmd.RunStatus(w) })
}

func iListTheDialects(ctx context.Context) context.Context {
	return record(ctx, func(w *bytes.Buffer) error { return cmd.RunDialects(w) })
}

func theCommandShouldSucceed(ctx context.Context) error {
	r := getLastResult(ctx)
	if r == nil {
		return fmt.Errorf("no command was run")
	}
	if r.Err != nil {
		return fmt.Errorf("expected success, got: %v", r.Err)
	}
	return nil
}

func theCommandShouldFailWith(ctx context.Context, msg string) error {
	r := getLastResult(ctx)
	if r == nil {
		return fmt.Errorf("no command was run")
	}
	if r.Err == nil {
		return fmt.Errorf("expected an error containing %q, command succeeded", msg)
	}
	if !strings.Contains(r.Err.Error(), msg) {
		return fmt.Errorf("expected an error containing %q, got: %v", msg, r.Err)
	}
	return nil
}

func theOutputShouldContain(ctx context.Context, text string) error {
	if err := theCommandShouldSucceed(ctx); err != nil {
		return err
	}
	if out := getLastResult(ctx).Output; !strings.Contains(out, text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, out)
	}
	return nil
}

func theOutputShouldNotContain(ctx context.Context, text string) error {
	if err := theCommandShouldSucceed(ctx); err != nil {
		return err
	}
	if out := getLastResult(ctx).Output; strings.Contains(out, text) {
		return fmt.Errorf("expected output not to contain %q, got:\n%s", text, out)
	}
	return nil
}

func theOutputShouldBe(ctx context.Context, want *godog.DocString) error {
	if err := theCommandShouldSucceed(ctx); err != nil {
		return err
	}
	got := strings.TrimRight(getLastResult(ctx).Output, "\n")
	if got != want.Content {
		return fmt.Errorf("output mismatch\nwant:\n%s\ngot:\n%s", want.Content, got)
	}
	return nil
}

func theFileShouldExist(ctx context.Context, name string) error {
	if _, err := os.Stat(name); err != nil {
		return fmt.Errorf("expected %s to exist: %w", name, err)
	}
	return nil
}

func theFileShouldContain(ctx context.Context, name string, want *godog.DocString) error {
	got, err := getTestEnv(ctx).ReadFile(name)
	if err != nil {
		return err
	}
	if !strings.Contains(got, want.Content) {
		return fmt.Errorf("expected %s to contain:\n%s\ngot:\n%s", name, want.Content, got)
	}
	return nil
}
