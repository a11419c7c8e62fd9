// Package support provides the isolated environment of the ftgen specs.
package support

import (
	"os"
	"path/filepath"
)

// TestEnv holds the test environment state for a scenario.
type TestEnv struct {
	// TempDir is the working directory of the scenario
	TempDir     string
	OriginalDir string
	// OriginalEnv stores overridden environment variables to restore
	OriginalEnv map[string]string
}

// NewTestEnv creates a temporary directory and changes into it. HOME points
// inside it so no user configuration leaks in.
func NewTestEnv() (*TestEnv, error) {
	originalDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "ftgen-spec-*")
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(tempDir); err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}

	env := &TestEnv{
		TempDir:     tempDir,
		OriginalDir: originalDir,
		OriginalEnv: make(map[string]string),
	}
	env.SetEnv("HOME", filepath.Join(tempDir, "home"))
	return env, nil
}

// Cleanup removes the temporary directory and restores the original state.
func (e *TestEnv) Cleanup() error {
	if err := os.Chdir(e.OriginalDir); err != nil {
		return err
	}
	for key, value := range e.OriginalEnv {
		if value == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, value)
		}
	}
	return os.RemoveAll(e.TempDir)
}

// SetEnv sets an environment variable and stores the original value for restoration.
func (e *TestEnv) SetEnv(key, value string) {
	if _, exists := e.OriginalEnv[key]; !exists {
		e.OriginalEnv[key] = os.Getenv(key)
	}
	os.Setenv(key, value)
}

// WriteFile writes content to a path relative to TempDir, creating parents.
func (e *TestEnv) WriteFile(name, content string) error {
	path := filepath.Join(e.TempDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// ReadFile reads a path relative to TempDir.
func (e *TestEnv) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(e.TempDir, name))
	return string(data), err
}
