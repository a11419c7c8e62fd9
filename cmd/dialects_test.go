package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialects_ListsSectionsWithPaths(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunDialects(&buf))
	out := buf.String()

	assert.Contains(t, out, "gherkin  Gherkin feature files.\n")
	assert.Contains(t, out, "robotframework  Robot Framework test suites, one test case per dataset.\n")
	assert.NotContains(t, out, "common")

	var godog []string
	inGodog := false
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, " ") {
			inGodog = strings.HasPrefix(line, "godog")
			continue
		}
		if inGodog {
			godog = append(godog, strings.Fields(line)[0])
		}
	}
	assert.Equal(t, []string{"features", "step_definitions", "actionwords", "folders"}, godog)
	assert.Contains(t, out, "steps_test.go\n")
}
