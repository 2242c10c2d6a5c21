package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Valid(t *testing.T) {
	p := writeFile(t, t.TempDir(), "smoke.yaml", "checks:\n  - type: tautology\n")

	cmd := newValidateCommand()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetArgs([]string{p})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, output.String(), "is valid")
}

func TestValidateCommand_Invalid(t *testing.T) {
	p := writeFile(t, t.TempDir(), "smoke.yaml", "checks:\n  - type: http\n")

	cmd := newValidateCommand()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetArgs([]string{p})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema error(s)")
	assert.Contains(t, output.String(), "/checks/0/type")
	assert.Equal(t, ExitError, exitCode(err))
}

func TestValidateCommand_RequiresArg(t *testing.T) {
	cmd := newValidateCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(nil)

	require.Error(t, cmd.Execute())
}
