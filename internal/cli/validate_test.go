package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/zonedbm/internal/compiler"
)

func TestValidateValidSpecs(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"zones.cue": interpolationSpecs})

	out, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All 4 zone(s) valid")
}

func TestValidateValidSpecsJSON(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"zones.cue": interpolationSpecs})

	out, err := execute(NewValidateCommand(&RootOptions{Format: "json"}), dir)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidateSplitAcrossFiles(t *testing.T) {
	dir := writeSpecs(t, map[string]string{
		"base.cue": `package zones

zone: a: {
	clocks: ["x"]
	init:   "zero"
}
`,
		"derived.cue": `package zones

zone: e: {
	combine: "enclosure"
	of: ["a", "a"]
}
`,
	})

	out, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All 2 zone(s) valid")
}

func TestValidateNonExistentDirectory(t *testing.T) {
	out, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	out, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
	assert.Contains(t, out, "no CUE files found")
}

func TestValidateNoZones(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"other.cue": "package zones\n\nname: \"nothing here\"\n"})

	_, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoZones)
}

func TestValidateCompileError(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"zones.cue": `package zones

zone: a: {
	clocks: ["x"]
	init:   "zero"
	colour: "red"
}
`})

	out, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeZoneSyntax)
	assert.Contains(t, out, "zone.a.colour: unknown field")
	assert.Contains(t, out, "zones.cue:6:")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"zones.cue": `package zones

zone: {
	a: {
		clocks: ["x"]
		init:   "zero"
	}
	p: {
		combine: "enclosure"
		of: ["p", "a"]
	}
	q: {
		combine: "intersection"
		of: ["a", "r"]
	}
}
`})

	out, err := execute(NewValidateCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "2 error(s)")

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 2)
	assert.Equal(t, compiler.ErrSelfReference, resp.Data.Errors[0].Code)
	assert.Equal(t, compiler.ErrUnknownOperand, resp.Data.Errors[1].Code)
	assert.Equal(t, compiler.ErrSelfReference, resp.Error.Code)
}

func TestValidateCycleText(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"zones.cue": `package zones

zone: {
	a: {
		clocks: ["x"]
		init:   "zero"
	}
	p: {
		combine: "enclosure"
		of: ["q", "a"]
	}
	q: {
		combine: "enclosure"
		of: ["p", "a"]
	}
}
`})

	out, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, compiler.ErrDependencyCycle)
	assert.Contains(t, out, "zone dependency cycle")
}
