package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// interpolationSpecs declares two disjoint zones over x and the zones
// derived from them.
const interpolationSpecs = `package zones

zone: {
	w: {
		combine: "interpolant"
		of: ["a", "b"]
	}
	a: {
		clocks: ["x"]
		init:   "top"
		steps: ["and x <= 2"]
	}
	b: {
		clocks: ["x"]
		init:   "top"
		steps: ["and x >= 5"]
	}
	i: {
		combine: "intersection"
		of: ["a", "b"]
	}
}
`

// writeSpecs writes files (name to content) into a fresh directory.
func writeSpecs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// execute runs cmd with args and returns stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
