package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelate(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"zones.cue": interpolationSpecs})

	tests := []struct {
		a, b string
		want string
	}{
		{"a", "b", "INCOMPARABLE"},
		{"a", "w", "EQUAL"},
		{"i", "a", "SUBSET"},
		{"a", "i", "SUPERSET"},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			out, err := execute(NewRelateCommand(&RootOptions{Format: "text"}), dir, tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.a+" "+tt.want+" "+tt.b+"\n", out)
		})
	}
}

func TestRelate_JSON(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"zones.cue": interpolationSpecs})

	out, err := execute(NewRelateCommand(&RootOptions{Format: "json"}), dir, "b", "i")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RelateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, RelateResult{A: "b", B: "i", Relation: "SUPERSET"}, resp.Data)
}

func TestRelate_WrongArgCount(t *testing.T) {
	_, err := execute(NewRelateCommand(&RootOptions{Format: "text"}), "dir", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 3 arg")
}
