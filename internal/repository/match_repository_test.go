package repository

import (
	"encoding/json"
	"testing"

	"talent-match/internal/domain/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFromBreakdown(t *testing.T) {
	stored, err := json.Marshal(matching.Result{
		Score:   40,
		Matched: []string{"Python"},
		Missing: []string{"SQL", "Tableau"},
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		breakdown []byte
		want      []string
	}{
		{name: "stored result", breakdown: stored, want: []string{"SQL", "Tableau"}},
		{name: "no missing field", breakdown: []byte(`{"score":100,"matched":["Go"]}`)},
		{name: "empty missing", breakdown: []byte(`{"missing":[]}`)},
		{name: "null missing", breakdown: []byte(`{"missing":null}`)},
		{name: "empty breakdown", breakdown: nil},
		{name: "malformed json", breakdown: []byte(`{"missing":`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := missingFromBreakdown(tt.breakdown)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
