package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateMissing_TiesKeepFirstSeenOrder(t *testing.T) {
	out := AggregateMissing([][]string{
		{"SQL"},
		{"SQL", "Python"},
		{"Python"},
	}, 0)

	require.Len(t, out, 2)
	assert.Equal(t, SkillFrequency{Skill: "SQL", Count: 2, Percentage: 67}, out[0])
	assert.Equal(t, SkillFrequency{Skill: "Python", Count: 2, Percentage: 67}, out[1])
}

func TestAggregateMissing_SortsByCountDesc(t *testing.T) {
	out := AggregateMissing([][]string{
		{"Docker"},
		{"Kubernetes", "Docker"},
		{"Kubernetes", "Go"},
		{"Kubernetes"},
	}, 0)

	require.Len(t, out, 3)
	assert.Equal(t, "Kubernetes", out[0].Skill)
	assert.Equal(t, 3, out[0].Count)
	assert.Equal(t, 75, out[0].Percentage)
	assert.Equal(t, "Docker", out[1].Skill)
	assert.Equal(t, 50, out[1].Percentage)
	assert.Equal(t, "Go", out[2].Skill)
	assert.Equal(t, 25, out[2].Percentage)
}

func TestAggregateMissing_EmptyInput(t *testing.T) {
	assert.Empty(t, AggregateMissing(nil, 10))
	assert.NotNil(t, AggregateMissing(nil, 10))
}

func TestAggregateMissing_NilListsCountInDenominator(t *testing.T) {
	out := AggregateMissing([][]string{{"Rust"}, nil, nil, nil}, 10)

	require.Len(t, out, 1)
	assert.Equal(t, 25, out[0].Percentage)
}

func TestAggregateMissing_DefaultLimitIsTen(t *testing.T) {
	var missing []string
	for i := 0; i < 15; i++ {
		missing = append(missing, fmt.Sprintf("skill-%02d", i))
	}

	out := AggregateMissing([][]string{missing}, 0)
	require.Len(t, out, DefaultRecommendationLimit)
	assert.Equal(t, "skill-00", out[0].Skill)
	assert.Equal(t, "skill-09", out[9].Skill)

	out = AggregateMissing([][]string{missing}, 3)
	assert.Len(t, out, 3)
}

func TestAggregateResults_UsesMissingFromScores(t *testing.T) {
	jobA := []SkillRequirement{{Name: "SQL", Weight: 5}, {Name: "Python", Weight: 5}}
	jobB := []SkillRequirement{{Name: "SQL", Weight: 1}}

	results := []Result{
		Score([]string{"python"}, jobA),
		Score([]string{"excel"}, jobB),
	}

	out := AggregateResults(results, 10)
	require.Len(t, out, 1)
	assert.Equal(t, SkillFrequency{Skill: "SQL", Count: 2, Percentage: 100}, out[0])
}
