package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchExactQuestion(t *testing.T) {
	candidates := []string{"what is your name", "how old are you"}

	res, ok := Match("what is your name", candidates, DefaultThreshold)
	require.True(t, ok)
	assert.Equal(t, "what is your name", res.Question)
	assert.Equal(t, 100, res.Score)
}

func TestMatchCloseVariant(t *testing.T) {
	candidates := []string{"what is your name", "how old are you"}

	res, ok := Match("what's ur name", candidates, DefaultThreshold)
	require.True(t, ok)
	assert.Equal(t, "what is your name", res.Question)
	assert.GreaterOrEqual(t, res.Score, DefaultThreshold)
}

func TestMatchBelowThreshold(t *testing.T) {
	candidates := []string{"what is your name"}

	_, ok := Match("tell me a joke about quantum physics", candidates, DefaultThreshold)
	assert.False(t, ok)
}

func TestMatchEmptyCandidates(t *testing.T) {
	_, ok := Match("anything", nil, DefaultThreshold)
	assert.False(t, ok)
}

func TestMatchFirstWinsOnTie(t *testing.T) {
	candidates := []string{"hello there", "hello there"}

	res, ok := Match("hello there", candidates, DefaultThreshold)
	require.True(t, ok)
	assert.Equal(t, "hello there", res.Question)
	assert.Equal(t, 100, res.Score)
}

func TestMatchZeroThresholdStillNeedsCandidates(t *testing.T) {
	_, ok := Match("anything", []string{}, 0)
	assert.False(t, ok)
}
