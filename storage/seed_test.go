package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeed(t *testing.T) {
	data := []byte(`
- question: "What is your name"
  response: "I am askbot."
- question: "show me a dog"
  response: "Here you go!"
  image: "https://example.com/dog.jpg"
`)
	entries, err := ParseSeed(data)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "what is your name", entries[0].Question)
	assert.Equal(t, "I am askbot.", entries[0].Response)
	assert.Empty(t, entries[0].Image)

	assert.Equal(t, "show me a dog", entries[1].Question)
	assert.Equal(t, "https://example.com/dog.jpg", entries[1].Image)
}

func TestParseSeedRejectsEmptyQuestion(t *testing.T) {
	data := []byte(`
- question: "   "
  response: "orphaned answer"
`)
	_, err := ParseSeed(data)
	require.Error(t, err)
}

func TestParseSeedRejectsMissingResponse(t *testing.T) {
	data := []byte(`
- question: "what is your name"
`)
	_, err := ParseSeed(data)
	require.Error(t, err)
}

func TestParseSeedInvalidYAML(t *testing.T) {
	_, err := ParseSeed([]byte("question: [unclosed"))
	require.Error(t, err)
}
