package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  run_mode: longpoll
database:
  host: localhost
  name: askbot
qa:
  threshold: 85
  seed_file: data/questions.yml
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Core.Telegram.Token)
	assert.Equal(t, "longpoll", cfg.Core.Telegram.RunMode)
	assert.Equal(t, "askbot", cfg.Database.Name)
	assert.Equal(t, 85, cfg.QA.Threshold)
	assert.Equal(t, "data/questions.yml", cfg.QA.SeedFile)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	path := writeConfig(t, `
telegram:
  run_mode: longpoll
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigRejectsBadThreshold(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
qa:
  threshold: 200
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}
