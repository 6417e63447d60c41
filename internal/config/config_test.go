package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing token is fatal", func(t *testing.T) {
		t.Setenv("GH_TOKEN", "")
		t.Setenv("TARGET_REPOS", "a/one")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("parses repo list and defaults", func(t *testing.T) {
		t.Setenv("GH_TOKEN", "test-token")
		t.Setenv("TARGET_REPOS", "a/one, https://github.com/b/two ,,")
		t.Setenv("STATS_DIR", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "test-token", cfg.Token)
		assert.Equal(t, []string{"a/one", "https://github.com/b/two"}, cfg.Repos)
		assert.Equal(t, "stats", cfg.OutputDir)
	})

	t.Run("STATS_DIR overrides output directory", func(t *testing.T) {
		t.Setenv("GH_TOKEN", "test-token")
		t.Setenv("TARGET_REPOS", "")
		t.Setenv("STATS_DIR", "data/metrics")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Empty(t, cfg.Repos)
		assert.Equal(t, "data/metrics", cfg.OutputDir)
	})
}
