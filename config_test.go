package sitesnap_test

import (
	"testing"

	"github.com/jkowalik/sitesnap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_is_valid(t *testing.T) {
	t.Parallel()

	cfg := sitesnap.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.RespectRobots)
	assert.True(t, cfg.TypeAllowed("text/html"))
	assert.False(t, cfg.TypeAllowed("application/pdf"))
}

func TestConfig_Validate_rejects_bad_values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*sitesnap.Config)
	}{
		{"zero max pages", func(c *sitesnap.Config) { c.MaxPages = 0 }},
		{"zero concurrency", func(c *sitesnap.Config) { c.Concurrency = 0 }},
		{"zero timeout", func(c *sitesnap.Config) { c.Timeout = 0 }},
		{"zero max bytes", func(c *sitesnap.Config) { c.MaxBytes = 0 }},
		{"no allowed types", func(c *sitesnap.Config) { c.AllowedTypes = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := sitesnap.DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, sitesnap.EINVALID, sitesnap.ErrorCode(err))
		})
	}
}

func TestConfig_Excluded_default_pattern(t *testing.T) {
	t.Parallel()

	cfg := sitesnap.DefaultConfig()

	assert.True(t, cfg.Excluded("https://example.com/admin/settings"))
	assert.True(t, cfg.Excluded("https://example.com/login"))
	assert.True(t, cfg.Excluded("https://example.com/search?q=x"))
	assert.True(t, cfg.Excluded("https://example.com/tag/news"))
	assert.False(t, cfg.Excluded("https://example.com/blog/post-1"))

	cfg.Exclude = nil
	assert.False(t, cfg.Excluded("https://example.com/admin/settings"))
}
