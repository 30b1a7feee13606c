package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/tokenstats/internal/types"
)

var validConfigJSON = `{
    "token_address": "EoLW32eUjN9XibMLEb53CMzLtg9XxnHFU6fbpSukjups",
    "helius_api_key": "test-key",
    "max_holder_pages": 5,
    "request_timeout": 5000,
    "special_wallets": [
        {"address": "GPshF6WikktzrB9NVWSfLRR2Dpzy11AXX3DKPct4kSN", "role": "locked"}
    ]
}`

var invalidConfigJSON = `{
    "token_address": "not-a-key",
    "max_holder_pages": 0
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "Valid config",
			content: validConfigJSON,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "test-key", cfg.HeliusAPIKey)
				assert.Equal(t, 5, cfg.MaxHolderPages)
				assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
				assert.Equal(t, DefaultDecimals, cfg.Decimals)
				assert.Equal(t, float64(DefaultTotalSupply), cfg.TotalSupply)
				assert.Equal(t, map[string]types.WalletRole{
					"GPshF6WikktzrB9NVWSfLRR2Dpzy11AXX3DKPct4kSN": types.RoleLocked,
				}, cfg.Roles())
			},
		},
		{
			name:    "Invalid config",
			content: invalidConfigJSON,
			wantErr: true,
		},
		{
			name:    "Unknown wallet role",
			content: `{"special_wallets": [{"address": "GPshF6WikktzrB9NVWSfLRR2Dpzy11AXX3DKPct4kSN", "role": "team"}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultTokenAddress, cfg.TokenAddress)
	assert.Equal(t, DefaultHoldersPageSize, cfg.HoldersPageSize)
	assert.Len(t, cfg.SpecialWallets, 2)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("TOKENSTATS_HELIUS_API_KEY", "env-key")
	t.Setenv("TOKENSTATS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.HasHeliusKey())
	assert.Equal(t, "env-key", cfg.HeliusAPIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.NotContains(t, cfg.MaskedHeliusURL(), "env-key")
}

func TestMissingHeliusKeyIsNotFatal(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.False(t, cfg.HasHeliusKey())
}
