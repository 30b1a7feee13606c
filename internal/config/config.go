// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"

	"github.com/rovshanmuradov/tokenstats/internal/types"
)

// SpecialWallet is an allow-listed address with a display role.
type SpecialWallet struct {
	Address string `mapstructure:"address"`
	Role    string `mapstructure:"role"`
}

// Config holds application settings loaded from config.json (or yaml) and
// TOKENSTATS_* environment variables.
type Config struct {
	TokenAddress string  `mapstructure:"token_address"`
	PoolAddress  string  `mapstructure:"pool_address"`
	TokenName    string  `mapstructure:"token_name"`
	TokenSymbol  string  `mapstructure:"token_symbol"`
	Decimals     int     `mapstructure:"decimals"`
	TotalSupply  float64 `mapstructure:"total_supply"`
	Network      string  `mapstructure:"network"`

	HeliusAPIKey    string `mapstructure:"helius_api_key"`
	HeliusURL       string `mapstructure:"helius_url"`
	JupiterPriceURL string `mapstructure:"jupiter_price_url"`
	JupiterTokenURL string `mapstructure:"jupiter_token_url"`
	CoinGeckoURL    string `mapstructure:"coingecko_url"`
	GeckoTerminal   string `mapstructure:"geckoterminal_url"`

	MaxHolderPages   int           `mapstructure:"max_holder_pages"`
	HoldersPageSize  int           `mapstructure:"holders_page_size"`
	RequestTimeout   time.Duration `mapstructure:"-"`
	RequestTimeoutMS int           `mapstructure:"request_timeout"`
	Retries          int           `mapstructure:"retries"`
	CacheTTL         time.Duration `mapstructure:"-"`
	CacheTTLMS       int           `mapstructure:"cache_ttl"`

	ListenAddr     string          `mapstructure:"listen_addr"`
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	SpecialWallets []SpecialWallet `mapstructure:"special_wallets"`
	OfflineSample  bool            `mapstructure:"offline_sample"`

	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`
}

const (
	DefaultTokenAddress    = "EoLW32eUjN9XibMLEb53CMzLtg9XxnHFU6fbpSukjups"
	DefaultPoolAddress     = "BU3u3cZgywn4B8KWBdpdBoQQzdP4tugjtc9a6Ga2tYbe"
	DefaultDecimals        = 6
	DefaultTotalSupply     = 1_000_000_000
	DefaultMaxHolderPages  = 10
	DefaultHoldersPageSize = 50
	DefaultRequestTimeout  = 12000
	DefaultRetries         = 2
	DefaultCacheTTL        = 30000
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "TOKENSTATS"

// LoadConfig reads configuration from path and applies environment overrides.
// An empty path loads defaults and environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	loadEnvironmentVariables(v, &cfg)

	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutMS) * time.Millisecond
	cfg.CacheTTL = time.Duration(cfg.CacheTTLMS) * time.Millisecond

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"token_address":     DefaultTokenAddress,
		"pool_address":      DefaultPoolAddress,
		"token_name":        "KIRBY",
		"token_symbol":      "KIRBY",
		"decimals":          DefaultDecimals,
		"total_supply":      DefaultTotalSupply,
		"network":           "solana",
		"helius_url":        "https://mainnet.helius-rpc.com/",
		"jupiter_price_url": "https://lite-api.jup.ag/price/v3",
		"jupiter_token_url": "https://lite-api.jup.ag/tokens/v2/search",
		"coingecko_url":     "https://api.coingecko.com/api/v3",
		"geckoterminal_url": "https://api.geckoterminal.com/api/v2",
		"max_holder_pages":  DefaultMaxHolderPages,
		"holders_page_size": DefaultHoldersPageSize,
		"request_timeout":   DefaultRequestTimeout,
		"retries":           DefaultRetries,
		"cache_ttl":         DefaultCacheTTL,
		"listen_addr":       ":8080",
		"allowed_origins":   []string{"*"},
		"special_wallets": []map[string]interface{}{
			{"address": "GPshF6WikktzrB9NVWSfLRR2Dpzy11AXX3DKPct4kSN", "role": string(types.RoleLocked)},
			{"address": "HLnpSz9h2S4hiLQ43rnSD9XkcUThA7B8hQMKmDaiTLcC", "role": string(types.RoleLiquidity)},
		},
		"offline_sample": false,
		"debug_logging":  false,
		"log_file":       "tokenstats.log",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// loadEnvironmentVariables handles keys viper cannot bind automatically.
func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	if key := v.GetString("HELIUS_API_KEY"); key != "" {
		cfg.HeliusAPIKey = key
	}

	if origins := v.GetString("ALLOWED_ORIGINS"); origins != "" {
		var clean []string
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				clean = append(clean, o)
			}
		}
		if len(clean) > 0 {
			cfg.AllowedOrigins = clean
		}
	}
}

func (c *Config) validate() error {
	if _, err := solana.PublicKeyFromBase58(c.TokenAddress); err != nil {
		return fmt.Errorf("invalid token_address: %w", err)
	}
	if c.PoolAddress != "" {
		if _, err := solana.PublicKeyFromBase58(c.PoolAddress); err != nil {
			return fmt.Errorf("invalid pool_address: %w", err)
		}
	}
	for _, w := range c.SpecialWallets {
		if _, err := solana.PublicKeyFromBase58(w.Address); err != nil {
			return fmt.Errorf("invalid special wallet %q: %w", w.Address, err)
		}
		switch types.WalletRole(w.Role) {
		case types.RoleLocked, types.RoleLiquidity:
		default:
			return fmt.Errorf("unknown role %q for special wallet %s", w.Role, w.Address)
		}
	}
	if c.Decimals < 0 || c.Decimals > 18 {
		return errors.New("invalid decimals")
	}
	if c.TotalSupply <= 0 {
		return errors.New("invalid total_supply")
	}
	if c.MaxHolderPages <= 0 {
		return errors.New("invalid max_holder_pages")
	}
	if c.HoldersPageSize <= 0 {
		return errors.New("invalid holders_page_size")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("invalid request_timeout")
	}
	if c.Retries < 0 {
		return errors.New("invalid retries count")
	}
	for _, u := range []string{c.HeliusURL, c.JupiterPriceURL, c.JupiterTokenURL, c.CoinGeckoURL, c.GeckoTerminal} {
		if err := validateURLWithCache(u, "http"); err != nil {
			return fmt.Errorf("%s: %w", u, err)
		}
	}
	return nil
}

// HasHeliusKey reports whether holder enumeration can run.
func (c *Config) HasHeliusKey() bool {
	return c.HeliusAPIKey != ""
}

// Roles returns the special allow-list as typed roles.
func (c *Config) Roles() map[string]types.WalletRole {
	out := make(map[string]types.WalletRole, len(c.SpecialWallets))
	for _, w := range c.SpecialWallets {
		out[w.Address] = types.WalletRole(w.Role)
	}
	return out
}

// MaskedHeliusURL returns the Helius endpoint without the API key, for logging.
func (c *Config) MaskedHeliusURL() string {
	if c.HeliusAPIKey == "" {
		return c.HeliusURL
	}
	return c.HeliusURL + "?api-key=***"
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}
