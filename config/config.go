// Package config loads the node configuration and genesis state from a TOML
// file.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"palletchain/logging"
	"palletchain/primitives"
	"palletchain/runtime"
)

const (
	DefaultHTTPAddr     = ":8372"
	DefaultReceiptCache = 256
	DefaultLogLevel     = "info"
)

type Config struct {
	LogLevel     string
	HTTPAddr     string
	ReceiptCache int
	// MaxBalance caps every account balance; zero value means 2^128-1.
	MaxBalance primitives.Balance
	Genesis    runtime.Genesis
}

func DefaultConfig() Config {
	return Config{
		LogLevel:     DefaultLogLevel,
		HTTPAddr:     DefaultHTTPAddr,
		ReceiptCache: DefaultReceiptCache,
		MaxBalance:   primitives.MaxBalance(),
		Genesis: runtime.Genesis{
			Balances: map[primitives.AccountID]primitives.Balance{},
		},
	}
}

// RuntimeConfig returns the runtime settings derived from c.
func (c Config) RuntimeConfig() runtime.Config {
	cfg := runtime.DefaultConfig()
	cfg.Balances.MaxBalance = c.MaxBalance
	return cfg
}

// fileConfig is the on-disk layout:
//
//	log_level = "debug"
//	http_addr = ":8372"
//	receipt_cache = 128
//	max_balance = "1000000"
//
//	[[genesis.balances]]
//	account = "alice"
//	amount = "100"
type fileConfig struct {
	LogLevel     string      `toml:"log_level"`
	HTTPAddr     string      `toml:"http_addr"`
	ReceiptCache int         `toml:"receipt_cache"`
	MaxBalance   string      `toml:"max_balance"`
	Genesis      fileGenesis `toml:"genesis"`
}

type fileGenesis struct {
	Balances []fileBalance `toml:"balances"`
}

type fileBalance struct {
	Account string `toml:"account"`
	Amount  string `toml:"amount"`
}

// Load reads path (a leading ~ is expanded) and overlays every key it
// defines onto DefaultConfig.
func Load(path string) (Config, error) {
	resolved, err := homedir.Expand(strings.TrimSpace(path))
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path: %w", err)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(resolved, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return fromFile(raw, meta)
}

// Parse is Load for in-memory TOML.
func Parse(data string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return fromFile(raw, meta)
}

func fromFile(raw fileConfig, meta toml.MetaData) (Config, error) {
	cfg := DefaultConfig()

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		level := strings.TrimSpace(raw.LogLevel)
		if _, ok := logging.ParseLevel(level); !ok {
			return Config{}, fmt.Errorf("unknown log_level %q", raw.LogLevel)
		}
		cfg.LogLevel = level
	}

	if meta.IsDefined("http_addr") {
		addr := strings.TrimSpace(raw.HTTPAddr)
		if addr == "" {
			return Config{}, fmt.Errorf("http_addr must not be empty")
		}
		cfg.HTTPAddr = addr
	}

	if meta.IsDefined("receipt_cache") {
		if raw.ReceiptCache <= 0 {
			return Config{}, fmt.Errorf("receipt_cache must be positive, got %d", raw.ReceiptCache)
		}
		cfg.ReceiptCache = raw.ReceiptCache
	}

	if meta.IsDefined("max_balance") {
		limit, err := primitives.ParseBalance(raw.MaxBalance)
		if err != nil {
			return Config{}, fmt.Errorf("parse max_balance: %w", err)
		}
		cfg.MaxBalance = limit
	}

	for i, entry := range raw.Genesis.Balances {
		account := primitives.AccountID(strings.TrimSpace(entry.Account))
		if account == "" {
			return Config{}, fmt.Errorf("genesis balance %d: empty account", i)
		}
		if _, dup := cfg.Genesis.Balances[account]; dup {
			return Config{}, fmt.Errorf("genesis balance %d: duplicate account %q", i, account)
		}
		amount, err := primitives.ParseBalance(entry.Amount)
		if err != nil {
			return Config{}, fmt.Errorf("genesis balance %d (%s): %w", i, account, err)
		}
		if amount.Gt(&cfg.MaxBalance) {
			return Config{}, fmt.Errorf("genesis balance %d (%s): exceeds max_balance", i, account)
		}
		cfg.Genesis.Balances[account] = amount
	}

	return cfg, nil
}
