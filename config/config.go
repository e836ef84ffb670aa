// Package config loads and validates the txsmith configuration file, a flat
// key = value format with # comments.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the runtime configuration.
type Config struct {
	// DataDir is where txsmith keeps its spent-outpoint journal.
	DataDir string

	// Network selects mainnet, testnet, or regtest.
	Network string

	// RPC connection parameters. Empty values fall back to network presets
	// and environment variables.
	RPCURL      string
	RPCUser     string
	RPCPassword string

	// WalletFile is the path to the JSON wallet file.
	WalletFile string

	// FeeRate is the fallback fee rate in sat/vB, used when the node has
	// no smart-fee estimate.
	FeeRate float64

	// ConfTarget is the confirmation target in blocks for fee estimation.
	ConfTarget int

	LogLevel string
	LogFile  string
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".txsmith")
	return Config{
		DataDir:    dataDir,
		Network:    "regtest",
		WalletFile: filepath.Join(dataDir, "wallet.json"),
		FeeRate:    1.0,
		ConfTarget: 6,
		LogLevel:   "info",
	}
}

// LoadConfig reads a config file and merges it over DefaultConfig. Blank
// lines and # comments are skipped; unknown keys are ignored so old
// binaries tolerate newer files.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch strings.ToLower(key) {
		case "datadir":
			cfg.DataDir = value
		case "network":
			cfg.Network = value
		case "rpcurl":
			cfg.RPCURL = value
		case "rpcuser":
			cfg.RPCUser = value
		case "rpcpassword":
			cfg.RPCPassword = value
		case "walletfile":
			cfg.WalletFile = value
		case "feerate":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: feerate %q", ErrInvalidConfigLine, lineNo, value)
			}
			cfg.FeeRate = rate
		case "conftarget":
			target, err := strconv.Atoi(value)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: conftarget %q", ErrInvalidConfigLine, lineNo, value)
			}
			cfg.ConfTarget = target
		case "loglevel":
			cfg.LogLevel = value
		case "logfile":
			cfg.LogFile = value
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the configuration to path in the same key = value
// format LoadConfig reads.
func SaveConfig(path string, cfg Config) error {
	var b strings.Builder
	b.WriteString("# txsmith configuration\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "rpcurl = %s\n", cfg.RPCURL)
	fmt.Fprintf(&b, "rpcuser = %s\n", cfg.RPCUser)
	fmt.Fprintf(&b, "rpcpassword = %s\n", cfg.RPCPassword)
	fmt.Fprintf(&b, "walletfile = %s\n", cfg.WalletFile)
	fmt.Fprintf(&b, "feerate = %g\n", cfg.FeeRate)
	fmt.Fprintf(&b, "conftarget = %d\n", cfg.ConfTarget)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
