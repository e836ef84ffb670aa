// Command txsmith builds, signs, and optionally broadcasts a legacy Bitcoin
// payment from a single-key wallet, asking the node for UTXOs, fee
// estimates, and authoritative transaction sizes.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/decred/slog"
	flags "github.com/jessevdk/go-flags"

	"github.com/davide3011/TxSmith/config"
	"github.com/davide3011/TxSmith/network"
	"github.com/davide3011/TxSmith/spentstore"
	"github.com/davide3011/TxSmith/wallet"
)

type options struct {
	Config      string `short:"C" long:"config" description:"Path to configuration file"`
	WriteConfig bool   `long:"write-config" description:"Write the effective configuration back to the config file"`
	Wallet      string `long:"wallet" description:"Path to JSON wallet file"`
	WalletPass  string `long:"wallet-password" description:"Password for an encrypted wallet file"`
	Network     string `long:"network" description:"Network: mainnet, testnet, or regtest"`

	RPCURL  string `long:"rpc-url" description:"Node JSON-RPC URL"`
	RPCUser string `long:"rpc-user" description:"Node RPC username"`
	RPCPass string `long:"rpc-pass" description:"Node RPC password"`

	To         string  `long:"to" description:"Destination address" required:"true"`
	Amount     uint64  `long:"amount" description:"Satoshis to send" required:"true"`
	FeeRate    float64 `long:"fee-rate" description:"Fee rate in sat/vB (0 asks the node)"`
	ConfTarget int     `long:"conf-target" description:"Confirmation target in blocks for fee estimation"`

	Broadcast bool   `long:"broadcast" description:"Broadcast the signed transaction"`
	LogLevel  string `long:"log-level" description:"Log level: debug, info, warn, error"`
}

var log = slog.Disabled

func main() {
	if err := run(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	backend := slog.NewBackend(os.Stderr)
	log = backend.Logger("TXSM")

	cfg, err := loadConfig(&opts)
	if err != nil {
		return err
	}
	if level, ok := slog.LevelFromString(cfg.LogLevel); ok {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	km, err := loadWallet(cfg.WalletFile, firstNonEmpty(opts.WalletPass, os.Getenv("TXSMITH_WALLET_PASS")))
	if err != nil {
		return err
	}
	if km.TestNet == (cfg.Network == "mainnet") {
		return fmt.Errorf("wallet key network does not match configured network %q", cfg.Network)
	}

	rpcCfg, err := network.ResolveConfig(&network.RPCConfig{
		URL:      firstNonEmpty(opts.RPCURL, cfg.RPCURL),
		User:     firstNonEmpty(opts.RPCUser, cfg.RPCUser),
		Password: firstNonEmpty(opts.RPCPass, cfg.RPCPassword),
	}, envMap(), cfg.Network)
	if err != nil {
		return err
	}
	client := network.NewRPCClient(*rpcCfg)

	height, err := client.BlockCount(ctx)
	if err != nil {
		return fmt.Errorf("node unreachable: %w", err)
	}
	log.Infof("Connected to %s node at height %d", cfg.Network, height)

	store, err := spentstore.Open(filepath.Join(cfg.DataDir, "spent.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	outcome, err := send(ctx, client, store, &sendRequest{
		Wallet:     km,
		To:         opts.To,
		Amount:     opts.Amount,
		FeeRate:    opts.FeeRate,
		ConfTarget: cfg.ConfTarget,
		Fallback:   cfg.FeeRate,
		Broadcast:  opts.Broadcast,
	})
	if err != nil {
		return err
	}

	printSummary(outcome, opts.To, opts.Amount)
	if outcome.SentID == "" {
		log.Infof("Dry run complete; re-run with --broadcast to send")
		return nil
	}
	log.Infof("Transaction broadcast: %s", outcome.SentID)
	return nil
}

// loadWallet loads the wallet file, decrypting it when a password is given.
// A password-less load of an encrypted wallet gets a pointer at the flag.
func loadWallet(path, password string) (*wallet.KeyMaterial, error) {
	if password != "" {
		return wallet.LoadEncrypted(path, password)
	}
	km, err := wallet.LoadFile(path)
	if errors.Is(err, wallet.ErrWalletEncrypted) {
		return nil, fmt.Errorf("%w; supply --wallet-password", err)
	}
	return km, err
}

// loadConfig reads the config file and applies flag overrides. A missing
// file at the default location falls back to defaults; an explicitly
// requested file must exist. With --write-config the effective result is
// written back so the flags become the new file.
func loadConfig(opts *options) (config.Config, error) {
	path := opts.Config
	explicit := path != ""
	if !explicit {
		path = filepath.Join(config.DefaultConfig().DataDir, "config")
	}

	cfg, err := config.LoadConfig(path)
	if err != nil && (explicit || !errors.Is(err, config.ErrConfigNotFound)) {
		return cfg, err
	}

	if opts.Network != "" {
		cfg.Network = opts.Network
	}
	if opts.Wallet != "" {
		cfg.WalletFile = opts.Wallet
	}
	if opts.ConfTarget > 0 {
		cfg.ConfTarget = opts.ConfTarget
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return cfg, err
	}

	if opts.WriteConfig {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return cfg, fmt.Errorf("config directory: %w", err)
		}
		if err := config.SaveConfig(path, cfg); err != nil {
			return cfg, err
		}
		log.Infof("Wrote configuration to %s", path)
	}
	return cfg, nil
}

func printSummary(outcome *sendOutcome, dest string, amount uint64) {
	fmt.Printf("\nSender:       %s\n", outcome.Sender)
	fmt.Printf("Destination:  %s\n", dest)
	fmt.Printf("Amount:       %d sat\n", amount)
	fmt.Printf("Fee rate:     %.3f sat/vB\n", outcome.FeeRate)
	fmt.Printf("Virtual size: %d vB\n", outcome.Result.VSize)
	fmt.Printf("Fee:          %d sat\n", outcome.Result.Fee)
	fmt.Printf("Change:       %d sat\n", outcome.Result.Change)
	fmt.Printf("Iterations:   %d\n", outcome.Result.Iterations)
	fmt.Printf("TxID:         %s\n", outcome.TxID)
	fmt.Printf("\nRaw transaction:\n%s\n", hex.EncodeToString(outcome.Result.RawTx))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// envMap pulls the RPC-related environment variables into the form
// network.ResolveConfig consumes.
func envMap() map[string]string {
	env := make(map[string]string, 3)
	for _, key := range []string{"TXSMITH_RPC_URL", "TXSMITH_RPC_USER", "TXSMITH_RPC_PASS"} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env
}
