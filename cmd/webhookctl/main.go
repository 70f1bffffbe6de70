package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vitalvas/paywebhook/internal/config"
	"github.com/vitalvas/paywebhook/webhook"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	secret     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "webhookctl",
		Short:        "Sign, verify, send and receive payment platform webhooks",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.secret, "secret", "", "webhook secret (overrides config and WEBHOOK_SECRET)")

	rootCmd.AddCommand(secretCmd())
	rootCmd.AddCommand(signCmd(opts))
	rootCmd.AddCommand(verifyCmd(opts))
	rootCmd.AddCommand(sendCmd(opts))
	rootCmd.AddCommand(serveCmd(opts))

	return rootCmd
}

func (o *rootOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}

	if o.secret != "" {
		cfg.Secret = o.secret
	}

	return cfg, nil
}

func (o *rootOptions) loadWithSecret() (config.Config, webhook.Secret, error) {
	cfg, err := o.load()
	if err != nil {
		return config.Config{}, webhook.Secret{}, err
	}

	if cfg.Secret == "" {
		return config.Config{}, webhook.Secret{}, fmt.Errorf("%w: set --secret, WEBHOOK_SECRET or secret in config", webhook.ErrInvalidSecret)
	}

	return cfg, webhook.StringSecret(cfg.Secret), nil
}

// readPayload reads the payload file at path, or in when path is "-".
func readPayload(in io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	return data, nil
}
