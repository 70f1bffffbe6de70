package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vitalvas/paywebhook/internal/xslog"
	"github.com/vitalvas/paywebhook/webhook"
)

func verifyCmd(opts *rootOptions) *cobra.Command {
	var (
		rawHeaders  []string
		headersFile string
		now         int64
	)

	cmd := &cobra.Command{
		Use:   "verify <payload-file|->",
		Short: "Verify a payload against webhook headers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, secret, err := opts.loadWithSecret()
			if err != nil {
				return err
			}

			headers, err := collectHeaders(rawHeaders, headersFile)
			if err != nil {
				return err
			}

			payload, err := readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			level, err := xslog.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}

			verifyCfg := webhook.VerifyConfig{
				Tolerance: cfg.Tolerance,
				Logger:    xslog.New(cmd.ErrOrStderr(), level),
			}
			if now != 0 {
				verifyCfg.Now = func() time.Time { return time.Unix(now, 0) }
			}

			if err := webhook.Verify(secret, payload, headers, verifyCfg); err != nil {
				return fmt.Errorf("%s: %w", webhook.ReasonOf(err), err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&rawHeaders, "header", "H", nil, `header as "name: value" (repeatable)`)
	cmd.Flags().StringVar(&headersFile, "headers-file", "", "JSON object of header names to values")
	cmd.Flags().Int64Var(&now, "now", 0, "Unix seconds to use as the current time")

	return cmd
}

// collectHeaders merges a JSON headers file with -H flags. Values are
// appended, so a name given twice becomes ambiguous rather than overridden.
func collectHeaders(raw []string, path string) (http.Header, error) {
	headers := http.Header{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read headers file: %w", err)
		}

		var fromFile map[string]string
		if err := go_json.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("failed to parse headers file: %w", err)
		}

		for name, value := range fromFile {
			headers[name] = append(headers[name], value)
		}
	}

	for _, entry := range raw {
		name, value, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q: expected \"name: value\"", entry)
		}

		name = strings.TrimSpace(name)
		headers[name] = append(headers[name], strings.TrimSpace(value))
	}

	return headers, nil
}
