package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitalvas/paywebhook/webhook"
)

func sendCmd(opts *rootOptions) *cobra.Command {
	var (
		id      string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "send <url> <payload-file|->",
		Short: "POST a signed payload to a webhook endpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, secret, err := opts.loadWithSecret()
			if err != nil {
				return err
			}

			payload, err := readPayload(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}

			client := &http.Client{
				Timeout: timeout,
				Transport: webhook.NewTransport(nil, webhook.SignConfig{
					Secret: secret,
					ID:     id,
				}),
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, args[0], bytes.NewReader(payload))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("failed to send webhook: %w", err)
			}
			defer resp.Body.Close()

			_, _ = io.Copy(io.Discard, resp.Body)

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), resp.Status); err != nil {
				return err
			}

			if resp.StatusCode >= http.StatusMultipleChoices {
				return fmt.Errorf("endpoint responded with %s", resp.Status)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "webhook id (random when empty)")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")

	return cmd
}
