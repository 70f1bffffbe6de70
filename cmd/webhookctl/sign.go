package main

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vitalvas/paywebhook/webhook"
)

func secretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret",
		Short: "Generate a new whsec_ signing secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := webhook.GenerateSecret()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), secret)
			return err
		},
	}
}

func signCmd(opts *rootOptions) *cobra.Command {
	var (
		id        string
		timestamp int64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "sign <payload-file|->",
		Short: "Print webhook headers for a payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, secret, err := opts.loadWithSecret()
			if err != nil {
				return err
			}

			payload, err := readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			signCfg := webhook.SignConfig{Secret: secret, ID: id}
			if timestamp != 0 {
				signCfg.Timestamp = time.Unix(timestamp, 0)
			}

			headers, err := webhook.SignHeaders(payload, signCfg)
			if err != nil {
				return err
			}

			return writeHeaders(cmd, headers, asJSON)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "webhook id (random when empty)")
	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "Unix seconds to sign with (now when zero)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print headers as a JSON object")

	return cmd
}

func writeHeaders(cmd *cobra.Command, headers http.Header, asJSON bool) error {
	flat := map[string]string{
		webhook.HeaderID:        headers.Get(webhook.HeaderID),
		webhook.HeaderTimestamp: headers.Get(webhook.HeaderTimestamp),
		webhook.HeaderSignature: headers.Get(webhook.HeaderSignature),
	}

	out := cmd.OutOrStdout()

	if asJSON {
		data, err := go_json.MarshalIndent(flat, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	names := make([]string, 0, len(flat))
	for name := range flat {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(out, "%s: %s\n", name, flat[name]); err != nil {
			return err
		}
	}

	return nil
}
