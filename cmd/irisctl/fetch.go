package main

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/umar-b/BSMS-2/internal/adapters/esp"
	"github.com/umar-b/BSMS-2/internal/adapters/mock"
	"github.com/umar-b/BSMS-2/internal/ports"
)

func newFetchCmd() *cobra.Command {
	var (
		url     string
		useMock bool
		delay   time.Duration
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one reading directly from the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fetcher ports.Fetcher
			if useMock {
				fetcher = mock.NewFakeFetcher(delay)
			} else {
				fetcher = esp.NewFetcher(url, &http.Client{Timeout: timeout})
			}

			start := time.Now()
			reading, err := fetcher.Fetch(cmd.Context())
			if err != nil {
				return err
			}
			log.Debug().Dur("took", time.Since(start)).Msg("fetched reading")

			return printJSON(cmd.OutOrStdout(), reading)
		},
	}

	cmd.Flags().StringVar(&url, "url", esp.DefaultURL, "device telemetry URL")
	cmd.Flags().BoolVar(&useMock, "mock", false, "fabricate a reading instead of calling the device")
	cmd.Flags().DurationVar(&delay, "delay", mock.DefaultDelay, "artificial latency of --mock")
	cmd.Flags().DurationVar(&timeout, "timeout", esp.DefaultTimeout, "request timeout")
	return cmd
}
