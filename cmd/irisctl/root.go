package main

import (
	"encoding/json"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	addr    string
	tlsCert string
	tlsKey  string
	tlsCA   string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "irisctl",
		Short:         "Inspect the iris controller and the iris service",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.addr, "addr", "localhost:50051", "iris service gRPC address")
	cmd.PersistentFlags().StringVar(&opts.tlsCert, "tls-cert", "", "client certificate for mTLS")
	cmd.PersistentFlags().StringVar(&opts.tlsKey, "tls-key", "", "client private key for mTLS")
	cmd.PersistentFlags().StringVar(&opts.tlsCA, "tls-ca", "", "CA certificate for mTLS")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newCurrentCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
