package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/umar-b/BSMS-2/pkg/pb"
	"github.com/umar-b/BSMS-2/pkg/tlsconfig"
)

func dial(opts *rootOptions) (pb.IrisServiceClient, func() error, error) {
	creds := insecure.NewCredentials()
	if opts.tlsCert != "" {
		tlsCfg, err := tlsconfig.LoadClientTLS(opts.tlsCert, opts.tlsKey, opts.tlsCA)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load TLS config: %w", err)
		}
		creds = credentials.NewTLS(tlsCfg)
	}

	conn, err := grpc.NewClient(opts.addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial %s: %w", opts.addr, err)
	}
	return pb.NewIrisServiceClient(conn), conn.Close, nil
}

func newCurrentCmd(opts *rootOptions) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the latest reading stored by the iris service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeConn, err := dial(opts)
			if err != nil {
				return err
			}
			defer closeConn()

			var reading *pb.Reading
			if refresh {
				resp, err := client.FetchReading(cmd.Context(), &emptypb.Empty{})
				if err != nil {
					return err
				}
				reading = resp.Reading
			} else {
				resp, err := client.GetCurrentReading(cmd.Context(), &emptypb.Empty{})
				if err != nil {
					return err
				}
				reading = resp.Reading
			}
			return printJSON(cmd.OutOrStdout(), reading)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "poll the device now instead of returning the stored reading")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored readings with lux statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeConn, err := dial(opts)
			if err != nil {
				return err
			}
			defer closeConn()

			now := time.Now()
			resp, err := client.GetHistory(cmd.Context(), &pb.GetHistoryRequest{
				StartTime: now.Add(-since).Unix(),
				EndTime:   now.Add(time.Second).Unix(),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().DurationVar(&since, "since", time.Hour, "how far back to look")
	return cmd
}
