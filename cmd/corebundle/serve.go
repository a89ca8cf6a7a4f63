package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/corebundle/bootstrap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the backend HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			svc, err := bootstrap.NewService(cfg)
			if err != nil {
				return err
			}
			return svc.Serve(cmd.Context())
		},
	}
}
