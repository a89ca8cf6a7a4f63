package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/corebundle/bootstrap"
	"github.com/kbukum/corebundle/fragment"
)

func newDebugFragmentsCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "debug:fragments",
		Short: "List the registered fragments",
		Long: `List every fragment registered by the compiler passes: backend and
frontend modules, content elements and dashboard widgets.

No database connection is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			_, fragments, _, err := bootstrap.Prepare(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			return writeFragments(cmd.OutOrStdout(), format, fragments.All())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or yaml")
	return cmd
}

func writeFragments(w io.Writer, format string, configs []fragment.Config) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(configs); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tSERVICE\tCATEGORY\tTEMPLATE\tRENDERER\tLAZY")
		for _, c := range configs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n", c.Key, c.ServiceID, c.Category, c.Template, c.Renderer, c.Lazy)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want table or yaml)", format)
	}
}

func newDebugPassesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "debug:passes",
		Short: "List the compiler passes in run order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return writePasses(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
}

func writePasses(ctx context.Context, w io.Writer, cfg *bootstrap.AppConfig) error {
	_, _, pipeline, err := bootstrap.Prepare(ctx, cfg, nil)
	if err != nil {
		return err
	}
	for i, name := range pipeline.Names() {
		fmt.Fprintf(w, "%2d. %s\n", i+1, name)
	}
	for _, c := range pipeline.Constraints() {
		fmt.Fprintf(w, "    %s before %s\n", c.Before, c.After)
	}
	return nil
}
