package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/corebundle/bootstrap"
	"github.com/kbukum/corebundle/crawl"
	"github.com/kbukum/corebundle/di"
)

func newCrawlCmd(opts *rootOptions) *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "crawl <url>...",
		Short: "Crawl the site and feed the subscribers",
		Long: `Crawl the given URLs breadth first and hand every response to the
registered crawl subscribers. With the search index enabled this rebuilds
tl_search.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, seeds []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if maxDepth > 0 {
				cfg.Crawl.MaxDepth = maxDepth
			}
			svc, err := bootstrap.NewService(cfg)
			if err != nil {
				return err
			}
			return svc.Task(cmd.Context(), func(ctx context.Context, b *bootstrap.Bundle) error {
				crawler, err := di.Resolve[*crawl.Crawler](b.Container, di.Services.Crawler)
				if err != nil {
					return err
				}
				report, err := crawler.Crawl(ctx, seeds...)
				if err != nil {
					return err
				}
				out, err := yaml.Marshal(report)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
				return err
			})
		},
	}
	cmd.Flags().IntVar(&maxDepth, "depth", 0, "Link hops to follow (default from config)")
	return cmd
}
