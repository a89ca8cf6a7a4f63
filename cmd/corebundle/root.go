package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/corebundle/bootstrap"
	"github.com/kbukum/corebundle/config"
	"github.com/kbukum/corebundle/version"
)

const serviceName = "corebundle"

type rootOptions struct {
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Contao core bundle service",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Config file (default: searched next to the binary)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Dotenv file loaded before the environment")

	cmd.AddCommand(
		newServeCmd(opts),
		newDebugFragmentsCmd(opts),
		newDebugPassesCmd(opts),
		newCrawlCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load reads and validates the configuration.
func (o *rootOptions) load() (*bootstrap.AppConfig, error) {
	var loaderOpts []config.LoaderOption
	if o.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(o.envFile))
	}
	cfg, err := bootstrap.LoadConfig(serviceName, loaderOpts...)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
