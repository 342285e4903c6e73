package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/gateway"
	"github.com/debemdeboas/postdeck/internal/logger"
)

type options struct {
	baseURL  string
	timeout  time.Duration
	logLevel string
}

func (o *options) gateway() *gateway.HTTPGateway {
	return gateway.New(o.baseURL, gateway.WithTimeout(o.timeout), gateway.WithUserAgent("postctl"))
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	defaults := config.Default()
	config.ApplyEnv(defaults)

	cmd := &cobra.Command{
		Use:           "postctl",
		Short:         "List, create, update and delete posts on a posts REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			gateway.SetLogger(logger.Component(logger.New(opts.logLevel), "gateway"))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", defaults.API.BaseURL, "API base URL (env "+config.EnvAPIBaseURL+")")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "request timeout, 0 for none")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	cmd.AddCommand(
		newListCmd(opts, defaults.Content.PageSize),
		newCreateCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
	)
	return cmd
}
