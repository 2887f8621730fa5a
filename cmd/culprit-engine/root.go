package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/scatterstack/scatter-culprit/internal/config"
	"github.com/scatterstack/scatter-culprit/internal/utils"
)

type commandContext struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

// ensureConfig loads the configuration once and builds the logger from it.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.logger = utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	cmd := &cobra.Command{
		Use:           "culprit-engine",
		Short:         "Identify scattered-light culprit channels by correlation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&ctx.configPath, "config", "", "Path to configuration file")

	cmd.AddCommand(newAnalyzeCommand(ctx))
	cmd.AddCommand(newSummaryCommand(ctx))
	return cmd
}
