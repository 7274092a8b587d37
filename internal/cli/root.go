// Package cli provides the command-line interface for the auditor.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openomi/pof-auditor/internal/audit"
	"github.com/openomi/pof-auditor/internal/config"
	"github.com/openomi/pof-auditor/internal/extraction"
	"github.com/openomi/pof-auditor/internal/reasoning"
	"github.com/openomi/pof-auditor/internal/schema"
	"github.com/openomi/pof-auditor/internal/storage"
	"github.com/openomi/pof-auditor/internal/utils"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global config and pipeline wiring
	cfg    *config.Config
	logger *utils.Logger
	svc    audit.Service
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pof-auditor",
	Short: "Proof-of-funds pre-validation auditor",
	Long: `pof-auditor runs a pre-validation audit for immigration proof of funds
documentation. Bank statements are stored in object storage, extracted
through the document-extraction vendor, and assessed by the hosted
reasoning agent, which produces a narrative report and a verdict.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip pipeline wiring for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger = utils.NewLogger(cfg.LogLevel, cfg.LogFile)

		store, err := storage.NewS3Storage(cfg)
		if err != nil {
			return fmt.Errorf("initialize storage: %w", err)
		}

		validator, err := schema.NewValidator()
		if err != nil {
			return fmt.Errorf("compile extraction schema: %w", err)
		}

		adeClient := extraction.NewADEClient(
			cfg.ExtractionBaseURL,
			cfg.ExtractionAPIKey,
			cfg.ParseModel,
			cfg.ExtractModel,
			schema.BankStatement(),
			logger,
		)
		extractor := extraction.NewExtractor(store, adeClient, validator, logger)

		reasoner, err := reasoning.NewAgentReasoner(context.Background(), cfg, logger)
		if err != nil {
			return fmt.Errorf("initialize reasoning agent client: %w", err)
		}
		if !cfg.AgentConfigured() {
			logger.Warn("Bedrock agent identifiers are not set; audits will return an in-band error report instead of reasoning output")
		}

		svc = audit.NewService(store, extractor, reasoner, logger)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(auditCmd)
}
