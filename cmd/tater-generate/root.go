package main

import (
	"fmt"

	"github.com/Tiny-Potato/TaterTotter/internal/catalog"
	"github.com/Tiny-Potato/TaterTotter/internal/config"
	"github.com/Tiny-Potato/TaterTotter/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	var (
		configFile string
		flags      config.Flags
		verbose    bool
		logger     *zap.Logger
	)

	cmd := &cobra.Command{
		Use:   "tater-generate",
		Short: "Build the tater library listings and image variants",
		Long: `tater-generate reads one JSON record per tater from the data directory,
orders them by first appearance, assigns library numbers, copies and resizes
each tater's PNG image, and writes the all, by_id and by_library_number
listings to the output directory.

Every run regenerates the output from scratch.`,
		Example: `  # Run from the generator directory with the default layout
  tater-generate

  # Explicit directories, eight workers, WebP companions
  tater-generate --data ./data --images ./image --output ./dist --workers 8 --webp`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			var err error
			logger, err = logging.New(verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Config
			if configFile != "" {
				var err error
				cfg, err = config.Load(configFile)
				if err != nil {
					return err
				}
			}
			if err := cfg.Resolve(flags); err != nil {
				return err
			}

			logger.Debug("resolved configuration",
				zap.String("data_dir", cfg.DataDir),
				zap.String("image_dir", cfg.ImageDir),
				zap.String("output_dir", cfg.OutputDir),
				zap.Int("variants", len(cfg.Variants)),
				zap.Int("workers", cfg.Workers),
				zap.Bool("webp", cfg.WebP))

			if _, err := catalog.Generate(cmd.Context(), cfg, logger); err != nil {
				logger.Error("generation failed", zap.Error(err))
				return fmt.Errorf("generate: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to a JSON or YAML config file")
	cmd.Flags().StringVar(&flags.DataDir, "data", "", "Directory of <id>.json records (default ../data)")
	cmd.Flags().StringVar(&flags.ImageDir, "images", "", "Directory of <id>.png images (default ../image)")
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", "", "Output directory (default ./output)")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "Image worker goroutines (default NumCPU, 1 = sequential)")
	cmd.Flags().BoolVar(&flags.WebP, "webp", false, "Also write lossless .webp companions")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	return cmd
}
