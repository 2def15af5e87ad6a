package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/opd-ai/bookforge/logger"
	bookforge "github.com/opd-ai/bookforge/src"
)

var (
	cfg        bookforge.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "bookforge",
	Short: "Generate complete books with a generative-AI backend",
	Long: `bookforge orchestrates calls to a generative-AI service to produce a
multi-chapter book (outline, preface, chapter prose, cover art), pages
through the assembled result, and exports it to PDF, DOCX, HTML, or
Markdown.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is the normal case outside development.
		_ = godotenv.Load()
		cfg = bookforge.LoadConfig()
		if configFile != "" {
			if err := cfg.ApplyYAML(configFile); err != nil {
				return err
			}
		}
		return logger.Init(logger.Options{
			Level:      cfg.LogLevel,
			Pretty:     cfg.LogPretty,
			File:       cfg.LogFile,
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Optional YAML config file overlaying the environment")
	rootCmd.AddCommand(generateCmd, exportCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
