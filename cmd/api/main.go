package main

import (
	"os"

	"catalog-backend/internal/config"
	"catalog-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "catalog-api",
	Short: "Category & product catalog REST API",
	Long:  "catalog-api serves the category/product catalog over HTTP, backed by MongoDB or PostgreSQL",
	// Không có subcommand => serve
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file (env vars override it)")
	rootCmd.AddCommand(serveCmd, ensureIndexesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig: .env → config file → env, rồi init logger và gin mode
func loadConfig() (*config.Config, error) {
	// Production sẽ dùng system environment variables
	envFileErr := godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	if envFileErr != nil {
		logger.Debug("no .env file found, using system environment variables", nil)
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// price trả về dạng số JSON, không phải string
	decimal.MarshalJSONWithoutQuotes = true

	log.Info().
		Str("env", cfg.App.Environment).
		Str("driver", cfg.Storage.Driver).
		Str("product_slug_mode", cfg.Catalog.ProductSlugMode).
		Msg("🌍 Configuration loaded")

	return cfg, nil
}
