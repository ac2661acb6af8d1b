package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	// Bcrypt hash of the key the ingestion job and library writers must
	// present in X-API-Key.
	IngestAPIKeyHash string `mapstructure:"INGEST_API_KEY_HASH"`

	// Paging defaults and caps. Browse and the specialty lists deliberately
	// differ; see the per-endpoint handlers.
	BrowsePageSize    int `mapstructure:"BROWSE_PAGE_SIZE"`
	BrowsePageSizeMax int `mapstructure:"BROWSE_PAGE_SIZE_MAX"`
	ListPageSize      int `mapstructure:"LIST_PAGE_SIZE"`
	ListPageSizeMax   int `mapstructure:"LIST_PAGE_SIZE_MAX"`

	// Platform families hidden from the latest-releases view (desktop/web).
	ExcludedPlatforms string `mapstructure:"EXCLUDED_PLATFORMS"`
}

var AppConfig *Config

// ExcludedPlatformSlugs splits the configured exclusion list.
func (c *Config) ExcludedPlatformSlugs() []string {
	var out []string
	for _, s := range strings.Split(c.ExcludedPlatforms, ",") {
		if s = strings.TrimSpace(strings.ToLower(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("BROWSE_PAGE_SIZE", 24)
	viper.SetDefault("BROWSE_PAGE_SIZE_MAX", 100)
	viper.SetDefault("LIST_PAGE_SIZE", 5)
	viper.SetDefault("LIST_PAGE_SIZE_MAX", 24)
	viper.SetDefault("EXCLUDED_PLATFORMS", "pc,mac,web")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
