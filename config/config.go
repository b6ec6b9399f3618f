package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBType          string                  `mapstructure:"DB_TYPE"` // sqlite, postgres, mysql
	DSN             string                  `mapstructure:"DSN"`
	SkipAutoMigrate bool                    `mapstructure:"SKIP_AUTO_MIGRATE"`
	LogLevel        string                  `mapstructure:"LOG_LEVEL"`
	Port            int                     `mapstructure:"PORT"`
	TokenSecret     string                  `mapstructure:"TOKEN_SECRET"`
	TokenValidity   time.Duration           `mapstructure:"TOKEN_VALIDITY"`
	BcryptCost      int                     `mapstructure:"BCRYPT_COST"`
	ProtectedPath   string                  `mapstructure:"PROTECTED_PATH"`
	OIDCProviders   map[string]OIDCProvider `mapstructure:"OIDC_PROVIDERS"`
}

type OIDCProvider struct {
	Issuer       string `mapstructure:"issuer"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// LoadConfig reads configuration from the environment once at startup. The
// token secret is never reloaded or rotated mid-process.
func LoadConfig() (*Config, error) {
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("DB_TYPE", "sqlite")
	viper.SetDefault("DSN", "club.db")
	viper.SetDefault("SKIP_AUTO_MIGRATE", false)
	viper.SetDefault("TOKEN_SECRET", "zerock12345678")
	viper.SetDefault("TOKEN_VALIDITY", "168h") // matches the remember-me window
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("PROTECTED_PATH", "/notes")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
