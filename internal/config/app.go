package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type API struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type Converter struct {
	FeeRate              float64 `mapstructure:"fee_rate"`
	MinFiatValue         float64 `mapstructure:"min_fiat_value"`
	MaxFiatValue         float64 `mapstructure:"max_fiat_value"`
	RefreshSeconds       int     `mapstructure:"refresh_seconds"`
	AllowDirectionToggle bool    `mapstructure:"allow_direction_toggle"`
}

type Tracker struct {
	PollSeconds        int `mapstructure:"poll_seconds"`
	ArtifactTTLMinutes int `mapstructure:"artifact_ttl_minutes"`
}

type Pix struct {
	MerchantName   string `mapstructure:"merchant_name"`
	MerchantCity   string `mapstructure:"merchant_city"`
	Key            string `mapstructure:"key"`
	QRImageBaseURL string `mapstructure:"qr_image_base_url"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	API        API        `mapstructure:"api"`
	Logging    Logging    `mapstructure:"logging"`
	Converter  Converter  `mapstructure:"converter"`
	Tracker    Tracker    `mapstructure:"tracker"`
	Pix        Pix        `mapstructure:"pix"`
}

func Init() (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	viper.SetConfigFile("config.yaml")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	viper.SetDefault("http_server.port", "8080")
	viper.SetDefault("api.timeout_seconds", 10)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("converter.fee_rate", 0.02)
	viper.SetDefault("converter.min_fiat_value", 100.00)
	viper.SetDefault("converter.max_fiat_value", 1000.00)
	viper.SetDefault("converter.refresh_seconds", 10)
	viper.SetDefault("converter.allow_direction_toggle", false)
	viper.SetDefault("tracker.poll_seconds", 5)
	// Matches the backend horizon after which pending transactions are
	// cancelled, so an expired artifact is regenerated on the next pending
	// observation.
	viper.SetDefault("tracker.artifact_ttl_minutes", 30)
	viper.SetDefault("pix.qr_image_base_url", "https://gerarqrcodepix.com.br/api/v1")

	// api env vars
	_ = viper.BindEnv("api.base_url", "API_BASE_URL")
	_ = viper.BindEnv("api.timeout_seconds", "API_TIMEOUT_SECONDS")

	// http server env vars
	_ = viper.BindEnv("http_server.port", "HTTP_SERVER_PORT")

	// pix merchant env vars
	_ = viper.BindEnv("pix.merchant_name", "PIX_MERCHANT_NAME")
	_ = viper.BindEnv("pix.merchant_city", "PIX_MERCHANT_CITY")
	_ = viper.BindEnv("pix.key", "PIX_KEY")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}
