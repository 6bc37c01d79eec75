package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// WebhookConfig holds the inbound order-completed endpoint configuration.
type WebhookConfig struct {
	Path  string `mapstructure:"path"`
	Token string `mapstructure:"token"`
}

// DeliveryConfig holds the outbound fiscal-proxy configuration.
type DeliveryConfig struct {
	// Mode selects the delivery path: "http" posts the document directly,
	// "rpc" goes through the host platform's remote-call mechanism.
	Mode    string        `mapstructure:"mode"`
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`

	RPCEndpoint  string `mapstructure:"rpc_endpoint"`
	RPCNamespace string `mapstructure:"rpc_namespace"`
	RPCMethod    string `mapstructure:"rpc_method"`

	// PaymentCondition is the payment.condition marker stamped on every
	// document ("01" fiscal cash condition, or the legacy "POS" label).
	PaymentCondition string `mapstructure:"payment_condition"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from the YAML file, a local .env and environment
// variables (CLOCKY_ prefix, dots replaced by underscores).
func Load(configPath string) (*Config, error) {
	_ = gotenv.Load()

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("CLOCKY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("webhook.path", "/webhooks/pos/order-completed")

	viper.SetDefault("delivery.mode", "http")
	viper.SetDefault("delivery.timeout", 30*time.Second)
	viper.SetDefault("delivery.rpc_namespace", "clocky.pos.integration")
	viper.SetDefault("delivery.rpc_method", "clocky_pos_post_to_fe")
	viper.SetDefault("delivery.payment_condition", "01")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "console")
}

// Validate checks configuration consistency. A missing delivery URL is not
// fatal here: the delivery client reports it per call, mirroring how the
// platform parameter behaves.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Delivery.Mode {
	case "http", "rpc":
	default:
		return fmt.Errorf("delivery.mode must be http or rpc, got %q", c.Delivery.Mode)
	}
	if c.Delivery.Mode == "rpc" && c.Delivery.RPCNamespace == "" {
		return fmt.Errorf("delivery.rpc_namespace is required in rpc mode")
	}
	if c.Delivery.Mode == "rpc" && c.Delivery.RPCMethod == "" {
		return fmt.Errorf("delivery.rpc_method is required in rpc mode")
	}
	if !strings.HasPrefix(c.Webhook.Path, "/") {
		return fmt.Errorf("webhook.path must start with /, got %q", c.Webhook.Path)
	}
	return nil
}
