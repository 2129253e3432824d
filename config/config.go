package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/nbd-wtf/go-nostr"
	"github.com/sirupsen/logrus"

	"github.com/ostromhub/venue-token-service/internal/models"
)

func New() (*Config, error) {
	var Config Config
	if os.Getenv("GO_ENV") == "local" {
		_ = godotenv.Load(".env")
	}

	if err := env.Parse(&Config); err != nil {
		logrus.Fatalf("Error initializing: %s", err.Error())
		os.Exit(1)
	}

	if err := Config.normalize(); err != nil {
		return nil, err
	}
	return &Config, nil
}

type Config struct {
	APP
	DB
	Relay
	Chain
	Dedup
	Kafka

	// derived from Relay.PrivateKey
	serverPubkey string
}

type APP struct {
	PORT string `env:"APP_PORT" envDefault:"8090"`
}

type DB struct {
	HOST     string `env:"DB_HOST"`
	USER     string `env:"DB_USER"`
	PASSWORD string `env:"DB_PASSWORD"`
	NAME     string `env:"DB_NAME"`
	PORT     string `env:"DB_PORT"`
	SSLMODE  string `env:"DB_SSLMODE"`
}

type Relay struct {
	URLs           string        `env:"RELAY_URLS" envDefault:"wss://relay.damus.io"`
	PrivateKey     string        `env:"NOSTR_PRIVATE_KEY"`
	Lookback       time.Duration `env:"RELAY_LOOKBACK" envDefault:"1h"`
	ConnectTimeout time.Duration `env:"RELAY_CONNECT_TIMEOUT" envDefault:"10s"`
	PublishTimeout time.Duration `env:"RELAY_PUBLISH_TIMEOUT" envDefault:"7s"`
	AuthGrace      time.Duration `env:"RELAY_AUTH_GRACE" envDefault:"500ms"`
	ReconnectDelay time.Duration `env:"RELAY_RECONNECT_DELAY" envDefault:"5s"`
	BackoffBase    time.Duration `env:"RELAY_BACKOFF_BASE" envDefault:"5s"`
	BackoffRLBase  time.Duration `env:"RELAY_BACKOFF_RATELIMIT_BASE" envDefault:"1m"`
	BackoffMax     time.Duration `env:"RELAY_BACKOFF_MAX" envDefault:"10m"`
}

type Chain struct {
	BridgeURL     string        `env:"TOKEN_BRIDGE_URL" envDefault:"http://localhost:8545/bridge"`
	ChainID       string        `env:"TOKEN_CHAIN_ID" envDefault:"100"`
	TokenAddress  string        `env:"TOKEN_ADDRESS"`
	Symbol        string        `env:"TOKEN_SYMBOL" envDefault:"OSTROM"`
	BridgeTimeout time.Duration `env:"TOKEN_BRIDGE_TIMEOUT" envDefault:"0"`
}

type Dedup struct {
	Dir        string `env:"STATE_DIR" envDefault:"./state"`
	MaxEntries int    `env:"STATE_MAX_ENTRIES" envDefault:"5000"`
}

type Kafka struct {
	MirrorEnabled bool   `env:"KAFKA_MIRROR_ENABLED" envDefault:"false"`
	Brokers       string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	ReceiptTopic  string `env:"KAFKA_RECEIPT_TOPIC" envDefault:"venue.receipts.processed"`
	CalendarTopic string `env:"KAFKA_CALENDAR_TOPIC" envDefault:"venue.calendar.updates"`

	RetryMaxAttempts int           `env:"KAFKA_RETRY_MAX_ATTEMPTS" envDefault:"5"`
	RetryBaseDelay   time.Duration `env:"KAFKA_RETRY_BASE_DELAY" envDefault:"100ms"`
	RetryMaxDelay    time.Duration `env:"KAFKA_RETRY_MAX_DELAY" envDefault:"10s"`
	RetryJitter      bool          `env:"KAFKA_RETRY_JITTER" envDefault:"true"`
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

func (k Kafka) GetRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: k.RetryMaxAttempts,
		BaseDelay:   k.RetryBaseDelay,
		MaxDelay:    k.RetryMaxDelay,
		Jitter:      k.RetryJitter,
	}
}

// RelayURLs splits the configured comma-separated relay list.
func (r Relay) RelayURLs() []string {
	urls := make([]string, 0, 4)
	for _, url := range strings.Split(r.URLs, ",") {
		if url = strings.TrimSpace(url); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

// ServerPubkey is the hex pubkey of the service's signing key; only requests
// signed by it may mint or burn.
func (c *Config) ServerPubkey() string { return c.serverPubkey }

func (c *Config) normalize() error {
	if c.Relay.PrivateKey == "" {
		return fmt.Errorf("NOSTR_PRIVATE_KEY is required")
	}
	key, err := models.NormalizeSecretKey(c.Relay.PrivateKey)
	if err != nil {
		return fmt.Errorf("NOSTR_PRIVATE_KEY: %w", err)
	}
	c.Relay.PrivateKey = key

	pubkey, err := nostr.GetPublicKey(key)
	if err != nil {
		return fmt.Errorf("derive server pubkey: %w", err)
	}
	c.serverPubkey = pubkey

	if len(c.Relay.RelayURLs()) == 0 {
		return fmt.Errorf("RELAY_URLS must list at least one relay")
	}
	if c.Dedup.MaxEntries <= 0 {
		return fmt.Errorf("STATE_MAX_ENTRIES must be positive; the dedup horizon must outlast RELAY_LOOKBACK")
	}
	return nil
}
