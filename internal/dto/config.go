package dto

import (
	"encoding/base64"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreDriverFirestore = "firestore"
	StoreDriverPostgres  = "postgres"
	StoreDriverMemory    = "memory"
)

// Firebase only accepts session cookies between five minutes and two weeks.
const (
	minSessionTTL = 5 * time.Minute
	maxSessionTTL = 14 * 24 * time.Hour
)

type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	FirebaseKey    string `envconfig:"FIREBASE_KEY"`
	FirebaseAPIKey string `envconfig:"FIREBASE_API_KEY"`
	StorageBucket  string `envconfig:"STORAGE_BUCKET"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"firestore"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	RabbitMQURL string `envconfig:"RABBITMQ_URL"`

	SeedOnStart   bool          `envconfig:"SEED_ON_START" default:"false"`
	SeedOwnerID   string        `envconfig:"SEED_OWNER_ID" default:"user1"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"120h"`
	SecureCookies bool          `envconfig:"SECURE_COOKIES" default:"true"`

	AuthRateLimit float64 `envconfig:"AUTH_RATE_LIMIT" default:"1"`
	AuthRateBurst int     `envconfig:"AUTH_RATE_BURST" default:"5"`
	// TrustedProxies lists the CIDRs whose X-Forwarded-For header is believed. When empty the peer
	// address of the connection is the client IP.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

// LoadConfig reads an optional .env file and decodes the environment into a Config.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverFirestore, StoreDriverMemory:
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the %s store", ErrInvalidArgument, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrInvalidArgument, c.StoreDriver)
	}

	if c.SessionTTL < minSessionTTL || c.SessionTTL > maxSessionTTL {
		return fmt.Errorf("%w: SESSION_TTL must be between %s and %s", ErrInvalidArgument, minSessionTTL, maxSessionTTL)
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		return fmt.Errorf("%w: AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive", ErrInvalidArgument)
	}
	if _, err := c.TrustedProxyRanges(); err != nil {
		return err
	}
	return nil
}

func (c Config) TrustedProxyRanges() ([]*net.IPNet, error) {
	ranges := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, cidr := range c.TrustedProxies {
		_, ipNet, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			return nil, fmt.Errorf("%w: TRUSTED_PROXIES: %v", ErrInvalidArgument, err)
		}
		ranges = append(ranges, ipNet)
	}
	return ranges, nil
}

// DecodeFirebaseKey returns the service account JSON carried base64-encoded in FIREBASE_KEY.
func (c Config) DecodeFirebaseKey() ([]byte, error) {
	if c.FirebaseKey == "" {
		return nil, fmt.Errorf("%w: FIREBASE_KEY is not set", ErrInvalidArgument)
	}
	key, err := base64.StdEncoding.DecodeString(c.FirebaseKey)
	if err != nil {
		return nil, fmt.Errorf("%w: FIREBASE_KEY is not valid base64: %v", ErrInvalidArgument, err)
	}
	return key, nil
}
