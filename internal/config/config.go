package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Addr        string `env:"HTTP_ADDR"         env-default:":8080"`
	ClusterName string `env:"NAIS_CLUSTER_NAME"`
	Env         string

	Log   LogConfig
	Kafka KafkaConfig
	Azure AzureConfig

	OppgaveBaseURL string `env:"OPPGAVE_BASE_URL" env-default:"http://localhost:9098/oppgave-aad"`
	PdlBaseURL     string `env:"PDL_BASE_URL"     env-default:"http://localhost:9098/pdl"`

	ConsumedEventName string `env:"CONSUMED_EVENT_NAME"`
	ProducedEventName string `env:"PRODUCED_EVENT_NAME"`

	// OverforingHentAktoerID turns on the PDL lookup for transferred cases.
	OverforingHentAktoerID bool `env:"OVERFORING_HENT_AKTOERID" env-default:"false"`

	SkipEventIDs []string `env:"SKIP_EVENT_IDS" env-separator:","`
	RedisAddr    string   `env:"REDIS_ADDR"`
	RedisSkipKey string   `env:"REDIS_SKIP_KEY" env-default:"hm-oppgave-sink:skip-event-ids"`

	JwtIssuer   string `env:"JWT_ISSUER"`
	JwtAudience string `env:"JWT_AUDIENCE"`
	JwtSecret   string `env:"JWT_SECRET"`
}

type LogConfig struct {
	Level         string `env:"LOG_LEVEL"       env-default:"info"`
	Format        string `env:"LOG_FORMAT"      env-default:"json"`
	SecureLogPath string `env:"SECURE_LOG_PATH"`
}

type KafkaConfig struct {
	Brokers         []string      `env:"KAFKA_BROKERS"           env-separator:","`
	Topic           string        `env:"KAFKA_RAPID_TOPIC"       env-default:"teamdigihot.hm-soknadsbehandling-v1"`
	ConsumerGroupID string        `env:"KAFKA_CONSUMER_GROUP_ID" env-default:"hm-oppgave-sink-v1"`
	ResetPolicy     string        `env:"KAFKA_RESET_POLICY"      env-default:"latest"`
	CAPath          string        `env:"KAFKA_CA_PATH"`
	CertificatePath string        `env:"KAFKA_CERTIFICATE_PATH"`
	PrivateKeyPath  string        `env:"KAFKA_PRIVATE_KEY_PATH"`
	PublishTimeout  time.Duration `env:"KAFKA_PUBLISH_TIMEOUT"   env-default:"5s"`
}

type AzureConfig struct {
	TenantBaseURL string `env:"AZURE_TENANT_BASEURL"    env-default:"https://login.microsoftonline.com"`
	TenantID      string `env:"AZURE_APP_TENANT_ID"`
	ClientID      string `env:"AZURE_APP_CLIENT_ID"`
	ClientSecret  string `env:"AZURE_APP_CLIENT_SECRET"`
	ProxyScope    string `env:"PROXY_SCOPE"`
}

// TokenURL is the client-credentials endpoint for the configured tenant.
func (a AzureConfig) TokenURL() string {
	return strings.TrimRight(a.TenantBaseURL, "/") + "/" + a.TenantID + "/oauth2/v2.0/token"
}

func Load() (Config, error) {
	// .env is only present when running locally.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	cfg.Env = environment(cfg.ClusterName)

	brokers := cfg.Kafka.Brokers
	cfg.Kafka.Brokers = nil
	for _, broker := range brokers {
		trimmed := strings.TrimSpace(broker)
		if trimmed != "" {
			cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, trimmed)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, fmt.Errorf("missing KAFKA_BROKERS"))
	}
	if c.ConsumedEventName == "" || c.ProducedEventName == "" {
		errs = append(errs, fmt.Errorf("missing CONSUMED_EVENT_NAME or PRODUCED_EVENT_NAME"))
	}
	if c.Env != EnvLocal {
		if c.Azure.TenantID == "" || c.Azure.ClientID == "" || c.Azure.ClientSecret == "" {
			errs = append(errs, fmt.Errorf("missing AZURE_APP_TENANT_ID, AZURE_APP_CLIENT_ID, or AZURE_APP_CLIENT_SECRET"))
		}
		if c.Azure.ProxyScope == "" {
			errs = append(errs, fmt.Errorf("missing PROXY_SCOPE"))
		}
	}
	if c.PurgeEnabled() && c.Env != EnvLocal {
		if c.JwtIssuer == "" || c.JwtAudience == "" || c.JwtSecret == "" {
			errs = append(errs, fmt.Errorf("missing JWT_ISSUER, JWT_AUDIENCE, or JWT_SECRET"))
		}
	}
	switch c.Kafka.ResetPolicy {
	case "earliest", "latest":
	default:
		errs = append(errs, fmt.Errorf("invalid KAFKA_RESET_POLICY %q", c.Kafka.ResetPolicy))
	}
	return errors.Join(errs...)
}

// PurgeEnabled reports whether the destructive admin endpoints may be mounted.
func (c Config) PurgeEnabled() bool {
	return c.Env == EnvDev || c.Env == EnvLocal
}

// TLSEnabled is true when the platform has mounted Kafka credentials.
func (c KafkaConfig) TLSEnabled() bool {
	return c.CAPath != "" && c.CertificatePath != "" && c.PrivateKeyPath != ""
}

func environment(cluster string) string {
	switch {
	case strings.HasPrefix(cluster, "prod-"):
		return EnvProd
	case strings.HasPrefix(cluster, "dev-"):
		return EnvDev
	default:
		return EnvLocal
	}
}
