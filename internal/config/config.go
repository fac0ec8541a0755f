package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFile = "data/config.yaml"
	envFile     = ".env"
)

const (
	defaultPort           = 5000
	defaultDriver         = "postgres"
	defaultServiceName    = "finances-bots"
	defaultBcryptCost     = 10
	defaultMessageTimeout = 10 * time.Second
	defaultCacheTTL       = 10 * time.Minute
)

type config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Storage   StorageConfig   `yaml:"storage"`
	Memcached MemcachedConfig `yaml:"memcached"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Auth      AuthConfig      `yaml:"auth"`
	App       AppConfig       `yaml:"app"`
}

type Service struct {
	config config
}

// New reads the YAML file at path when it exists and then applies the
// environment, which always wins. Variables from a local .env are loaded first.
func New(path string) (*Service, error) {
	s := &Service{config: defaults()}

	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "loading .env")
	}

	rawYAML, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err = yaml.Unmarshal(rawYAML, &s.config); err != nil {
			return nil, errors.Wrap(err, "parsing yaml")
		}
	case !os.IsNotExist(err):
		return nil, errors.Wrap(err, "reading config file")
	}

	if err = s.config.applyEnv(); err != nil {
		return nil, err
	}
	return s, nil
}

func defaults() config {
	return config{
		Webhook:   WebhookConfig{ListenPort: defaultPort},
		Storage:   StorageConfig{DriverName: defaultDriver},
		Memcached: MemcachedConfig{CacheTTL: defaultCacheTTL},
		Tracing:   TracingConfig{Service: defaultServiceName},
		Auth:      AuthConfig{Cost: defaultBcryptCost},
		App:       AppConfig{Timeout: defaultMessageTimeout},
	}
}

func (c *config) applyEnv() error {
	setString(&c.Telegram.Financial.APIToken, "FINANCIAL_TOKEN")
	setString(&c.Telegram.Report.APIToken, "REPORT_TOKEN")
	setString(&c.Webhook.URL, "RENDER_URL")
	setString(&c.Webhook.URL, "PUBLIC_URL")
	setString(&c.Storage.DriverName, "STORAGE_DRIVER")
	setString(&c.Storage.ConnString, "DATABASE_URL")

	if v, ok := lookup("MEMCACHED_HOSTS"); ok {
		c.Memcached.NodeHosts = splitList(v)
	}
	if v, ok := lookup("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "parsing PORT")
		}
		c.Webhook.ListenPort = port
	}
	if v, ok := lookup("TRACING_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "parsing TRACING_ENABLED")
		}
		c.Tracing.On = enabled
	}
	if v, ok := lookup("BCRYPT_COST"); ok {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "parsing BCRYPT_COST")
		}
		c.Auth.Cost = cost
	}
	if v, ok := lookup("MESSAGE_TIMEOUT"); ok {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "parsing MESSAGE_TIMEOUT")
		}
		c.App.Timeout = timeout
	}
	return nil
}

// Validate checks what serving needs. Migrations only need the storage section.
func (s *Service) Validate() error {
	if s.config.Telegram.Financial.Token() == "" {
		return errors.New("financial bot token is not set")
	}
	if s.config.Telegram.Report.Token() == "" {
		return errors.New("report bot token is not set")
	}
	return s.config.Storage.validate()
}

func (s *Service) Telegram() *TelegramConfig {
	return &s.config.Telegram
}

func (s *Service) Webhook() *WebhookConfig {
	return &s.config.Webhook
}

func (s *Service) Storage() *StorageConfig {
	return &s.config.Storage
}

func (s *Service) Memcached() *MemcachedConfig {
	return &s.config.Memcached
}

func (s *Service) Tracing() *TracingConfig {
	return &s.config.Tracing
}

func (s *Service) Auth() *AuthConfig {
	return &s.config.Auth
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func splitList(v string) []string {
	res := make([]string, 0)
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}
