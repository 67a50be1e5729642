package config

import (
	"os"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Namespace prefixes every environment variable, e.g. ROSTER_DB_HOST.
const Namespace = "ROSTER"

type Config struct {
	Web struct {
		Port            string        `conf:"default:0.0.0.0:8080" yaml:"port"`
		ReadTimeout     time.Duration `conf:"default:10s" yaml:"read_timeout"`
		WriteTimeout    time.Duration `conf:"default:60s" yaml:"write_timeout"`
		ShutdownTimeout time.Duration `conf:"default:20s" yaml:"shutdown_timeout"`
		AllowedOrigins  []string      `conf:"default:http://localhost:3000" yaml:"allowed_origins"`
	} `yaml:"web"`
	DB struct {
		Username   string `conf:"default:postgres" yaml:"db_username"`
		Password   string `conf:"default:postgres,noprint" yaml:"db_password"`
		Host       string `conf:"default:localhost:5432" yaml:"db_host"`
		Name       string `conf:"default:roster" yaml:"db_name"`
		DisableTLS bool   `conf:"default:true" yaml:"disable_tls"`
		Debug      bool   `conf:"default:false" yaml:"debug"`
	} `yaml:"db"`
	Redis struct {
		Addr     string        `conf:"default:localhost:6379" yaml:"addr"`
		Password string        `conf:"noprint" yaml:"password"`
		DB       int           `conf:"default:0" yaml:"db"`
		FlashTTL time.Duration `conf:"default:5m" yaml:"flash_ttl"`
	} `yaml:"redis"`
	Auth struct {
		JWTKey   string        `conf:"default:change-me,noprint" yaml:"jwt_key"`
		TokenTTL time.Duration `conf:"default:12h" yaml:"token_ttl"`
	} `yaml:"auth"`
	Upload struct {
		BaseDir string `conf:"default:statics" yaml:"base_dir"`
	} `yaml:"upload"`
	ConfigFile string    `conf:"default:config.yaml" yaml:"-"`
	Debug      bool      `conf:"default:false" yaml:"debug"`
	Args       conf.Args `yaml:"-"`
}

// NewConfig parses defaults, environment and flags, then overlays the keys
// present in the yaml config file when it exists.
func NewConfig(args []string) (*Config, error) {
	var c Config

	if err := conf.Parse(args, Namespace, &c); err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(c.ConfigFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(yamlFile, &c); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", c.ConfigFile)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "reading %s", c.ConfigFile)
	}

	if c.DB.Username == "" || c.DB.Host == "" || c.DB.Name == "" {
		return nil, errors.New("missing required database configuration")
	}

	return &c, nil
}

// Usage renders the help text for the configuration.
func Usage(c *Config) (string, error) {
	return conf.Usage(Namespace, c)
}
