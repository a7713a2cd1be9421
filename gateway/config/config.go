package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/bandcoord/pkg/kafka"
	"github.com/Astemirdum/bandcoord/pkg/logger"

	"github.com/kelseyhightower/envconfig"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"GATEWAY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"GATEWAY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"15s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

// Backend is the REST API every page talks to.
type Backend struct {
	BaseURL string `envconfig:"BACKEND_BASE_URL"`
	// Timeout of zero means requests never time out.
	Timeout time.Duration `envconfig:"BACKEND_TIMEOUT"`
	// Token is sent when the incoming request carries none.
	Token string `envconfig:"BACKEND_TOKEN" json:"-"`
}

type I18n struct {
	DefaultLang string `envconfig:"I18N_DEFAULT_LANG" default:"es"`
}

type Events struct {
	SweepOnLoad bool `envconfig:"EVENTS_SWEEP_ON_LOAD" default:"true"`
}

type Config struct {
	Server  HTTPServer `yaml:"server"`
	Backend Backend
	Kafka   kafka.Config
	I18n    I18n
	Events  Events
	Log     logger.Log `yaml:"log"`
}

const DefaultBackendURL = "http://localhost:8000/api"

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment, then applies ops.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		var config Config
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		// options come from flags and win over the environment
		for _, op := range ops {
			op(&config)
		}
		if config.Backend.BaseURL == "" {
			config.Backend.BaseURL = DefaultBackendURL
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
