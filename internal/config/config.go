package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Session    Session   `yaml:"session"`
	Redis      Redis     `yaml:"redis"`
	WebSocket  WebSocket `yaml:"websocket"`
	Telemetry  Telemetry `yaml:"telemetry"`
}

type Session struct {
	CookieName string        `yaml:"cookie-name" env:"SESSION_COOKIE_NAME" env-default:"user_session"`
	TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
}

const (
	RedisModeEmbedded = "embedded"
	RedisModeExternal = "external"
)

// Redis - in embedded mode the store runs inside the process and dies with it.
type Redis struct {
	Mode     string `yaml:"mode" env:"REDIS_MODE" env-default:"embedded"`
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type WebSocket struct {
	OriginPatterns []string `yaml:"origin-patterns" env:"WS_ORIGIN_PATTERNS" env-default:"localhost:*,127.0.0.1:*"`
}

type Telemetry struct {
	Enabled     bool   `yaml:"enabled" env:"TELEMETRY_ENABLED" env-default:"false"`
	Endpoint    string `yaml:"endpoint" env:"TELEMETRY_ENDPOINT" env-default:"localhost:4318"`
	Insecure    bool   `yaml:"insecure" env:"TELEMETRY_INSECURE"`
	ServiceName string `yaml:"service-name" env:"TELEMETRY_SERVICE_NAME" env-default:"tictactoe"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// Default - configuration built from env-default tags and the environment only.
// Telemetry.Insecure starts as true to match config.yml, TELEMETRY_INSECURE overrides it.
func Default() (*Config, error) {
	config := &Config{
		Telemetry: Telemetry{Insecure: true},
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to read config from environment: %w", err)
	}

	return config, nil
}

func (that *Redis) IsEmbedded() bool {
	return that.Mode != RedisModeExternal
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
