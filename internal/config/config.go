package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level"   env:"LOG_LEVEL"   env-default:"info"`
	LogFile    string    `yaml:"log-file"    env:"LOG_FILE"`
	HTTPPort   string    `yaml:"http-port"   env:"PORT"        env-default:"9090"`
	SocketPort string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	StaticDir  string    `yaml:"static-dir"  env:"STATIC_DIR"`
	Redis      Redis     `yaml:"redis"`
	NATS       NATS      `yaml:"nats"`
	Relay      Relay     `yaml:"relay"`
	WebSocket  WebSocket `yaml:"websocket"`
}

type Redis struct {
	Enabled     bool   `yaml:"enabled"      env:"REDIS_ENABLED"      env-default:"false"`
	Host        string `yaml:"host"         env:"REDIS_HOST"         env-default:"localhost"`
	Port        string `yaml:"port"         env:"REDIS_PORT"         env-default:"6379"`
	Channel     string `yaml:"channel"      env:"REDIS_CHANNEL"      env-default:"tictactoe:events"`
	SnapshotKey string `yaml:"snapshot-key" env:"REDIS_SNAPSHOT_KEY" env-default:"tictactoe:session"`
}

type NATS struct {
	Enabled bool   `yaml:"enabled" env:"NATS_ENABLED" env-default:"false"`
	URL     string `yaml:"url"     env:"NATS_URL"     env-default:"nats://localhost:4222"`
	Subject string `yaml:"subject" env:"NATS_SUBJECT" env-default:"tictactoe.events"`
}

type Relay struct {
	Buffer int `yaml:"buffer" env:"RELAY_BUFFER" env-default:"256"`
}

type WebSocket struct {
	SendBuffer     int   `yaml:"send-buffer"      env:"WS_SEND_BUFFER"      env-default:"64"`
	MaxMessageSize int64 `yaml:"max-message-size" env:"WS_MAX_MESSAGE_SIZE" env-default:"512"`
}

// MustLoad - load all configurations from the yml file, or from the environment when the file is absent.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
