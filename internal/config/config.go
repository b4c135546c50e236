package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Log      LogConfig
	Auth     AuthConfig
	Order    OrderConfig
	Kafka    KafkaConfig
	Console  ConsoleConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type StoreConfig struct {
	Driver       string
	FixturesPath string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type AuthConfig struct {
	SessionTTL time.Duration
	// StaffPasscodeHash is the bcrypt hash checked by the order status gate.
	StaffPasscodeHash string
	BcryptCost        int
}

type OrderConfig struct {
	PlaceTxTimeout   time.Duration
	MaxRetryAttempts int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type ConsoleConfig struct {
	BackendURL      string
	RequestTimeout  time.Duration
	SaveNoticeTTL   time.Duration
	ErrorNoticeTTL  time.Duration
	GateMaxAttempts int
	GateLockout     time.Duration
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "30s")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	viper.SetDefault("STORE_DRIVER", StoreMemory)
	viper.SetDefault("FIXTURES_PATH", "internal/config/fixtures.yaml")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "travelbook")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "travelbook")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SESSION_TTL", "12h")
	viper.SetDefault("STAFF_PASSCODE_HASH", "")
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("ORDER_PLACE_TX_TIMEOUT", "5s")
	viper.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "travelbook.order-events")
	viper.SetDefault("BACKEND_URL", "http://localhost:8080/api")
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("NOTICE_SAVE_TTL", "2s")
	viper.SetDefault("NOTICE_ERROR_TTL", "3s")
	viper.SetDefault("GATE_MAX_ATTEMPTS", 5)
	viper.SetDefault("GATE_LOCKOUT", "1m")

	var (
		readTimeout     time.Duration
		writeTimeout    time.Duration
		idleTimeout     time.Duration
		shutdownTimeout time.Duration
		connMaxLifetime time.Duration
		sessionTTL      time.Duration
		requestTimeout  time.Duration
		saveNoticeTTL   time.Duration
		errorNoticeTTL  time.Duration
		gateLockout     time.Duration
		placeTxTimeout  time.Duration
	)
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &readTimeout},
		{"SERVER_WRITE_TIMEOUT", &writeTimeout},
		{"SERVER_IDLE_TIMEOUT", &idleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &shutdownTimeout},
		{"DB_CONN_MAX_LIFETIME", &connMaxLifetime},
		{"SESSION_TTL", &sessionTTL},
		{"REQUEST_TIMEOUT", &requestTimeout},
		{"NOTICE_SAVE_TTL", &saveNoticeTTL},
		{"NOTICE_ERROR_TTL", &errorNoticeTTL},
		{"GATE_LOCKOUT", &gateLockout},
		{"ORDER_PLACE_TX_TIMEOUT", &placeTxTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(viper.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", d.key, err)
		}
		*d.dst = v
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetInt("SERVER_PORT"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			IdleTimeout:     idleTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Store: StoreConfig{
			Driver:       viper.GetString("STORE_DRIVER"),
			FixturesPath: viper.GetString("FIXTURES_PATH"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Auth: AuthConfig{
			SessionTTL:        sessionTTL,
			StaffPasscodeHash: viper.GetString("STAFF_PASSCODE_HASH"),
			BcryptCost:        viper.GetInt("BCRYPT_COST"),
		},
		Order: OrderConfig{
			PlaceTxTimeout:   placeTxTimeout,
			MaxRetryAttempts: viper.GetInt("ORDER_MAX_RETRY_ATTEMPTS"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Console: ConsoleConfig{
			BackendURL:      viper.GetString("BACKEND_URL"),
			RequestTimeout:  requestTimeout,
			SaveNoticeTTL:   saveNoticeTTL,
			ErrorNoticeTTL:  errorNoticeTTL,
			GateMaxAttempts: viper.GetInt("GATE_MAX_ATTEMPTS"),
			GateLockout:     gateLockout,
		},
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
