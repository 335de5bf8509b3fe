package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverKafka    = "kafka"
	DriverRabbitMQ = "rabbitmq"
)

type Kafka struct {
	Brokers    []string
	Group      string
	Partitions int
}

type RabbitMQ struct {
	URL string
}

type Bus struct {
	Driver  string
	Channel string
}

type Postgres struct {
	Host     string
	Port     string
	DB       string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type Config struct {
	Env              string
	HTTPAddr         string
	LogLevel         string
	BootstrapTimeout time.Duration
	ShutdownTimeout  time.Duration

	Pg       Postgres
	Bus      Bus
	Kafka    Kafka
	RabbitMQ RabbitMQ
}

// Load reads env/.env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load("env/.env")
	return load()
}

func load() (Config, error) {
	p := &parser{}

	cfg := Config{
		Env:              strings.ToLower(envDefault("APP_ENV", "prod")),
		HTTPAddr:         envDefault("HTTP_ADDR", ":8081"),
		LogLevel:         envDefault("LOG_LEVEL", "info"),
		BootstrapTimeout: p.duration("BOOTSTRAP_TIMEOUT", 30*time.Second),
		ShutdownTimeout:  p.duration("SHUTDOWN_TIMEOUT", 5*time.Second),

		Pg: Postgres{
			Host:     strings.TrimSpace(os.Getenv("PG_HOST")),
			Port:     envDefault("PG_PORT", "5432"),
			DB:       strings.TrimSpace(os.Getenv("PG_DB")),
			User:     strings.TrimSpace(os.Getenv("PG_USER")),
			Password: strings.TrimSpace(os.Getenv("PG_PASSWORD")),
			SSLMode:  envDefault("PG_SSLMODE", "disable"),
			MaxConns: int32(p.int("PG_MAX_CONNS", 4)),
		},

		Bus: Bus{
			Driver:  strings.ToLower(envDefault("BUS_DRIVER", DriverKafka)),
			Channel: envDefault("BUS_CHANNEL", "orders"),
		},

		Kafka: Kafka{
			Brokers:    splitCSV(strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))),
			Group:      strings.TrimSpace(os.Getenv("KAFKA_GROUP")),
			Partitions: p.int("KAFKA_PARTITIONS", 1),
		},

		RabbitMQ: RabbitMQ{
			URL: strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		},
	}

	if len(p.errs) > 0 {
		return Config{}, &invalidEnvError{Errs: p.errs}
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	req := []struct{ key, val string }{
		{"PG_HOST", c.Pg.Host},
		{"PG_DB", c.Pg.DB},
		{"PG_USER", c.Pg.User},
		{"PG_PASSWORD", c.Pg.Password},
	}
	switch c.Bus.Driver {
	case DriverKafka:
		req = append(req, struct{ key, val string }{"KAFKA_BROKERS", strings.Join(c.Kafka.Brokers, ",")})
	case DriverRabbitMQ:
		req = append(req, struct{ key, val string }{"RABBITMQ_URL", c.RabbitMQ.URL})
	default:
		return fmt.Errorf("unsupported BUS_DRIVER %q (want %q or %q)", c.Bus.Driver, DriverKafka, DriverRabbitMQ)
	}
	for _, r := range req {
		if strings.TrimSpace(r.val) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &missingEnvError{Keys: missing}
	}

	if c.Pg.MaxConns < 1 {
		return fmt.Errorf("PG_MAX_CONNS must be positive, got %d", c.Pg.MaxConns)
	}
	if c.Kafka.Partitions < 1 {
		return fmt.Errorf("KAFKA_PARTITIONS must be positive, got %d", c.Kafka.Partitions)
	}
	if _, _, err := net.SplitHostPort(c.HTTPAddr); err != nil {
		return fmt.Errorf("HTTP_ADDR %q: %w", c.HTTPAddr, err)
	}
	return nil
}

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}

type invalidEnvError struct{ Errs []string }

func (e *invalidEnvError) Error() string {
	return "invalid envs: " + strings.Join(e.Errs, "; ")
}

// DSN builds a proper Postgres URL, safely escaping user/pass and query.
func (c Config) DSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Pg.User, c.Pg.Password),
		Host:   net.JoinHostPort(c.Pg.Host, c.Pg.Port),
		Path:   "/" + c.Pg.DB,
	}
	q := url.Values{}
	if c.Pg.SSLMode != "" {
		q.Set("sslmode", c.Pg.SSLMode)
	}
	q.Set("pool_max_conns", strconv.Itoa(int(c.Pg.MaxConns)))
	u.RawQuery = q.Encode()
	return u.String()
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// parser collects malformed values instead of silently falling back,
// since a malformed config must abort startup.
type parser struct {
	errs []string
}

func (p *parser) int(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s=%q: %v", k, v, err))
		return def
	}
	return n
}

// duration supports either plain integer milliseconds ("1500") or
// Go duration strings ("1.5s", "250ms", "2m").
func (p *parser) duration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.errs = append(p.errs, fmt.Sprintf("%s=%q: %v", k, v, err))
			return def
		}
		return d
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s=%q: %v", k, v, err))
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
