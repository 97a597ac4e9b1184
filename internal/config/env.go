package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Env struct {
	AppAddr     string        `yaml:"app_addr"`
	AppEnv      string        `yaml:"app_env"`
	GinMode     string        `yaml:"gin_mode"`
	ServiceName string        `yaml:"service_name"`
	ShutdownTTL time.Duration `yaml:"shutdown_timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`

	DBDriver      string `yaml:"db_driver"`
	DBDSN         string `yaml:"db_dsn"`
	DBAutoMigrate bool   `yaml:"db_auto_migrate"`

	JWTSecret string        `yaml:"jwt_secret"`
	JWTTTL    time.Duration `yaml:"jwt_ttl"`
	JWTIssuer string        `yaml:"jwt_issuer"`

	RedisAddr string        `yaml:"redis_addr"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`

	NATSURL      string `yaml:"nats_url"`
	AuditSubject string `yaml:"audit_subject"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	OTLPEndpoint string `yaml:"otlp_endpoint"`
	OTelStdout   bool   `yaml:"otel_stdout"`

	PageSizeDefault int `yaml:"page_size_default"`
	PageSizeMax     int `yaml:"page_size_max"`
}

func defaults() Env {
	return Env{
		AppAddr:       ":8080",
		AppEnv:        "development",
		ServiceName:   "shopadmin",
		ShutdownTTL:   15 * time.Second,
		LogLevel:      "info",
		LogFormat:     "json",
		DBDriver:      "mysql",
		DBDSN:         "root:@tcp(127.0.0.1:3306)/shop_admin?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		DBAutoMigrate: true,
		JWTTTL:        24 * time.Hour,
		JWTIssuer:     "shopadmin",
		CacheTTL:      5 * time.Minute,
		AuditSubject:  "audit.events",
		CORSAllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		PageSizeDefault: 10,
		PageSizeMax:     100,
	}
}

// LoadEnv builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, then environment variables, in that order of precedence.
func LoadEnv() (Env, error) {
	env := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Env{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &env); err != nil {
			return Env{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.applyOverrides(os.LookupEnv); err != nil {
		return Env{}, err
	}
	if err := env.Validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

func (e *Env) applyOverrides(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("APP_ADDR", &e.AppAddr)
	str("APP_ENV", &e.AppEnv)
	str("GIN_MODE", &e.GinMode)
	str("SERVICE_NAME", &e.ServiceName)
	str("LOG_LEVEL", &e.LogLevel)
	str("LOG_FORMAT", &e.LogFormat)
	str("LOG_FILE", &e.LogFile)
	str("DB_DRIVER", &e.DBDriver)
	str("DB_DSN", &e.DBDSN)
	str("JWT_SECRET", &e.JWTSecret)
	str("JWT_ISSUER", &e.JWTIssuer)
	str("REDIS_ADDR", &e.RedisAddr)
	str("NATS_URL", &e.NATSURL)
	str("AUDIT_SUBJECT", &e.AuditSubject)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &e.OTLPEndpoint)

	durations := map[string]*time.Duration{
		"SHUTDOWN_TIMEOUT": &e.ShutdownTTL,
		"JWT_TTL":          &e.JWTTTL,
		"CACHE_TTL":        &e.CacheTTL,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}

	bools := map[string]*bool{
		"DB_AUTO_MIGRATE": &e.DBAutoMigrate,
		"OTEL_STDOUT":     &e.OTelStdout,
	}
	for key, dst := range bools {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	ints := map[string]*int{
		"PAGE_SIZE_DEFAULT": &e.PageSizeDefault,
		"PAGE_SIZE_MAX":     &e.PageSizeMax,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		origins := []string{}
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		e.CORSAllowedOrigins = origins
	}
	return nil
}

func (e Env) IsDevelopment() bool {
	return strings.EqualFold(e.AppEnv, "development") || strings.EqualFold(e.AppEnv, "dev")
}

// Validate rejects settings the process cannot start with.
func (e *Env) Validate() error {
	switch strings.ToLower(e.DBDriver) {
	case "mysql", "sqlite":
		e.DBDriver = strings.ToLower(e.DBDriver)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql or sqlite)", e.DBDriver)
	}
	if e.JWTSecret == "" {
		if !e.IsDevelopment() {
			return fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", e.AppEnv)
		}
		e.JWTSecret = "dev-secret-change-me"
	}
	if e.PageSizeDefault < 1 || e.PageSizeMax < e.PageSizeDefault {
		return fmt.Errorf("invalid page sizes: default=%d max=%d", e.PageSizeDefault, e.PageSizeMax)
	}
	if e.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	return nil
}
