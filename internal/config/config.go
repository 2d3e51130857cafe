// Package config loads the process-wide configuration for the identity
// service. All values are read once at startup; the resulting struct is
// treated as immutable and handed to service constructors explicitly.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	JWT      JWTConfig      `yaml:"jwt"`
	Security SecurityConfig `yaml:"security"`
	Features FeaturesConfig `yaml:"features"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type DatabaseConfig struct {
	Host           string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User           string `yaml:"user" env:"DB_USER" env-default:"identity"`
	Password       string `yaml:"password" env:"DB_PASSWORD"`
	DBName         string `yaml:"dbname" env:"DB_NAME" env-default:"identity"`
	SSLMode        string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	AutoMigrate    bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
	MigrationsPath string `yaml:"migrations_path" env:"DB_MIGRATIONS_PATH" env-default:"migrations"`

	// RetentionInterval is how often expired OTP codes and refresh tokens
	// are purged. Zero disables the purge.
	RetentionInterval time.Duration `yaml:"retention_interval" env:"DB_RETENTION_INTERVAL" env-default:"1h"`
}

// DSN returns the connection string in URL form, usable both by pgxpool and
// by golang-migrate.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type KafkaConfig struct {
	Brokers           []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	NotificationTopic string   `yaml:"notification_topic" env:"KAFKA_NOTIFICATION_TOPIC" env-default:"identity.notifications"`
	EventSource       string   `yaml:"event_source" env:"KAFKA_EVENT_SOURCE" env-default:"/identity-service"`
}

type JWTConfig struct {
	Issuer                 string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"identity-service"`
	Audience               string        `yaml:"audience" env:"JWT_AUDIENCE" env-default:"edututor"`
	AccessTokenTTL         time.Duration `yaml:"access_token_ttl" env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL        time.Duration `yaml:"refresh_token_ttl" env:"JWT_REFRESH_TOKEN_TTL" env-default:"720h"`
	ResetLinkTTL           time.Duration `yaml:"reset_link_ttl" env:"JWT_RESET_LINK_TTL" env-default:"24h"`
	RSAPrivateKeyPEM       string        `yaml:"rsa_private_key_pem" env:"JWT_RSA_PRIVATE_KEY_PEM"`
	RSAPublicKeyPEM        string        `yaml:"rsa_public_key_pem" env:"JWT_RSA_PUBLIC_KEY_PEM"`
	JWKSKeyID              string        `yaml:"jwks_key_id" env:"JWT_JWKS_KEY_ID" env-default:"identity-key-1"`
	RefreshTokenByteLength int           `yaml:"refresh_token_byte_length" env:"JWT_REFRESH_TOKEN_BYTE_LENGTH" env-default:"32"`
}

type PasswordHashConfig struct {
	Memory      uint32 `yaml:"memory" env:"PASSWORD_HASH_MEMORY" env-default:"65536"`
	Iterations  uint32 `yaml:"iterations" env:"PASSWORD_HASH_ITERATIONS" env-default:"3"`
	Parallelism uint8  `yaml:"parallelism" env:"PASSWORD_HASH_PARALLELISM" env-default:"2"`
	SaltLength  uint32 `yaml:"salt_length" env:"PASSWORD_HASH_SALT_LENGTH" env-default:"16"`
	KeyLength   uint32 `yaml:"key_length" env:"PASSWORD_HASH_KEY_LENGTH" env-default:"32"`
}

type SecurityConfig struct {
	PasswordHash      PasswordHashConfig `yaml:"password_hash"`
	MinPasswordLength int                `yaml:"min_password_length" env:"MIN_PASSWORD_LENGTH" env-default:"8"`
}

// FeaturesConfig gates whole flows at the orchestration layer. It mirrors the
// platform's AUTH_FEATURES surface and is read-only for the lifetime of the
// process.
type FeaturesConfig struct {
	AuthMethod          string        `yaml:"auth_method" env:"AUTH_METHOD" env-default:"JWT"`
	EnablePasswordReset bool          `yaml:"enable_password_reset" env:"ENABLE_PASSWORD_RESET" env-default:"true"`
	EnableProfileEdit   bool          `yaml:"enable_profile_edit" env:"ENABLE_PROFILE_EDIT" env-default:"true"`
	OTPExpiry           time.Duration `yaml:"otp_expiry" env:"OTP_EXPIRY" env-default:"10m"`
	OTPLength           int           `yaml:"otp_length" env:"OTP_LENGTH" env-default:"4"`
	OTPResendCooldown   time.Duration `yaml:"otp_resend_cooldown" env:"OTP_RESEND_COOLDOWN" env-default:"60s"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	// Missing .env is fine; environment variables alone are enough.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Features.OTPLength < 4 || c.Features.OTPLength > 10 {
		return fmt.Errorf("otp length %d out of range [4,10]", c.Features.OTPLength)
	}
	if c.Features.OTPExpiry <= 0 {
		return fmt.Errorf("otp expiry must be positive")
	}
	if c.JWT.AccessTokenTTL <= 0 || c.JWT.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	return nil
}
