package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	enrollment "github.com/goliatone/go-enrollment"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the variable holding the config file path
const EnvConfigPath = "ENROLLMENT_CONFIG"

// DefaultPath is used when neither a flag nor EnvConfigPath is set
const DefaultPath = "config.yaml"

// Config is the service configuration
type Config struct {
	Server       ServerConfig       `yaml:"server" toml:"server"`
	Auth         AuthConfig         `yaml:"auth" toml:"auth"`
	Database     DatabaseConfig     `yaml:"database" toml:"database"`
	Logging      LoggingConfig      `yaml:"logging" toml:"logging"`
	Registration RegistrationConfig `yaml:"registration" toml:"registration"`
}

// ServerConfig holds the HTTP listener options
type ServerConfig struct {
	Address      string        `yaml:"address" toml:"address"`
	ReadTimeout  time.Duration `yaml:"-" toml:"-"`
	WriteTimeout time.Duration `yaml:"-" toml:"-"`
	BodyLimit    int           `yaml:"body_limit" toml:"body_limit"`

	ReadTimeoutRaw  string `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeoutRaw string `yaml:"write_timeout" toml:"write_timeout"`
}

// AuthConfig holds the session token and password hashing options
type AuthConfig struct {
	SigningKey      string        `yaml:"signing_key" toml:"signing_key"`
	TokenExpiration time.Duration `yaml:"-" toml:"-"`
	Issuer          string        `yaml:"issuer" toml:"issuer"`
	BcryptCost      int           `yaml:"bcrypt_cost" toml:"bcrypt_cost"`
	ContextKey      string        `yaml:"context_key" toml:"context_key"`
	TokenLookup     string        `yaml:"token_lookup" toml:"token_lookup"`
	AuthScheme      string        `yaml:"auth_scheme" toml:"auth_scheme"`

	TokenExpirationRaw string `yaml:"token_expiration" toml:"token_expiration"`
}

// DatabaseConfig selects the store
type DatabaseConfig struct {
	Driver       string        `yaml:"driver" toml:"driver"`
	DSN          string        `yaml:"dsn" toml:"dsn"`
	PingTimeout  time.Duration `yaml:"-" toml:"-"`
	CreateSchema bool          `yaml:"create_schema" toml:"create_schema"`
	Seed         bool          `yaml:"seed" toml:"seed"`
	Debug        bool          `yaml:"debug" toml:"debug"`

	PingTimeoutRaw string `yaml:"ping_timeout" toml:"ping_timeout"`
}

// GetDebug always reports false. Statement logging goes through the
// redacting query hook installed when Debug is set.
func (d DatabaseConfig) GetDebug() bool {
	return false
}

func (d DatabaseConfig) GetDriver() string {
	return d.Driver
}

func (d DatabaseConfig) GetServer() string {
	return d.DSN
}

func (d DatabaseConfig) GetPingTimeout() time.Duration {
	return d.PingTimeout
}

func (d DatabaseConfig) GetOtelIdentifier() string {
	return "enrollment"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// RegistrationConfig holds the numbering and onboarding options
type RegistrationConfig struct {
	Prefix                 string `yaml:"prefix" toml:"prefix"`
	DefaultStudentPassword string `yaml:"default_student_password" toml:"default_student_password"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var _ enrollment.Config = (*Config)(nil)

// Defaults returns a Config with every optional value set
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Address:      ":5000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			BodyLimit:    4 * 1024 * 1024,
		},
		Auth: AuthConfig{
			TokenExpiration: enrollment.DefaultTokenExpiration,
			BcryptCost:      enrollment.DefaultBcryptCost,
			ContextKey:      "user",
			TokenLookup:     "header:Authorization",
			AuthScheme:      "Bearer",
		},
		Database: DatabaseConfig{
			Driver:      DriverPostgres,
			PingTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Registration: RegistrationConfig{
			Prefix:                 enrollment.DefaultRegistrationPrefix,
			DefaultStudentPassword: enrollment.DefaultStudentPassword,
		},
	}
}

// ResolvePath picks the config path from the flag value, the environment
// or the default
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads .env files, then the config file at path. ${VAR} and
// ${VAR:-default} references are expanded before parsing. The format is
// picked from the file extension.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load env file "+f)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "reading config file")
	}

	return Parse(filepath.Ext(path), data)
}

// Parse decodes data in the format named by ext (".yaml", ".yml" or ".toml")
func Parse(ext string, data []byte) (*Config, error) {
	cfg := Defaults()
	expanded := ExpandEnv(string(data))

	switch strings.ToLower(ext) {
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "parsing yaml config")
		}
	case ".toml":
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "parsing toml config")
		}
	default:
		return nil, goerrors.New("unsupported config format "+ext, goerrors.CategoryBadInput)
	}

	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv replaces ${VAR} with the variable value and ${VAR:-default}
// with the default when VAR is unset or empty
func ExpandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := envPattern.FindStringSubmatch(match)
		if v := os.Getenv(parts[1]); v != "" {
			return v
		}
		return parts[2]
	})
}

func (c *Config) parseDurations() error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.read_timeout", c.Server.ReadTimeoutRaw, &c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeoutRaw, &c.Server.WriteTimeout},
		{"auth.token_expiration", c.Auth.TokenExpirationRaw, &c.Auth.TokenExpiration},
		{"database.ping_timeout", c.Database.PingTimeoutRaw, &c.Database.PingTimeout},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "parsing "+f.name).
				WithMetadata(map[string]any{"value": f.raw})
		}
		*f.dst = d
	}
	return nil
}

// Validate checks the options the service cannot start without
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.SigningKey) == "" {
		return invalid("auth.signing_key is required")
	}

	if c.Auth.TokenExpiration <= 0 {
		return invalid("auth.token_expiration must be positive")
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return invalid("auth.bcrypt_cost must be between 4 and 31")
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return invalid("database.driver must be postgres or sqlite")
	}

	if c.Database.DSN == "" {
		return invalid("database.dsn is required")
	}

	return nil
}

func invalid(message string) error {
	return goerrors.New(message, goerrors.CategoryValidation)
}

func (c *Config) GetSigningKey() string {
	return c.Auth.SigningKey
}

func (c *Config) GetTokenExpiration() time.Duration {
	return c.Auth.TokenExpiration
}

func (c *Config) GetIssuer() string {
	return c.Auth.Issuer
}

func (c *Config) GetBcryptCost() int {
	return c.Auth.BcryptCost
}

func (c *Config) GetRegistrationPrefix() string {
	return c.Registration.Prefix
}

func (c *Config) GetDefaultStudentPassword() string {
	return c.Registration.DefaultStudentPassword
}
