package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultEnvFile es el archivo de entorno que se lee si ENV_FILE no está definido.
	DefaultEnvFile = ".env.dev"

	defaultDatabaseName = "hrdesk"
)

// RuntimeConfig es la configuración del servicio. Se construye una sola vez al
// arrancar y se pasa por valor a los componentes que la consumen.
type RuntimeConfig struct {
	DatabaseURL        string `env:"DATABASE_URL,required,notEmpty"`
	SecretKey          string `env:"secret_key,required,notEmpty"`
	SenderEmail        string `env:"sender_email,required,notEmpty"`
	SenderPassword     string `env:"sender_password,required,notEmpty"`
	EmailTemplate      string `env:"email_template,required,notEmpty"`
	AdminEmailTemplate string `env:"admin_email_template,required,notEmpty"`
	LLMAddr            string `env:"LLM_ADDR,required,notEmpty"`

	AppEnv          string        `env:"APP_ENV" envDefault:"development"`
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	DatabaseNameOverride string        `env:"DATABASE_NAME"`
	DBConnectTimeout     time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	LLMTimeout time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	JWTAccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"48h"`
	JWTRefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`

	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	MailRateLimit  int           `env:"MAIL_RATE_LIMIT" envDefault:"3"`
	MailRateWindow time.Duration `env:"MAIL_RATE_WINDOW" envDefault:"10m"`
}

type loadOptions struct {
	envFile     string
	skipEnvFile bool
	environment map[string]string
}

// Option ajusta cómo Load obtiene las variables.
type Option func(*loadOptions)

// WithEnvFile fuerza el archivo de entorno a leer.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) { o.envFile = path }
}

// WithoutEnvFile ignora cualquier archivo de entorno.
func WithoutEnvFile() Option {
	return func(o *loadOptions) { o.skipEnvFile = true }
}

// WithEnvironment reemplaza el entorno del proceso por el mapa dado.
func WithEnvironment(environment map[string]string) Option {
	return func(o *loadOptions) { o.environment = environment }
}

// Load lee el archivo de entorno y el entorno del proceso, valida y devuelve la
// configuración. El entorno del proceso tiene prioridad sobre el archivo.
func Load(opts ...Option) (RuntimeConfig, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	processEnv := o.environment
	if processEnv == nil {
		processEnv = environToMap(os.Environ())
	}

	merged := make(map[string]string, len(processEnv))
	if !o.skipEnvFile {
		path := o.envFile
		if path == "" {
			path = processEnv["ENV_FILE"]
		}
		if path == "" {
			path = DefaultEnvFile
		}
		fileEnv, err := readEnvFile(path)
		if err != nil {
			return RuntimeConfig{}, invalid("ENV_FILE", err)
		}
		for k, v := range fileEnv {
			merged[k] = v
		}
	}
	for k, v := range processEnv {
		merged[k] = v
	}

	var cfg RuntimeConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: merged}); err != nil {
		return RuntimeConfig{}, translateParseError(err)
	}
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

// Validate revisa las reglas que los tags de env no cubren.
func (c RuntimeConfig) Validate() error {
	var errs []error

	if c.DatabaseURL != "" {
		if err := validateDatabaseURL(c.DatabaseURL); err != nil {
			errs = append(errs, invalid("DATABASE_URL", err))
		}
	}
	if c.EmailTemplate != "" {
		if err := validateTemplatePath(c.EmailTemplate); err != nil {
			errs = append(errs, invalid("email_template", err))
		}
	}
	if c.AdminEmailTemplate != "" {
		if err := validateTemplatePath(c.AdminEmailTemplate); err != nil {
			errs = append(errs, invalid("admin_email_template", err))
		}
	}
	if c.LLMAddr != "" {
		if err := validateHTTPURL(c.LLMAddr); err != nil {
			errs = append(errs, invalid("LLM_ADDR", err))
		}
	}

	switch c.AppEnv {
	case "development", "production", "test":
	default:
		errs = append(errs, invalid("APP_ENV", fmt.Errorf("must be development, production or test, got %q", c.AppEnv)))
	}
	if port, err := strconv.Atoi(c.HTTPPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, invalid("HTTP_PORT", fmt.Errorf("must be a port number, got %q", c.HTTPPort)))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, invalid("LOG_LEVEL", err))
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		errs = append(errs, invalid("SMTP_PORT", fmt.Errorf("must be a port number, got %d", c.SMTPPort)))
	}
	if c.MailRateLimit <= 0 {
		errs = append(errs, invalid("MAIL_RATE_LIMIT", errors.New("must be positive")))
	}
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"SHUTDOWN_TIMEOUT", c.ShutdownTimeout},
		{"DB_CONNECT_TIMEOUT", c.DBConnectTimeout},
		{"LLM_TIMEOUT", c.LLMTimeout},
		{"JWT_ACCESS_TTL", c.JWTAccessTTL},
		{"JWT_REFRESH_TTL", c.JWTRefreshTTL},
		{"MAIL_RATE_WINDOW", c.MailRateWindow},
	} {
		if d.value <= 0 {
			errs = append(errs, invalid(d.name, errors.New("must be a positive duration")))
		}
	}

	return errors.Join(errs...)
}

// IsProduction indica si APP_ENV es production.
func (c RuntimeConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

// Addr devuelve la dirección de escucha del servidor HTTP.
func (c RuntimeConfig) Addr() string {
	return ":" + c.HTTPPort
}

// DatabaseName devuelve DATABASE_NAME, o la base indicada en la URI, o el default.
func (c RuntimeConfig) DatabaseName() string {
	if c.DatabaseNameOverride != "" {
		return c.DatabaseNameOverride
	}
	if u, err := parseMongoURI(c.DatabaseURL); err == nil && u.database != "" {
		return u.database
	}
	return defaultDatabaseName
}

// Redacted devuelve una copia apta para logs.
func (c RuntimeConfig) Redacted() RuntimeConfig {
	out := c
	out.SecretKey = mask(c.SecretKey)
	out.SenderPassword = mask(c.SenderPassword)
	out.RedisPassword = mask(c.RedisPassword)
	if u, err := parseMongoURI(c.DatabaseURL); err == nil {
		out.DatabaseURL = u.redacted()
	} else {
		out.DatabaseURL = mask(c.DatabaseURL)
	}
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

func readEnvFile(path string) (map[string]string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat env file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("env file %s is a directory", path)
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}

func environToMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

func translateParseError(err error) error {
	var agg env.AggregateError
	if !errors.As(err, &agg) {
		return err
	}
	errs := make([]error, 0, len(agg.Errors))
	for _, e := range agg.Errors {
		var (
			notSet   env.EnvVarIsNotSetError
			empty    env.EmptyEnvVarError
			parseErr env.ParseError
		)
		switch {
		case errors.As(e, &notSet):
			errs = append(errs, &MissingConfigurationError{Variable: notSet.Key})
		case errors.As(e, &empty):
			errs = append(errs, &MissingConfigurationError{Variable: empty.Key})
		case errors.As(e, &parseErr):
			errs = append(errs, invalid(envKey(parseErr.Name), parseErr.Err))
		default:
			errs = append(errs, e)
		}
	}
	return errors.Join(errs...)
}

// envKey resuelve el nombre de la variable a partir del campo del struct.
func envKey(field string) string {
	f, ok := reflect.TypeOf(RuntimeConfig{}).FieldByName(field)
	if !ok {
		return field
	}
	key, _, _ := strings.Cut(f.Tag.Get("env"), ",")
	if key == "" {
		return field
	}
	return key
}

func validateDatabaseURL(raw string) error {
	_, err := parseMongoURI(raw)
	return err
}

func validateTemplatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
