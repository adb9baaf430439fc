package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

//go:embed schema.cue
var schemaCUE string

// Defaults.
const (
	DefaultBackend  = "sqlite"
	DefaultDatabase = "msgboard.db"
	DefaultLogLevel = "info"
)

// DefaultDotEnv is the .env file read when LoadOptions.DotEnv is empty.
const DefaultDotEnv = ".env"

// Config is the resolved runtime configuration.
//
// Sources, lowest precedence first: defaults, the CUE config file, the
// .env file, the process environment. Command-line flags are applied by
// the caller on top via Override.
type Config struct {
	Backend  string `json:"backend,omitempty" env:"MSGBOARD_BACKEND" validate:"required,oneof=sqlite badger"`
	Database string `json:"database,omitempty" env:"MSGBOARD_DB" validate:"required"`
	LogLevel string `json:"log_level,omitempty" env:"MSGBOARD_LOG_LEVEL" validate:"required,oneof=debug info warn error"`
}

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	// File is an optional CUE config file. Empty skips it.
	File string

	// DotEnv is the .env file to read. Empty means DefaultDotEnv.
	// A missing file is not an error.
	DotEnv string

	// Environ overrides os.Environ(), for tests.
	Environ []string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:  DefaultBackend,
		Database: DefaultDatabase,
		LogLevel: DefaultLogLevel,
	}
}

// Load resolves the configuration from every source and validates it.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if opts.File != "" {
		fileCfg, err := LoadFile(opts.File)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.Override(fileCfg)
	}

	es, err := environment(opts)
	if err != nil {
		return Config{}, err
	}
	if err := env.Unmarshal(es, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes a CUE config file checked against the #Config schema.
// Fields the file omits are left empty.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return parseCUE(path, data)
}

func parseCUE(filename string, data []byte) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Config{}, formatCUEError(filename, err)
	}

	v = def.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(filename, err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, formatCUEError(filename, err)
	}
	return cfg, nil
}

// formatCUEError reports the first CUE error with its position.
func formatCUEError(filename string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("config %s: %w", filename, err)
	}
	first := errs[0]
	if pos := cueerrors.Positions(first); len(pos) > 0 {
		return fmt.Errorf("config %s: %s: %w", filename, pos[0], first)
	}
	return fmt.Errorf("config %s: %w", filename, first)
}

// environment merges the .env file under the process environment.
func environment(opts LoadOptions) (env.EnvSet, error) {
	dotenv := opts.DotEnv
	if dotenv == "" {
		dotenv = DefaultDotEnv
	}

	es := env.EnvSet{}
	fileVars, err := godotenv.Read(dotenv)
	switch {
	case err == nil:
		for k, v := range fileVars {
			es[k] = v
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", dotenv, err)
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	procVars, err := env.EnvironToEnvSet(environ)
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	for k, v := range procVars {
		es[k] = v
	}
	return es, nil
}

// Override returns c with every non-empty field of o applied on top.
func (c Config) Override(o Config) Config {
	if o.Backend != "" {
		c.Backend = o.Backend
	}
	if o.Database != "" {
		c.Database = o.Database
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	return c
}

var validate = validator.New()

// Validate checks field values.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s=%q fails %q", fe.Field(), fe.Value(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel returns the slog level for LogLevel.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
