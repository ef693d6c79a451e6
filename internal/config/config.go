package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

const (
	EnvPrefix       = "SAFEDIFF"
	defaultLogLevel = "warn"
)

// Configuration keys. Flags use the same names.
const (
	KeyNoColor        = "no-color"
	KeyVerbose        = "verbose"
	KeyMaskPasswords  = "mask-passwords"
	KeyMask           = "mask"
	KeyFormat         = "format"
	KeyExitCode       = "exit-code"
	KeyLogLevel       = "log-level"
	KeyUnlockAttempts = "unlock-attempts"
	KeyUnlockInterval = "unlock-interval"

	KeyPasswordA    = "password-a"
	KeyPasswordB    = "password-b"
	KeyPasswords    = "passwords"
	KeySamePassword = "same-password"
	KeyNoPasswordA  = "no-password-a"
	KeyNoPasswordB  = "no-password-b"
	KeyNoPasswords  = "no-passwords"
	KeyKeyFileA     = "keyfile-a"
	KeyKeyFileB     = "keyfile-b"
	KeyKeyFiles     = "keyfiles"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var ErrBadFormat = errors.New("unsupported output format")

type Config struct {
	InputA string
	InputB string

	NoColor       bool
	Verbose       bool
	MaskPasswords bool
	Mask          string
	Format        string
	ExitCode      bool
	LogLevel      string
	// LogLevelSet is true when the log level differs from the default.
	LogLevelSet bool

	UnlockAttempts int
	UnlockInterval time.Duration

	Credentials Credentials
}

// Credentials holds the raw password and key file options for both inputs.
// Nil passwords were not given.
type Credentials struct {
	PasswordA    *string
	PasswordB    *string
	Passwords    *string
	SamePassword bool
	NoPasswordA  bool
	NoPasswordB  bool
	NoPasswords  bool
	KeyFileA     string
	KeyFileB     string
	KeyFiles     string
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyMaskPasswords, false)
	v.SetDefault(KeyMask, "****")
	v.SetDefault(KeyFormat, FormatText)
	v.SetDefault(KeyExitCode, false)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyUnlockAttempts, 3)
	v.SetDefault(KeyUnlockInterval, time.Second)
}

// NewViper returns a viper instance with defaults and SAFEDIFF_* environment
// variables bound, e.g. SAFEDIFF_MASK_PASSWORDS=true.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	// SAFEDIFF_PASSWORD_A= is an empty password, not a missing one.
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// ReadFile merges a config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

// Load builds a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		NoColor:        v.GetBool(KeyNoColor),
		Verbose:        v.GetBool(KeyVerbose),
		MaskPasswords:  v.GetBool(KeyMaskPasswords),
		Mask:           v.GetString(KeyMask),
		Format:         strings.ToLower(v.GetString(KeyFormat)),
		ExitCode:       v.GetBool(KeyExitCode),
		LogLevel:       v.GetString(KeyLogLevel),
		LogLevelSet:    v.GetString(KeyLogLevel) != defaultLogLevel,
		UnlockAttempts: v.GetInt(KeyUnlockAttempts),
		UnlockInterval: v.GetDuration(KeyUnlockInterval),
		Credentials: Credentials{
			PasswordA:    optional(v, KeyPasswordA),
			PasswordB:    optional(v, KeyPasswordB),
			Passwords:    optional(v, KeyPasswords),
			SamePassword: v.GetBool(KeySamePassword),
			NoPasswordA:  v.GetBool(KeyNoPasswordA),
			NoPasswordB:  v.GetBool(KeyNoPasswordB),
			NoPasswords:  v.GetBool(KeyNoPasswords),
			KeyFileA:     v.GetString(KeyKeyFileA),
			KeyFileB:     v.GetString(KeyKeyFileB),
			KeyFiles:     v.GetString(KeyKeyFiles),
		},
	}

	switch cfg.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return nil, errors.WithHint(
			errors.Wrapf(ErrBadFormat, "format %q", cfg.Format),
			"use one of text, json, yaml",
		)
	}
	if cfg.UnlockAttempts < 1 {
		return nil, errors.Newf("%s must be at least 1, got %d", KeyUnlockAttempts, cfg.UnlockAttempts)
	}
	if cfg.UnlockInterval < 0 {
		return nil, errors.Newf("%s must not be negative, got %s", KeyUnlockInterval, cfg.UnlockInterval)
	}
	return cfg, nil
}

// UseColor reports whether coloured output was requested.
func (c *Config) UseColor() bool {
	return !c.NoColor
}

func optional(v *viper.Viper, key string) *string {
	if !v.IsSet(key) {
		return nil
	}
	s := v.GetString(key)
	return &s
}
