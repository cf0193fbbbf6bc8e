// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/z5labs/format/config"
	"github.com/z5labs/format/event"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/schema"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of the environment variables, and .env
// entries, read as config. Nested keys are separated by "__", e.g.
// FORMATCHECK_HTTP__TIMEOUT.
const EnvPrefix = "FORMATCHECK"

// Config controls a formatcheck run.
type Config struct {
	Schema      string      `config:"schema" validate:"required"`
	Mask        event.Mask  `config:"mask"`
	Output      string      `config:"output" validate:"oneof=json yaml"`
	InputLang   schema.Lang `config:"input_lang"`
	Concurrency int         `config:"concurrency" validate:"gte=1"`
	Trace       bool        `config:"trace"`

	Log struct {
		Level  slog.Level `config:"level"`
		Inputs bool       `config:"inputs"`
	} `config:"log"`

	HTTP struct {
		Timeout time.Duration `config:"timeout" validate:"gte=0"`
		Retries int           `config:"retries" validate:"gte=0"`
	} `config:"http"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// InvalidConfigError is returned when a config value is out of range.
type InvalidConfigError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidConfigError) Unwrap() error {
	return e.Cause
}

// Validate checks cfg before it is used to build the App.
func (cfg Config) Validate() error {
	err := validate.Struct(cfg)
	if err != nil {
		return InvalidConfigError{Cause: err}
	}
	return nil
}

func defaults() config.Map {
	return config.Map{
		"mask":        "all",
		"output":      "json",
		"input_lang":  "yaml",
		"concurrency": 4,
		"log": map[string]any{
			"level": "WARN",
		},
		"http": map[string]any{
			"timeout": "10s",
			"retries": 2,
		},
	}
}

// flagPaths maps command line flags onto config keys.
var flagPaths = map[string]path.Path{
	"schema":       path.Root().Field("schema"),
	"mask":         path.Root().Field("mask"),
	"output":       path.Root().Field("output"),
	"input-lang":   path.Root().Field("input_lang"),
	"concurrency":  path.Root().Field("concurrency"),
	"trace":        path.Root().Field("trace"),
	"log-level":    path.Root().Field("log").Field("level"),
	"log-inputs":   path.Root().Field("log").Field("inputs"),
	"http-timeout": path.Root().Field("http").Field("timeout"),
	"http-retries": path.Root().Field("http").Field("retries"),
}

// fromFlags is a config.Source of the flags set on the command line.
// Flags left at their default do not override other sources.
func fromFlags(fs *pflag.FlagSet) config.Source {
	return config.SourceFunc(func(store config.Store) error {
		var err error
		fs.Visit(func(f *pflag.Flag) {
			p, ok := flagPaths[f.Name]
			if !ok || err != nil {
				return
			}
			err = store.Set(p, strings.TrimSpace(f.Value.String()))
		})
		return err
	})
}
