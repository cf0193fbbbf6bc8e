// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package app implements the formatcheck command line tool.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/z5labs/format/config"
	"github.com/z5labs/format/internal/try"
)

// App represents the entry point for user specific code.
type App interface {
	Run(context.Context) error
}

// Builder represents anything which can initialize an App from a config.
type Builder[T any] interface {
	Build(ctx context.Context, cfg T) (App, error)
}

// BuilderFunc is a functional implementation of the Builder interface.
type BuilderFunc[T any] func(context.Context, T) (App, error)

// Build implements the Builder interface.
func (f BuilderFunc[T]) Build(ctx context.Context, cfg T) (App, error) {
	return f(ctx, cfg)
}

// Run reads the config sources, unmarshals them into T, builds the App
// and, lastly, runs it.
func Run[T any](ctx context.Context, builder Builder[T], srcs ...config.Source) error {
	m, err := config.Read(srcs...)
	if err != nil {
		return ConfigReadError{Cause: err}
	}

	var cfg T
	err = m.Unmarshal(&cfg)
	if err != nil {
		return ConfigUnmarshalError{Cause: err}
	}

	app, err := builder.Build(ctx, cfg)
	if err != nil {
		return AppBuildError{Cause: err}
	}

	err = app.Run(ctx)
	if err != nil {
		return AppRunError{Cause: err}
	}
	return nil
}

// ConfigReadError is returned when a config source fails to apply.
type ConfigReadError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConfigReadError) Error() string {
	return fmt.Sprintf("failed to read config source(s): %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigReadError) Unwrap() error {
	return e.Cause
}

// ConfigUnmarshalError is returned when the merged config does not fit
// the config type.
type ConfigUnmarshalError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConfigUnmarshalError) Error() string {
	return fmt.Sprintf("failed to unmarshal config: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigUnmarshalError) Unwrap() error {
	return e.Cause
}

// AppBuildError
type AppBuildError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e AppBuildError) Error() string {
	return fmt.Sprintf("failed to build app: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e AppBuildError) Unwrap() error {
	return e.Cause
}

// AppRunError
type AppRunError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e AppRunError) Error() string {
	return fmt.Sprintf("failed to run app: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e AppRunError) Unwrap() error {
	return e.Cause
}

type runFunc func(context.Context) error

func (f runFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Recover wraps app with panic recovery. The panic value is returned as a
// [try.PanicError].
func Recover(app App) App {
	return runFunc(func(ctx context.Context) (err error) {
		defer try.Recover(&err)

		return app.Run(ctx)
	})
}

// WithSignalNotifications cancels the context passed to app.Run when one
// of signals is received by the process.
func WithSignalNotifications(app App, signals ...os.Signal) App {
	return runFunc(func(ctx context.Context) error {
		sigCtx, cancel := signal.NotifyContext(ctx, signals...)
		defer cancel()

		return app.Run(sigCtx)
	})
}

// PostRun runs hooks after app.Run returns, even when it panics. Every
// hook runs and their errors are joined with the error of app.Run.
func PostRun(app App, hooks ...func(context.Context) error) App {
	return runFunc(func(ctx context.Context) (err error) {
		defer func() {
			r := recover()

			errs := []error{err}
			for _, hook := range hooks {
				errs = append(errs, hook(context.WithoutCancel(ctx)))
			}
			err = errors.Join(errs...)

			if r != nil {
				panic(r)
			}
		}()

		return app.Run(ctx)
	})
}
