// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/z5labs/format/config"

	"github.com/spf13/cobra"
)

// Exit codes returned by Main.
const (
	ExitOK      = 0
	ExitInvalid = 1
	ExitError   = 2
)

// Option configures the process NewCommand runs in.
type Option func(*env)

// Stdin sets the reader "-" inputs are read from.
func Stdin(r io.Reader) Option {
	return func(e *env) {
		e.stdin = r
	}
}

// Stdout sets the writer reports are written to.
func Stdout(w io.Writer) Option {
	return func(e *env) {
		e.stdout = w
	}
}

// Stderr sets the writer logs and traces are written to.
func Stderr(w io.Writer) Option {
	return func(e *env) {
		e.stderr = w
	}
}

// FS sets the file system schema, input, config and .env files are
// opened from.
func FS(fsys fs.FS) Option {
	return func(e *env) {
		e.fsys = fsys
	}
}

// HTTPClient replaces the client remote schemas are fetched with.
func HTTPClient(c *http.Client) Option {
	return func(e *env) {
		e.client = c
	}
}

// NewCommand returns the formatcheck root command.
func NewCommand(opts ...Option) *cobra.Command {
	e := env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		fsys:   osFS{},
	}
	for _, opt := range opts {
		opt(&e)
	}

	root := &cobra.Command{
		Use:           "formatcheck",
		Short:         "Validate and canonicalize documents against a declarative schema",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetIn(e.stdin)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	root.AddCommand(newValidateCmd(e))
	return root
}

func newValidateCmd(e env) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "validate [input...]",
		Short: "Validate JSON or YAML documents. Use - or no input to read stdin.",
		Args:  stdinOnce,
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs := []config.Source{
				defaults(),
				config.Optional(config.FromDotEnv(config.NewFileReader(e.fsys, ".env"), EnvPrefix)),
			}
			if configFile != "" {
				srcs = append(srcs, config.FromYaml(config.RenderTextTemplate(config.NewFileReader(e.fsys, configFile))))
			}
			srcs = append(
				srcs,
				config.FromEnv(EnvPrefix),
				fromFlags(cmd.Flags()),
			)

			return Run(cmd.Context(), validateCommand(e, args), srcs...)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "YAML config file, rendered as a text/template with an env func")
	flags.String("schema", "", "schema file or http(s) URL")
	flags.String("mask", "all", "event kinds to report: error, warning, info, all or none")
	flags.StringP("output", "o", "json", "report format: json or yaml")
	flags.String("input-lang", "yaml", "language of documents read from stdin: json or yaml")
	flags.Int("concurrency", 4, "maximum number of documents validated at once")
	flags.Bool("trace", false, "write an OpenTelemetry span per document to stderr")
	flags.String("log-level", "WARN", "minimum level of logs written to stderr")
	flags.Bool("log-inputs", false, "include document contents in logs")
	flags.Duration("http-timeout", 0, "timeout for fetching a remote schema")
	flags.Int("http-retries", 0, "retries for fetching a remote schema")
	return cmd
}

// RepeatedStdinError is returned when "-" is given more than once, since
// stdin can only be read once.
type RepeatedStdinError struct {
	Positions []int
}

// Error implements the [builtin.error] interface.
func (e RepeatedStdinError) Error() string {
	return fmt.Sprintf("stdin (-) may only be given once, found at arguments %v", e.Positions)
}

func stdinOnce(_ *cobra.Command, args []string) error {
	var positions []int
	for i, arg := range args {
		if arg == "-" {
			positions = append(positions, i+1)
		}
	}
	if len(positions) > 1 {
		return RepeatedStdinError{Positions: positions}
	}
	return nil
}

// Main runs formatcheck with args and returns the process exit code.
// Reports are written to stdout and errors to stderr.
func Main(ctx context.Context, args []string, opts ...Option) int {
	cmd := NewCommand(opts...)
	cmd.SetArgs(args)

	err := WithSignalNotifications(runFunc(cmd.ExecuteContext), os.Interrupt).Run(ctx)
	if err == nil {
		return ExitOK
	}

	var ferr FailedDocumentsError
	if errors.As(err, &ferr) {
		return ExitInvalid
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "formatcheck:", err)
	return ExitError
}
