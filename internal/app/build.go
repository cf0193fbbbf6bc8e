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
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/z5labs/format"
	"github.com/z5labs/format/internal/try"
	"github.com/z5labs/format/pkg/httpclient"
	"github.com/z5labs/format/pkg/maskslog"
	"github.com/z5labs/format/pkg/otelslog"
	"github.com/z5labs/format/pkg/slogfield"
	"github.com/z5labs/format/schema"
)

// osFS opens names relative to the working directory, or absolute ones,
// the way os.Open does.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// env is the process the command runs in.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	fsys   fs.FS
	client *http.Client
}

// SchemaFetchError is returned when a remote schema could not be
// downloaded.
type SchemaFetchError struct {
	URL        string
	StatusCode int
	Cause      error
}

// Error implements the [builtin.error] interface.
func (e SchemaFetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to fetch schema %s: %s", e.URL, e.Cause)
	}
	return fmt.Sprintf("failed to fetch schema %s: received status code %d", e.URL, e.StatusCode)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e SchemaFetchError) Unwrap() error {
	return e.Cause
}

func newLogger(cfg Config, w io.Writer) *slog.Logger {
	var h slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.Log.Level})
	h = otelslog.NewHandler(h, otelslog.SpanEvents(slog.LevelWarn))

	var opts []maskslog.Option
	if !cfg.Log.Inputs {
		opts = append(opts, maskslog.Attr("input", maskslog.AnonymousStringAttr))
	} else {
		opts = append(opts, maskslog.Attr("input", maskslog.Truncate(256)))
	}
	return slog.New(maskslog.NewHandler(h, opts...))
}

// validateCommand builds the App behind "formatcheck validate".
func validateCommand(e env, args []string) Builder[Config] {
	return BuilderFunc[Config](func(ctx context.Context, cfg Config) (App, error) {
		err := cfg.Validate()
		if err != nil {
			return nil, err
		}
		encode, err := encoderFor(cfg.Output)
		if err != nil {
			return nil, err
		}

		log := newLogger(cfg, e.stderr)
		log.DebugContext(ctx, "building validator", slogfield.String("schema", cfg.Schema), slogfield.Mask(cfg.Mask))

		tracer, shutdown, err := initTracing(cfg.Trace, e.stderr)
		if err != nil {
			return nil, err
		}

		f, err := loadSchema(ctx, e, cfg, log)
		if err != nil {
			return nil, errors.Join(err, shutdown(ctx))
		}

		c := &checker{
			format: f,
			inputs: inputsOf(e, cfg, args),
			mask:   cfg.Mask,
			limit:  cfg.Concurrency,
			encode: encode,
			out:    e.stdout,
			log:    log,
			tracer: tracer,
		}
		return PostRun(Recover(c), shutdown), nil
	})
}

func inputsOf(e env, cfg Config, args []string) []input {
	if len(args) == 0 {
		args = []string{"-"}
	}
	inputs := make([]input, len(args))
	for i, name := range args {
		if name == "-" {
			inputs[i] = input{
				name: name,
				lang: cfg.InputLang,
				open: func() (io.ReadCloser, error) {
					return io.NopCloser(e.stdin), nil
				},
			}
			continue
		}
		inputs[i] = input{
			name: name,
			lang: schema.LangOf(name),
			open: func() (io.ReadCloser, error) {
				return e.fsys.Open(name)
			},
		}
	}
	return inputs
}

func loadSchema(ctx context.Context, e env, cfg Config, log *slog.Logger) (format.Format, error) {
	u, err := url.Parse(cfg.Schema)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return schema.LoadFile(e.fsys, cfg.Schema)
	}

	client := e.client
	if client == nil {
		client = httpclient.New(
			httpclient.Name("schema"),
			httpclient.LogHandler(log.Handler()),
			httpclient.Timeout(cfg.HTTP.Timeout),
			httpclient.Retry(cfg.HTTP.Retries, 100*time.Millisecond, 2*time.Second),
			httpclient.TripAfter(uint32(cfg.HTTP.Retries)+1),
		)
	}
	return fetchSchema(ctx, client, u)
}

func fetchSchema(ctx context.Context, client *http.Client, u *url.URL) (_ format.Format, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, SchemaFetchError{URL: u.String(), Cause: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, SchemaFetchError{URL: u.String(), Cause: err}
	}
	defer try.Close(&err, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, SchemaFetchError{URL: u.String(), StatusCode: resp.StatusCode}
	}
	return schema.Load(resp.Body, schema.LangOf(u.Path))
}
