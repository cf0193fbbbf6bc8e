// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"os"
	"strings"

	"github.com/z5labs/format/path"
)

// Env represents a Source where its underlying values
// are extracted from environment variables.
type Env struct {
	prefix  string
	environ func() []string
}

// FromEnv returns a Source which will apply its config from the
// environment variables of the current process whose names start with
// prefix followed by an underscore. An empty prefix selects every
// variable.
func FromEnv(prefix string) Env {
	return Env{
		prefix:  prefix,
		environ: os.Environ,
	}
}

// Apply implements the Source interface.
func (src Env) Apply(store Store) error {
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		err := setEnv(store, src.prefix, k, v)
		if err != nil {
			return err
		}
	}
	return nil
}

// envPath maps an environment variable name to a config path. ok is false
// when name does not carry prefix.
func envPath(prefix, name string) (path.Path, bool) {
	if prefix != "" {
		rest, found := strings.CutPrefix(name, prefix+"_")
		if !found {
			return path.Path{}, false
		}
		name = rest
	}
	if name == "" {
		return path.Path{}, false
	}

	var p path.Path
	for _, part := range strings.Split(strings.ToLower(name), "__") {
		if part == "" {
			return path.Path{}, false
		}
		p = p.Field(part)
	}
	return p, true
}

func setEnv(store Store, prefix, name, v string) error {
	p, ok := envPath(prefix, name)
	if !ok {
		return nil
	}
	return store.Set(p, v)
}
