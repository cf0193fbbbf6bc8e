// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"io"
	"sort"

	"github.com/z5labs/format/internal/try"

	"github.com/joho/godotenv"
)

// DotEnv represents a Source where its underlying format is a .env file.
type DotEnv struct {
	r      io.Reader
	prefix string
}

// FromDotEnv returns a Source which applies the variables of a .env file
// read from r. Variable names are mapped to keys the same way as [FromEnv].
func FromDotEnv(r io.Reader, prefix string) DotEnv {
	return DotEnv{r: r, prefix: prefix}
}

// InvalidDotEnvError occurs if the underlying io.Reader contains an
// invalid .env file.
type InvalidDotEnvError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidDotEnvError) Error() string {
	return fmt.Sprintf("invalid .env file: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidDotEnvError) Unwrap() error {
	return e.Cause
}

// Apply implements the Source interface.
func (src DotEnv) Apply(store Store) (err error) {
	c, _ := src.r.(io.Closer)
	defer try.Close(&err, c)

	vars, err := godotenv.Parse(src.r)
	if err != nil {
		return InvalidDotEnvError{Cause: err}
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		err = setEnv(store, src.prefix, name, vars[name])
		if err != nil {
			return err
		}
	}
	return nil
}
