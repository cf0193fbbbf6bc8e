// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config reads layered configuration into Go structs.
//
// A [Source] writes key value pairs into a [Store]. [Read] applies sources
// in order, so later sources override earlier ones key by key, and
// [Manager.Unmarshal] decodes the merged tree into a struct using the
// "config" struct tag:
//
//	m, err := config.Read(
//	    config.FromYaml(config.NewFileReader(os.DirFS("."), "formatcheck.yaml")),
//	    config.Optional(config.FromDotEnv(config.NewFileReader(os.DirFS("."), ".env"), "FORMATCHECK")),
//	    config.FromEnv("FORMATCHECK"),
//	)
//	if err != nil {
//	    return err
//	}
//
//	var cfg Config
//	err = m.Unmarshal(&cfg)
//
// Environment variables are matched by prefix, lower cased and split into
// nested keys on a double underscore: FORMATCHECK_HTTP__TIMEOUT sets
// http.timeout.
package config
