// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command formatcheck validates and canonicalizes JSON and YAML documents
// against a declarative schema.
package main

import (
	"context"
	"os"

	"github.com/z5labs/format/internal/app"
)

func main() {
	os.Exit(app.Main(context.Background(), os.Args[1:]))
}
