// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

// PatternCacheSize bounds the number of compiled patterns kept in memory.
const PatternCacheSize = 512

var patterns = newPatternCache(PatternCacheSize)

func newPatternCache(n int) *lru.Cache[string, *regexp.Regexp] {
	c, err := lru.New[string, *regexp.Regexp](n)
	if err != nil {
		panic(err)
	}
	return c
}

// compilePattern returns the compiled form of pattern, sharing compiled
// expressions between every Format built from the same pattern. An
// invalid pattern is a configuration fault.
func compilePattern(pattern string) *regexp.Regexp {
	if re, ok := patterns.Get(pattern); ok {
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		configFault("pattern", "%s", err)
	}
	patterns.Add(pattern, re)
	return re
}
