// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"fmt"
	"strings"

	"github.com/z5labs/format"
	"github.com/z5labs/format/event"
	"github.com/z5labs/format/value"
)

func ExampleLoad() {
	f, err := Load(strings.NewReader(`
root:
  type: dict
  fields:
    - {name: email, required: true, format: {type: string, trim: true, case: lower}}
    - {name: age, format: {type: number, integer: true, min: 0}}
`), YAML)
	if err != nil {
		fmt.Println(err)
		return
	}

	in := value.Dict(
		value.E("email", value.String("  Jane@Example.COM ")),
		value.E("age", value.String("41")),
	)
	res := format.Run(f, in, event.CollectErrors)
	fmt.Println(res.OK)
	fmt.Println(res.Value)
	// Output: true
	// {"email":"jane@example.com","age":"41"}
}
