// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"fmt"
	"strings"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/value"
)

func Example() {
	signup := Dict(
		Required("email", String(Trim(), Lower(), Matches(`^[^@\s]+@[^@\s]+$`))),
		Required("age", Number(Integer(), Min(13))),
		Required("newsletter", Bool()),
		Default("plan", value.String("free"), nil),
		Unknown(UnknownReject),
	)

	in, err := value.DecodeJSON(strings.NewReader(`{"email": " Ada@Example.com ", "age": "036"}`))
	if err != nil {
		fmt.Println(err)
		return
	}

	res := Run(signup, in, event.CollectAll)
	fmt.Println(res.OK)
	fmt.Println(res.Value)
	// Output: true
	// {"email":"ada@example.com","age":"36","newsletter":false,"plan":"free"}
}

func ExampleRun_failure() {
	f := Dict(Required("items", List(Number())))
	in := value.Dict(value.E("items", value.List(value.Int(1), value.String("two"))))

	res := Run(f, in, event.CollectErrors)
	fmt.Println(res.OK)
	for _, ev := range res.Events.Errors() {
		fmt.Println(ev)
	}
	// Output: false
	// items.1: Please provide a number.
}

func ExampleNumber() {
	res := Run(Number(), value.String("+00012.34000e005"), event.CollectErrors)
	fmt.Println(res.Value)
	// Output: "12.34e+5"
}

func ExampleOr() {
	optional := Or(Null(), Number())

	for _, in := range []value.Value{value.Null(), value.String("7.0"), value.String("x")} {
		res := Run(optional, in, event.CollectErrors)
		fmt.Println(res.OK, res.Value)
	}
	// Output: true null
	// true "7"
	// false null
}

func ExampleVariant() {
	shape := Variant(
		TagField("type"),
		Case("circle", Dict(Required("r", Number(Positive())), Unknown(UnknownStrip))),
		Case("square", Dict(Required("side", Number(Positive())), Unknown(UnknownStrip))),
		MergeTag(),
	)

	in := value.Dict(value.E("type", value.String("circle")), value.E("r", value.Int(2)))
	res := Run(shape, in, event.CollectAll)
	fmt.Println(res.Value)
	// Output: {"r":2,"type":"circle"}
}

func ExamplePipeline() {
	f := Pipeline(String(Trim()), String(NotEmpty()))

	res := Run(f, value.String("   "), event.CollectAll)
	fmt.Println(res.Err())
	// Output: validation failed: Please provide a non-empty string.
}
