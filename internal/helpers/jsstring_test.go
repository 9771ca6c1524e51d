package helpers_test

import (
	"testing"

	"github.com/esmpack/esmpack/internal/helpers"
	"github.com/esmpack/esmpack/internal/test"
)

func TestDecodeStringLiteral(t *testing.T) {
	check := func(raw string, expected string) {
		t.Helper()
		t.Run(raw, func(t *testing.T) {
			value, ok := helpers.DecodeStringLiteral(raw)
			test.AssertEqual(t, ok, true)
			test.AssertEqual(t, value, expected)
		})
	}

	check(`"./a.js"`, "./a.js")
	check(`'./a.js'`, "./a.js")
	check(`"a\nb"`, "a\nb")
	check(`"\x41B\u{43}"`, "ABC")
	check(`"\uD83D\uDE00"`, "\U0001F600")
	check(`"\101"`, "A")
	check(`"it\'s"`, "it's")
	check("\"a\\\nb\"", "ab")
	check(`"a-b"`, "a-b")
}

func TestDecodeStringLiteralInvalid(t *testing.T) {
	for _, raw := range []string{``, `"`, `"abc'`, `abc`, `"\x4"`, `"\u{}"`, `"\u12"`} {
		_, ok := helpers.DecodeStringLiteral(raw)
		test.AssertEqual(t, ok, false)
	}
}

func TestQuoteForJSON(t *testing.T) {
	test.AssertEqual(t, helpers.QuoteForJSON("src/a.js"), `"src/a.js"`)
	test.AssertEqual(t, helpers.QuoteForJSON("a\"b\\c\n"), `"a\"b\\c\n"`)
	test.AssertEqual(t, helpers.QuoteForJSON("x\u2028y"), `"x\u2028y"`)
	test.AssertEqual(t, helpers.QuoteForJSON("\x01"), `"\u0001"`)
}

func TestJoiner(t *testing.T) {
	j := helpers.Joiner{}
	j.AddString("var a;\n")
	j.AddString("")
	j.AddString("var b;\n")
	test.AssertEqual(t, string(j.Done()), "var a;\nvar b;\n")
	test.AssertEqual(t, j.Length(), uint32(14))
}
