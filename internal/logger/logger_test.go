package logger

import (
	"testing"
)

func assertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%v != %v", observed, expected)
	}
}

func TestLineColumn(t *testing.T) {
	contents := "a\nbc\r\nd"

	line, column, lineStart, lineEnd := LineColumn(contents, 3)
	assertEqual(t, line, 1)
	assertEqual(t, column, 1)
	assertEqual(t, lineStart, 2)
	assertEqual(t, lineEnd, 4)

	line, column, lineStart, lineEnd = LineColumn(contents, 6)
	assertEqual(t, line, 2)
	assertEqual(t, column, 0)
	assertEqual(t, lineStart, 6)
	assertEqual(t, lineEnd, 7)
}

func TestMsgString(t *testing.T) {
	source := Source{PrettyPath: "src/entry.js", Contents: "let x = y;\n"}
	msg := Msg{Kind: Error, Text: "Oops", Location: LocationOrNil(&source, Range{Loc: Loc{Start: 8}, Len: 1})}

	assertEqual(t, msg.String(OutputOptions{IncludeSource: true}, TerminalInfo{}),
		"src/entry.js:1:8: error: Oops\nlet x = y;\n        ^\n")
	assertEqual(t, msg.String(OutputOptions{}, TerminalInfo{}),
		"src/entry.js:1:8: error: Oops\n")
	assertEqual(t, Msg{Kind: Warning, Text: "No location"}.String(OutputOptions{}, TerminalInfo{}),
		"warning: No location\n")
}

func TestMsgStringMarksRange(t *testing.T) {
	source := Source{PrettyPath: "a.js", Contents: "import x from './b.js';"}
	msg := Msg{Kind: Error, Text: "Could not resolve", Location: LocationOrNil(&source, Range{Loc: Loc{Start: 14}, Len: 8})}

	assertEqual(t, msg.String(OutputOptions{IncludeSource: true}, TerminalInfo{}),
		"a.js:1:14: error: Could not resolve\nimport x from './b.js';\n              ~~~~~~~~\n")
}

func TestDeferLogSortsMessages(t *testing.T) {
	source := Source{PrettyPath: "a.js", Contents: "a;\nb;\n"}
	log := NewDeferLog()
	log.AddRangeWarning(&source, Range{Loc: Loc{Start: 3}, Len: 1}, "second line")
	log.AddError(&source, Loc{Start: 0}, "first line")
	log.AddVerbose("no location")

	assertEqual(t, log.HasErrors(), true)
	msgs := log.Done()
	assertEqual(t, len(msgs), 3)
	assertEqual(t, msgs[0].Text, "no location")
	assertEqual(t, msgs[1].Text, "first line")
	assertEqual(t, msgs[2].Text, "second line")
}
