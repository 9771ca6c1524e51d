package logger

// Messages are rendered in the same shape clang uses: a "file:line:col: kind:
// text" header followed by the offending source line and a marker under the
// reported range. Messages may arrive from many scanning goroutines at once so
// every log implementation is safe for concurrent use.

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool
	Done      func() []Msg
}

type LogLevel int8

const (
	LevelNone LogLevel = iota
	LevelVerbose
	LevelInfo
	LevelWarning
	LevelError
	LevelSilent
)

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Info
	Verbose
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Verbose:
		return "verbose"
	default:
		panic("Internal error")
	}
}

func (kind MsgKind) level() LogLevel {
	switch kind {
	case Error:
		return LevelError
	case Warning:
		return LevelWarning
	case Info:
		return LevelInfo
	default:
		return LevelVerbose
	}
}

type Msg struct {
	Kind     MsgKind
	Text     string
	Location *MsgLocation
}

type MsgLocation struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Loc struct {
	// The 0-based byte offset of this location from the start of the file
	Start int32
}

type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 {
	return r.Loc.Start + r.Len
}

func RangeBetween(start int32, end int32) Range {
	return Range{Loc: Loc{Start: start}, Len: end - start}
}

// Path is the key of a source file. The "file" namespace holds absolute file
// system paths. Any other namespace holds an opaque name chosen by whoever
// created the module (for example the name given to inline content).
type Path struct {
	Text      string
	Namespace string
}

type Source struct {
	Index   uint32
	KeyPath Path

	// Relative to the working directory with forward slashes. This is what is
	// shown in messages and used as the module id inside the bundle.
	PrettyPath string

	Contents string
}

// Messages without a location sort first, then by file position, then by kind.
type sortableMsgs []Msg

func (a sortableMsgs) Len() int          { return len(a) }
func (a sortableMsgs) Swap(i int, j int) { a[i], a[j] = a[j], a[i] }

func (a sortableMsgs) Less(i int, j int) bool {
	li, lj := a[i].Location, a[j].Location
	if (li == nil) != (lj == nil) {
		return li == nil
	}
	if li != nil {
		if li.File != lj.File {
			return li.File < lj.File
		}
		if li.Line != lj.Line {
			return li.Line < lj.Line
		}
		if li.Column != lj.Column {
			return li.Column < lj.Column
		}
		if li.Length != lj.Length {
			return li.Length < lj.Length
		}
	}
	if a[i].Kind != a[j].Kind {
		return a[i].Kind < a[j].Kind
	}
	return a[i].Text < a[j].Text
}

type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type OutputOptions struct {
	IncludeSource bool
	ErrorLimit    int
	Color         StderrColor
	LogLevel      LogLevel
}

func NewStderrLog(options OutputOptions) Log {
	return newWriterLog(os.Stderr, GetTerminalInfo(os.Stderr), options)
}

func newWriterLog(file *os.File, terminal TerminalInfo, options OutputOptions) Log {
	var mutex sync.Mutex
	var msgs sortableMsgs
	errors := 0
	warnings := 0
	silenced := false

	switch options.Color {
	case ColorNever:
		terminal.UseColorEscapes = false
	case ColorAlways:
		terminal.UseColorEscapes = SupportsColorEscapes
	}

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			msgs = append(msgs, msg)

			switch msg.Kind {
			case Error:
				errors++
			case Warning:
				warnings++
			}
			if silenced {
				return
			}
			if options.LogLevel <= msg.Kind.level() {
				writeStringWithColor(file, msg.String(options, terminal))
			}

			if options.ErrorLimit != 0 && errors >= options.ErrorLimit {
				silenced = true
				if options.LogLevel <= LevelError {
					writeStringWithColor(file, fmt.Sprintf(
						"%s reached (disable the limit with --error-limit=0)\n", summary(errors, warnings)))
				}
			}
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return errors > 0
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			if !silenced && options.LogLevel <= LevelInfo && (warnings != 0 || errors != 0) {
				writeStringWithColor(file, summary(errors, warnings)+"\n")
			}
			sort.Stable(msgs)
			return msgs
		},
	}
}

// NewDeferLog collects messages without printing them. The API layer uses it
// so that callers receive structured messages instead of terminal output.
func NewDeferLog() Log {
	var msgs sortableMsgs
	var mutex sync.Mutex
	var hasErrors bool

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			if msg.Kind == Error {
				hasErrors = true
			}
			msgs = append(msgs, msg)
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			sort.Stable(msgs)
			return msgs
		},
	}
}

func plural(noun string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}

func summary(errors int, warnings int) string {
	switch {
	case errors == 0:
		return plural("warning", warnings)
	case warnings == 0:
		return plural("error", errors)
	default:
		return fmt.Sprintf("%s and %s", plural("warning", warnings), plural("error", errors))
	}
}

const (
	colorReset     = "\033[0m"
	colorRed       = "\033[31m"
	colorGreen     = "\033[32m"
	colorMagenta   = "\033[35m"
	colorDim       = "\033[37m"
	colorBold      = "\033[1m"
	colorResetBold = "\033[0;1m"
)

func (msg Msg) String(options OutputOptions, terminal TerminalInfo) string {
	kind := msg.Kind.String()
	kindColor := colorRed
	switch msg.Kind {
	case Warning:
		kindColor = colorMagenta
	case Info, Verbose:
		kindColor = colorDim
	}

	if msg.Location == nil {
		if terminal.UseColorEscapes {
			return fmt.Sprintf("%s%s%s: %s%s%s\n", colorBold, kindColor, kind, colorResetBold, msg.Text, colorReset)
		}
		return fmt.Sprintf("%s: %s\n", kind, msg.Text)
	}

	if !options.IncludeSource {
		if terminal.UseColorEscapes {
			return fmt.Sprintf("%s%s:%d:%d: %s%s: %s%s%s\n", colorBold, msg.Location.File, msg.Location.Line,
				msg.Location.Column, kindColor, kind, colorResetBold, msg.Text, colorReset)
		}
		return fmt.Sprintf("%s:%d:%d: %s: %s\n", msg.Location.File, msg.Location.Line, msg.Location.Column, kind, msg.Text)
	}

	d := detailStruct(msg, terminal)
	if terminal.UseColorEscapes {
		return fmt.Sprintf("%s%s:%d:%d: %s%s: %s%s\n%s%s%s%s%s%s\n%s%s%s%s\n",
			colorBold, d.Path, d.Line, d.Column,
			kindColor, d.Kind,
			colorResetBold, d.Message,
			colorReset, d.SourceBefore, colorGreen, d.SourceMarked, colorReset, d.SourceAfter,
			colorGreen, d.Indent, d.Marker, colorReset)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s\n%s\n%s%s\n",
		d.Path, d.Line, d.Column, d.Kind, d.Message, d.Source, d.Indent, d.Marker)
}

type MsgDetail struct {
	Path    string
	Line    int
	Column  int
	Kind    string
	Message string

	// Source == SourceBefore + SourceMarked + SourceAfter
	Source       string
	SourceBefore string
	SourceMarked string
	SourceAfter  string

	Indent string
	Marker string
}

// LineColumn converts a byte offset into a 0-based line, a 0-based byte
// column, and the bounds of the line containing the offset.
func LineColumn(contents string, offset int) (line int, column int, lineStart int, lineEnd int) {
	if offset > len(contents) {
		offset = len(contents)
	}
	var prev rune
	for i, c := range contents[:offset] {
		switch c {
		case '\n':
			lineStart = i + 1
			if prev != '\r' {
				line++
			}
		case '\r':
			lineStart = i + 1
			line++
		case '\u2028', '\u2029':
			lineStart = i + 3
			line++
		}
		prev = c
	}

	lineEnd = len(contents)
	for i, c := range contents[offset:] {
		if c == '\r' || c == '\n' || c == '\u2028' || c == '\u2029' {
			lineEnd = offset + i
			break
		}
	}

	column = offset - lineStart
	return
}

func LocationOrNil(source *Source, r Range) *MsgLocation {
	if source == nil {
		return nil
	}
	line, column, lineStart, lineEnd := LineColumn(source.Contents, int(r.Loc.Start))
	return &MsgLocation{
		File:     source.PrettyPath,
		Line:     line + 1,
		Column:   column,
		Length:   int(r.Len),
		LineText: source.Contents[lineStart:lineEnd],
	}
}

func detailStruct(msg Msg, terminal TerminalInfo) MsgDetail {
	loc := *msg.Location
	lineText := renderTabStops(loc.LineText, 2)

	if loc.Column < 0 {
		loc.Column = 0
	}
	if loc.Column > len(loc.LineText) {
		loc.Column = len(loc.LineText)
	}
	if loc.Length < 0 || loc.Length > len(loc.LineText)-loc.Column {
		loc.Length = len(loc.LineText) - loc.Column
	}

	markerStart := len(renderTabStops(loc.LineText[:loc.Column], 2))
	markerEnd := markerStart
	if loc.Length > 0 {
		markerEnd = len(renderTabStops(loc.LineText[:loc.Column+loc.Length], 2))
	}

	// Long lines are cut down to the terminal width around the marker
	width := terminal.Width
	if width < 1 {
		width = 80
	}
	if len(lineText) > width {
		sliceStart := markerStart - width/5
		if sliceStart < 0 {
			sliceStart = 0
		}
		if sliceStart > len(lineText)-width {
			sliceStart = len(lineText) - width
		}
		lineText = lineText[sliceStart : sliceStart+width]
		markerStart -= sliceStart
		markerEnd -= sliceStart
		if markerEnd > len(lineText) {
			markerEnd = len(lineText)
		}
	}

	marker := "^"
	if markerEnd-markerStart > 1 {
		marker = strings.Repeat("~", markerEnd-markerStart)
	}

	return MsgDetail{
		Path:    loc.File,
		Line:    loc.Line,
		Column:  loc.Column,
		Kind:    msg.Kind.String(),
		Message: msg.Text,

		Source:       lineText,
		SourceBefore: lineText[:markerStart],
		SourceMarked: lineText[markerStart:markerEnd],
		SourceAfter:  lineText[markerEnd:],

		Indent: strings.Repeat(" ", markerStart),
		Marker: marker,
	}
}

func renderTabStops(withTabs string, spacesPerTab int) string {
	if !strings.ContainsRune(withTabs, '\t') {
		return withTabs
	}
	sb := strings.Builder{}
	count := 0
	for _, c := range withTabs {
		if c != '\t' {
			sb.WriteRune(c)
			count++
			continue
		}
		for spaces := spacesPerTab - count%spacesPerTab; spaces > 0; spaces-- {
			sb.WriteByte(' ')
			count++
		}
	}
	return sb.String()
}

func (log Log) AddError(source *Source, loc Loc, text string) {
	log.AddMsg(Msg{Kind: Error, Text: text, Location: LocationOrNil(source, Range{Loc: loc})})
}

func (log Log) AddRangeError(source *Source, r Range, text string) {
	log.AddMsg(Msg{Kind: Error, Text: text, Location: LocationOrNil(source, r)})
}

func (log Log) AddRangeWarning(source *Source, r Range, text string) {
	log.AddMsg(Msg{Kind: Warning, Text: text, Location: LocationOrNil(source, r)})
}

func (log Log) AddVerbose(text string) {
	log.AddMsg(Msg{Kind: Verbose, Text: text})
}
