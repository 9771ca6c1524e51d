package helpers

import (
	"path"
	"runtime/debug"
	"strings"
)

// PrettyPrintedStack renders the calling goroutine's stack with one frame
// per line as "package.Function (file.go:line)", starting at the caller.
// Frames inside the Go runtime and the panic machinery are left out, so a
// stack captured while recovering starts at the code that panicked.
func PrettyPrintedStack() string {
	lines := strings.Split(strings.TrimSpace(string(debug.Stack())), "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "goroutine ") {
		lines = lines[1:]
	}

	sb := strings.Builder{}

	// Each frame is a call line followed by an indented location line
	for i := 0; i+1 < len(lines); i += 2 {
		call := lines[i]
		if strings.HasSuffix(call, ")") {
			if paren := strings.LastIndexByte(call, '('); paren != -1 {
				call = call[:paren]
			}
		}
		if call == "panic" || strings.HasPrefix(call, "runtime.") ||
			strings.HasPrefix(call, "runtime/debug.") || strings.HasSuffix(call, "helpers.PrettyPrintedStack") {
			continue
		}
		if slash := strings.LastIndexByte(call, '/'); slash != -1 {
			call = call[slash+1:]
		}

		location := strings.TrimSpace(lines[i+1])
		if offset := strings.LastIndex(location, " +0x"); offset != -1 {
			location = location[:offset]
		}

		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(call)
		sb.WriteString(" (")
		sb.WriteString(path.Base(location))
		sb.WriteString(")")
	}

	return sb.String()
}
