package common

import (
	"fmt"
	"runtime"
	"strings"
)

type Stack *[]uintptr

// CurrentStack creates a new stack without the last three frames, because they are from the internal calls (e.g. to
// this function and the error constructor) and therefore irrelevant to the function creating the error.
func CurrentStack() Stack {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	var st = pcs[0:n]
	return &st
}

func PrintableStackTrace(stack Stack) string {
	if stack == nil {
		return ""
	}

	var sb strings.Builder

	frames := runtime.CallersFrames(*stack)
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			sb.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}

	return sb.String()
}

// FormatError implements the fmt.Formatter behaviour shared by all error types with a stack: "%v" prints the message
// followed by the stack trace, "%s" only the message.
func FormatError(s fmt.State, verb rune, err error, stack Stack) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s\n%s", err.Error(), PrintableStackTrace(stack))
			return
		}
		fmt.Fprintf(s, "%s", err.Error())
	case 's':
		fmt.Fprintf(s, "%s", err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}
