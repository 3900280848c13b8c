package ui

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/resqpack/internal/check"
)

// Status symbols prefixed to one-line messages.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

func status(symbol, msg string) string {
	return symbol + " " + msg
}

// Success prefixes msg with the success symbol.
func Success(msg string) string { return status(SymbolSuccess, msg) }

// Successf is Success with formatting.
func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error prefixes msg with the error symbol.
func Error(msg string) string { return status(SymbolError, msg) }

// Warningf formats a message prefixed with the warning symbol.
func Warningf(format string, args ...interface{}) string {
	return status(SymbolWarning, fmt.Sprintf(format, args...))
}

// Header renders a section header.
func Header(msg string) string { return Bold.Render(msg) }

// FilePath renders a container, part or payload path.
func FilePath(path string) string { return Accent.Render(path) }

// Hint renders secondary text.
func Hint(msg string) string { return Muted.Render(msg) }

// Issue renders one diagnostic as "<symbol> [kind] part path: message".
func Issue(i check.Issue) string {
	symbol := SymbolError
	if i.Level == check.LevelWarning {
		symbol = SymbolWarning
	}
	var where []string
	for _, s := range []string{i.Part, i.Path} {
		if s != "" {
			where = append(where, s)
		}
	}
	loc := ""
	if len(where) > 0 {
		loc = " " + FilePath(strings.Join(where, " "))
	}
	return status(symbol, fmt.Sprintf("%s%s: %s", Muted.Render("["+string(i.Kind)+"]"), loc, i.Message))
}

func counted(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// Count renders "(n noun)".
func Count(n int, singular, plural string) string {
	return "(" + counted(n, singular, plural) + ")"
}

// ErrorWarningCounts renders "(e errors, w warnings)". A zero error count is
// left out; a zero warning count only appears when there are no errors.
func ErrorWarningCounts(errors, warnings int) string {
	var parts []string
	if errors > 0 {
		parts = append(parts, counted(errors, "error", "errors"))
	}
	if warnings > 0 || errors == 0 {
		parts = append(parts, counted(warnings, "warning", "warnings"))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
