// Package check holds the diagnostics collected while decoding, resolving and
// reading containers. Diagnostics never abort sibling work; callers receive
// them next to the best-effort result and decide what is fatal.
package check

import (
	"fmt"
	"strings"
)

// Level indicates the severity of an issue.
type Level int

const (
	LevelError Level = iota
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARN"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the level as "error" or "warning".
func (l Level) MarshalText() ([]byte, error) {
	switch l {
	case LevelError:
		return []byte("error"), nil
	case LevelWarning:
		return []byte("warning"), nil
	}
	return nil, fmt.Errorf("unknown level %d", int(l))
}

// UnmarshalText decodes "error" or "warning".
func (l *Level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*l = LevelError
	case "warning":
		*l = LevelWarning
	default:
		return fmt.Errorf("unknown level %q", text)
	}
	return nil
}

// Kind classifies an issue.
type Kind string

const (
	KindUnknownType         Kind = "unknown-type"
	KindCardinality         Kind = "cardinality"
	KindInvalidValue        Kind = "invalid-value"
	KindUnexpectedNode      Kind = "unexpected-node"
	KindDanglingReference   Kind = "dangling-reference"
	KindDuplicateIdentifier Kind = "duplicate-identifier"
	KindPartUnreadable      Kind = "part-unreadable"
	KindManifestMismatch    Kind = "manifest-mismatch"
)

// Issue is one diagnostic.
type Issue struct {
	Level   Level  `json:"level"`
	Kind    Kind   `json:"kind"`
	Part    string `json:"part,omitempty"` // container part name
	Path    string `json:"path,omitempty"` // element path within the part
	Message string `json:"message"`
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(i.Level.String())
	b.WriteString(" [")
	b.WriteString(string(i.Kind))
	b.WriteString("]")
	if i.Part != "" {
		b.WriteString(" ")
		b.WriteString(i.Part)
	}
	if i.Path != "" {
		b.WriteString(" ")
		b.WriteString(i.Path)
	}
	b.WriteString(": ")
	b.WriteString(i.Message)
	return b.String()
}

// Errorf creates an error-level issue.
func Errorf(kind Kind, path, format string, args ...interface{}) Issue {
	return Issue{Level: LevelError, Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Warnf creates a warning-level issue.
func Warnf(kind Kind, path, format string, args ...interface{}) Issue {
	return Issue{Level: LevelWarning, Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Issues is an ordered list of diagnostics.
type Issues []Issue

// HasErrors reports whether any issue is error-level.
func (is Issues) HasErrors() bool {
	for _, i := range is {
		if i.Level == LevelError {
			return true
		}
	}
	return false
}

// Count returns the number of issues of the given kind.
func (is Issues) Count(kind Kind) int {
	n := 0
	for _, i := range is {
		if i.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns the issues of the given kind.
func (is Issues) Filter(kind Kind) Issues {
	var out Issues
	for _, i := range is {
		if i.Kind == kind {
			out = append(out, i)
		}
	}
	return out
}

// Errors returns the number of error-level issues.
func (is Issues) Errors() int {
	n := 0
	for _, i := range is {
		if i.Level == LevelError {
			n++
		}
	}
	return n
}

// Warnings returns the number of warning-level issues.
func (is Issues) Warnings() int {
	return len(is) - is.Errors()
}

// InPart returns a copy with Part set on issues that have none.
func (is Issues) InPart(part string) Issues {
	out := make(Issues, len(is))
	for n, i := range is {
		if i.Part == "" {
			i.Part = part
		}
		out[n] = i
	}
	return out
}
