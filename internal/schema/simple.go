package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Lexical is the primitive value space a simple type draws from.
type Lexical int

const (
	LexicalString Lexical = iota
	LexicalInteger
	LexicalDouble
	LexicalBoolean
	LexicalDateTime
)

// DateTimeLayout is the canonical dateTime spelling written to documents.
const DateTimeLayout = "2006-01-02T15:04:05Z"

// SimpleType is a scalar type with a lexical space and optional facet check.
type SimpleType struct {
	TypeName string
	NS       Namespace
	Base     *SimpleType
	Lexical  Lexical

	// Check validates a lexically valid text against additional facets.
	Check func(text string) error
}

func (t *SimpleType) Name() string         { return t.TypeName }
func (t *SimpleType) Namespace() Namespace { return t.NS }
func (t *SimpleType) Kind() Kind           { return KindSimple }

// DerivesFrom reports whether t is base or restricts it.
func (t *SimpleType) DerivesFrom(base *SimpleType) bool {
	for c := t; c != nil; c = c.Base {
		if c == base {
			return true
		}
	}
	return false
}

// Validate checks text against the type's lexical space and every facet
// along its base chain.
func (t *SimpleType) Validate(text string) error {
	if err := validateLexical(t.Lexical, text); err != nil {
		return fmt.Errorf("%s: %w", QualifiedName(t), err)
	}
	for c := t; c != nil; c = c.Base {
		if c.Check == nil {
			continue
		}
		if err := c.Check(text); err != nil {
			return fmt.Errorf("%s: %w", QualifiedName(t), err)
		}
	}
	return nil
}

func validateLexical(l Lexical, text string) error {
	switch l {
	case LexicalInteger:
		if _, err := strconv.ParseInt(text, 10, 64); err != nil {
			return fmt.Errorf("invalid integer %q", text)
		}
	case LexicalDouble:
		if _, err := ParseDouble(text); err != nil {
			return err
		}
	case LexicalBoolean:
		if _, err := ParseBoolean(text); err != nil {
			return err
		}
	case LexicalDateTime:
		if _, err := ParseDateTime(text); err != nil {
			return err
		}
	}
	return nil
}

// ParseDouble parses an xsd:double, including INF, -INF and NaN.
func ParseDouble(text string) (float64, error) {
	switch text {
	case "INF":
		text = "+Inf"
	case "-INF":
		text = "-Inf"
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid double %q", text)
	}
	return f, nil
}

// FormatDouble writes a float64 in a form ParseDouble accepts.
func FormatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	switch s {
	case "+Inf":
		return "INF"
	case "-Inf":
		return "-INF"
	}
	return s
}

// ParseBoolean parses an xsd:boolean.
func ParseBoolean(text string) (bool, error) {
	switch strings.ToLower(text) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", text)
}

// ParseDateTime accepts the canonical layout and RFC 3339 timestamps.
func ParseDateTime(text string) (time.Time, error) {
	if t, err := time.Parse(DateTimeLayout, text); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid dateTime %q", text)
}

// FormatDateTime writes t in the canonical UTC layout.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}
