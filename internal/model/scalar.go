package model

import (
	"strconv"
	"time"

	"github.com/aidanlsb/resqpack/internal/schema"
)

// Scalar is a simple-typed value held in its lexical form.
type Scalar struct {
	Type *schema.SimpleType
	Text string
}

func (Scalar) isValue() {}

// Enum is a symbol of an enumeration.
type Enum struct {
	Type   *schema.EnumType
	Symbol string
}

func (Enum) isValue() {}

// Text creates a scalar from its lexical form without validation.
func Text(t *schema.SimpleType, text string) Scalar {
	return Scalar{Type: t, Text: text}
}

// Int creates an integer-valued scalar.
func Int(t *schema.SimpleType, n int64) Scalar {
	return Scalar{Type: t, Text: strconv.FormatInt(n, 10)}
}

// Float creates a double-valued scalar.
func Float(t *schema.SimpleType, f float64) Scalar {
	return Scalar{Type: t, Text: schema.FormatDouble(f)}
}

// Bool creates a boolean scalar.
func Bool(t *schema.SimpleType, b bool) Scalar {
	return Scalar{Type: t, Text: strconv.FormatBool(b)}
}

// Time creates a dateTime scalar.
func Time(t *schema.SimpleType, tm time.Time) Scalar {
	return Scalar{Type: t, Text: schema.FormatDateTime(tm)}
}

// Symbol creates an enum value.
func Symbol(t *schema.EnumType, symbol string) Enum {
	return Enum{Type: t, Symbol: symbol}
}

// Validate checks the text against the scalar's type.
func (s Scalar) Validate() error {
	return s.Type.Validate(s.Text)
}

// Int parses the scalar as an integer.
func (s Scalar) Int() (int64, error) {
	return strconv.ParseInt(s.Text, 10, 64)
}

// Float parses the scalar as a double.
func (s Scalar) Float() (float64, error) {
	return schema.ParseDouble(s.Text)
}

// Bool parses the scalar as a boolean.
func (s Scalar) Bool() (bool, error) {
	return schema.ParseBoolean(s.Text)
}

// Time parses the scalar as a dateTime.
func (s Scalar) Time() (time.Time, error) {
	return schema.ParseDateTime(s.Text)
}
