package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aidanlsb/resqpack/internal/check"
)

// Response is the envelope of every --json output.
type Response struct {
	OK       bool        `json:"ok"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty"`
}

// ErrorInfo describes a failed command.
type ErrorInfo struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Warning is a diagnostic that did not stop the command.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Part    string `json:"part,omitempty"`
	Path    string `json:"path,omitempty"`
}

// Meta carries result counts and timing.
type Meta struct {
	Count     int   `json:"count,omitempty"`
	ElapsedMs int64 `json:"elapsed_ms,omitempty"`
}

// errReported marks an error whose JSON envelope has already been written.
var errReported = errors.New("error reported")

var jsonOutput bool

func isJSONOutput() bool { return jsonOutput }

func newMeta(count int, start time.Time) *Meta {
	return &Meta{Count: count, ElapsedMs: time.Since(start).Milliseconds()}
}

// write prints r to stdout, indented.
func (r Response) write() {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(r)
}

func outputSuccess(data interface{}, meta *Meta) {
	Response{OK: true, Data: data, Meta: meta}.write()
}

func outputSuccessWithWarnings(data interface{}, warnings []Warning, meta *Meta) {
	Response{OK: true, Data: data, Warnings: warnings, Meta: meta}.write()
}

func outputError(code, message string, details interface{}, suggestion string) {
	Response{Error: &ErrorInfo{Code: code, Message: message, Details: details, Suggestion: suggestion}}.write()
}

// handleError reports err under code. In JSON mode the envelope is written
// here and the returned error wraps errReported; in text mode the suggestion
// is appended for the caller to print.
func handleError(code string, err error, suggestion string) error {
	return handleErrorWithDetails(code, err, suggestion, nil)
}

func handleErrorWithDetails(code string, err error, suggestion string, details interface{}) error {
	switch {
	case jsonOutput:
		outputError(code, err.Error(), details, suggestion)
		return fmt.Errorf("%w: %w", errReported, err)
	case suggestion == "":
		return err
	default:
		return fmt.Errorf("%w\n\n%s", err, suggestion)
	}
}

// warningCode spells an issue kind as an envelope code: dangling-reference
// becomes DANGLING_REFERENCE.
func warningCode(k check.Kind) string {
	return strings.ToUpper(strings.ReplaceAll(string(k), "-", "_"))
}

func issueWarnings(issues check.Issues) []Warning {
	var out []Warning
	for _, i := range issues {
		out = append(out, Warning{Code: warningCode(i.Kind), Message: i.Message, Part: i.Part, Path: i.Path})
	}
	return out
}
