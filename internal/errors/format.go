// Package errors provides error formatting for releasewarrior CLI output.
package errors

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// PrintOptions controls error output formatting.
type PrintOptions struct {
	// Verbose enables the extra: section with every detail key.
	Verbose bool
}

// Context keys printed in default mode, in this order.
var defaultContextKeys = []string{
	"op",
	"release",
	"location",
	"data",
	"wiki",
	"index",
	"template",
	"command",
	"exit_code",
}

const (
	maxValueLen      = 256
	maxExtraValueLen = 128
)

// Format formats an error for display without I/O.
func Format(err error, opts PrintOptions) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	e, ok := AsError(err)
	if !ok {
		sb.WriteString(err.Error())
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString("error_code: ")
	sb.WriteString(string(e.Code))
	sb.WriteString("\n")
	sb.WriteString(e.Msg)
	sb.WriteString("\n")

	printed := make(map[string]bool)
	wroteContext := false
	for _, key := range defaultContextKeys {
		val, ok := e.Details[key]
		if !ok || val == "" {
			continue
		}
		if !wroteContext {
			sb.WriteString("\n")
			wroteContext = true
		}
		printed[key] = true
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(sanitizeValue(val, maxValueLen))
		sb.WriteString("\n")
	}

	if opts.Verbose {
		var extraKeys []string
		for key, val := range e.Details {
			if !printed[key] && key != "hint" && val != "" {
				extraKeys = append(extraKeys, key)
			}
		}
		if len(extraKeys) > 0 {
			sort.Strings(extraKeys)
			sb.WriteString("\nextra:\n")
			for _, key := range extraKeys {
				sb.WriteString("  ")
				sb.WriteString(key)
				sb.WriteString(": ")
				sb.WriteString(sanitizeValue(e.Details[key], maxExtraValueLen))
				sb.WriteString("\n")
			}
		}
		if e.Cause != nil {
			sb.WriteString("\ncause: ")
			sb.WriteString(sanitizeValue(e.Cause.Error(), maxValueLen))
			sb.WriteString("\n")
		}
	}

	if hint := e.Details["hint"]; hint != "" {
		sb.WriteString("\nhint: ")
		sb.WriteString(hint)
		sb.WriteString("\n")
	}

	for _, try := range deriveTryLines(e) {
		sb.WriteString("try: ")
		sb.WriteString(try)
		sb.WriteString("\n")
	}

	return sb.String()
}

// PrintWithOptions writes a formatted error to w with the given options.
func PrintWithOptions(w io.Writer, err error, opts PrintOptions) {
	if err == nil {
		return
	}
	_, _ = io.WriteString(w, Format(err, opts))
}

// sanitizeValue flattens a value onto one line and truncates it to maxLen.
func sanitizeValue(val string, maxLen int) string {
	val = strings.TrimRight(val, " \t\r\n")
	val = strings.ReplaceAll(val, "\r\n", "\n")
	val = strings.ReplaceAll(val, "\n", "\\n")
	if len(val) > maxLen {
		return val[:maxLen] + "…"
	}
	return val
}

// deriveTryLines returns actionable suggestions based on error code.
func deriveTryLines(e *Error) []string {
	if e == nil {
		return nil
	}

	var lines []string

	switch e.Code {
	case EUntrackedRelease:
		if product, version := e.Details["product"], e.Details["version"]; product != "" && version != "" {
			lines = append(lines, fmt.Sprintf("releasewarrior track %s %s --date YYYY-MM-DD", product, version))
		}
	case EAlreadyTracked:
		if e.Details["location"] == "upcoming" {
			lines = append(lines, "rerun with --force to regenerate the upcoming document")
		}
	case EPipelineDirty:
		lines = append(lines, "git -C <release_pipeline_repo> status", "rerun with --allow-dirty")
	case EInvalidConfig, ENoPipelineRepo:
		lines = append(lines, "releasewarrior init")
	}

	return lines
}

// GetHint extracts the hint from an error's details, if present.
func GetHint(err error) string {
	e, ok := AsError(err)
	if !ok {
		return ""
	}
	return e.Details["hint"]
}
