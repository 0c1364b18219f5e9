// Package output formats headless command results as table, JSON, or
// compact one-line-per-task text.
package output

import "os"

type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatTable
	FormatCompact
)

// Detect returns the format selected by flags, falling back to the
// ASTROCORE_OUTPUT environment variable and then to table.
func Detect(jsonFlag, compactFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}
	if compactFlag {
		return FormatCompact
	}
	switch os.Getenv("ASTROCORE_OUTPUT") {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	}
	return FormatTable
}
