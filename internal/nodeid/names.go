// internal/nodeid/names.go
package nodeid

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// disallowedChars are rejected in node names by newer scheduler releases.
const disallowedChars = ".+"

// DateLayout is the date stamp used in decorated names.
const DateLayout = "20060102"

// ErrEmptyName is returned by Validate for an empty node name.
var ErrEmptyName = errors.New("node name cannot be empty")

// Validate checks that a logical node name is usable.
func Validate(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	return nil
}

// SubNodeName returns the compiled name of the argument record at index.
// Named records use the record name, unnamed records their position.
func SubNodeName(base string, index int, argName string) string {
	if argName != "" {
		return base + "_" + argName
	}
	return fmt.Sprintf("%s_arg_%d", base, index)
}

// DisplayName returns the job_name binding used for log, output and error
// file names. Unnamed records share the unit's compiled name.
func DisplayName(base, argName string) string {
	if argName != "" {
		return base + "_" + argName
	}
	return base
}

// HasDisallowedChars reports whether name contains '.' or '+'.
func HasDisallowedChars(name string) bool {
	return strings.ContainsAny(name, disallowedChars)
}

// DateStamp formats t for decorated names.
func DateStamp(t time.Time) string {
	return t.Format(DateLayout)
}

// Decorated returns `<name>_<date>_<seq>` with a two-digit sequence.
func Decorated(name, date string, seq int) string {
	return fmt.Sprintf("%s_%s_%02d", name, date, seq)
}

// SequencePrefix returns the literal prefix shared by the decorated names
// of one day.
func SequencePrefix(name, date string) string {
	return name + "_" + date + "_"
}
