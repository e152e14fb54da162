package fsutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/specialistvlad/jobgraph/internal/nodeid"
)

// MaxSequence is the last sequence number a two-digit suffix can hold.
const MaxSequence = 99

// ErrSequenceExhausted is returned when every two-digit sequence number of
// a day is already taken.
var ErrSequenceExhausted = errors.New("no sequence number left for this date")

// NextSequence returns the next sequence number for decorated artifacts of
// name on date: one more than the number of files in dir already named
// `<name>_<date>_<NN><ext>` with exactly two characters in place of NN.
// Names are matched literally, so they may contain any character.
//
// The count is taken from a directory listing, not a persisted counter. Two
// processes scanning the same directory at the same moment can pick the same
// number and overwrite each other's artifact. A missing directory counts as
// empty.
func NextSequence(dir, name, date, ext string) (int, error) {
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("scanning %s: %w", dir, err)
	}

	prefix := nodeid.SequencePrefix(name, date)
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if matchesSequence(e.Name(), prefix, ext) {
			count++
		}
	}
	if count >= MaxSequence {
		return 0, fmt.Errorf("%w: %d artifacts named %s??%s exist in %s", ErrSequenceExhausted, count, prefix, ext, dir)
	}
	return count + 1, nil
}

func matchesSequence(file, prefix, ext string) bool {
	if !strings.HasPrefix(file, prefix) || !strings.HasSuffix(file, ext) {
		return false
	}
	if len(file) < len(prefix)+len(ext) {
		return false
	}
	return utf8.RuneCountInString(file[len(prefix):len(file)-len(ext)]) == 2
}
