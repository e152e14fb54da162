package jobfile

import (
	"bytes"
	"strconv"
)

// Descriptor accumulates the `key = value` lines of a submit descriptor.
type Descriptor struct {
	lines []string
}

// Set appends a `key = value` directive.
func (d *Descriptor) Set(key, value string) {
	d.lines = append(d.lines, key+" = "+value)
}

// SetBool appends a boolean directive in the scheduler's True/False spelling.
func (d *Descriptor) SetBool(key string, value bool) {
	if value {
		d.Set(key, "True")
		return
	}
	d.Set(key, "False")
}

// SetInt appends an integer directive.
func (d *Descriptor) SetInt(key string, value int) {
	d.Set(key, strconv.Itoa(value))
}

// Raw appends a line verbatim.
func (d *Descriptor) Raw(lines ...string) {
	d.lines = append(d.lines, lines...)
}

// Queue appends a queue statement. Counts below one queue a single job.
func (d *Descriptor) Queue(n int) {
	if n > 0 {
		d.lines = append(d.lines, "queue "+strconv.Itoa(n))
		return
	}
	d.lines = append(d.lines, "queue")
}

// Lines returns a copy of the lines written so far.
func (d *Descriptor) Lines() []string {
	return append([]string(nil), d.lines...)
}

// Bytes renders the descriptor.
func (d *Descriptor) Bytes() []byte {
	var buf bytes.Buffer
	for _, l := range d.lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
