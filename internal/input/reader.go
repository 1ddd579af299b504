// Package input reads interactive answers and secrets from the terminal.
//
// The tool is mostly non-interactive (renewal hooks run it unattended);
// the only prompts are init's overwrite confirmation and the passphrase
// for an encrypted SSH identity. Reader exists so command tests can
// script those answers.
package input

import (
	"bufio"
	"io"
	"os"
)

// Reader is an interface for reading user input
type Reader interface {
	ReadString(delim byte) (string, error)
}

// StdinReader wraps bufio.Reader for os.Stdin
type StdinReader struct {
	reader *bufio.Reader
}

// NewStdinReader creates a new StdinReader
func NewStdinReader() *StdinReader {
	return &StdinReader{
		reader: bufio.NewReader(os.Stdin),
	}
}

// ReadString reads until delimiter
func (r *StdinReader) ReadString(delim byte) (string, error) {
	return r.reader.ReadString(delim)
}

// StringReader scripts prompt answers for tests. Each input must already
// include the delimiter the caller will read with (e.g. "y\n").
type StringReader struct {
	inputs []string
	index  int
}

// NewStringReader creates a reader from pre-scripted answers.
func NewStringReader(inputs ...string) *StringReader {
	return &StringReader{inputs: inputs}
}

// ReadString returns the next scripted answer, ignoring delim, and io.EOF
// once all answers are consumed.
func (r *StringReader) ReadString(delim byte) (string, error) {
	if r.index >= len(r.inputs) {
		return "", io.EOF
	}
	result := r.inputs[r.index]
	r.index++
	return result, nil
}
