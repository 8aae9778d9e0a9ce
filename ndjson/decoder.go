// Package ndjson decodes newline-delimited JSON event streams into
// [wenyan.Event] values.
package ndjson

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder splits a byte stream into text records, one per line.
//
// Bytes pass through a streaming UTF-8 decoder first, so a multi-byte
// character split across reads is reassembled and an invalid sequence turns
// into U+FFFD instead of failing the stream. A line still missing its
// newline when the stream ends is returned as a final best-effort record.
type Decoder struct {
	r   *bufio.Reader
	err error // terminal error, if any
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r: bufio.NewReader(transform.NewReader(r, unicode.UTF8.NewDecoder())),
	}
}

// Next returns the next non-blank record with its line terminator and
// surrounding whitespace removed. It returns io.EOF after the last record.
// Any other error comes from the underlying reader; a record that was
// partially read when it occurred is dropped.
func (d *Decoder) Next() (string, error) {
	for d.err == nil {
		line, err := d.r.ReadString('\n')
		if err != nil {
			d.err = err
			if err != io.EOF {
				return "", err
			}
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	return "", d.err
}
