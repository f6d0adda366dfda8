// Package errs is the single import for error construction across layers. It
// keeps cockroachdb/errors' stack capture and marks behind a small surface.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return cr.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark tags err so Is(err, markErr) holds without changing its message.
// A nil err yields markErr itself.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// Is reports whether err matches reference by identity or by mark.
func Is(err, reference error) bool {
	return cr.Is(err, reference)
}

func As(err error, target any) bool {
	return cr.As(err, target)
}

// ExtractStackLines renders err with its stack and keeps the first maxLines
// non-blank lines. maxLines <= 0 keeps everything.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	var lines []string
	for line := range strings.SplitSeq(fmt.Sprintf("%+v", err), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if maxLines > 0 && len(lines) == maxLines {
			break
		}
	}
	return lines
}
