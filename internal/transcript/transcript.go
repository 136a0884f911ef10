// Package transcript reads meeting transcripts and splits them into
// utterance entries.
//
// A transcript line looks like
//
//	00:00:01.000 --> 00:00:04.000
//	<v Alice>Morning everyone.</v>
//
// Only the closing voice tag is significant. Timestamps and speaker names are
// left inside the entry text untouched.
package transcript

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Delimiter closes every utterance.
const Delimiter = "</v>"

// ErrNotUTF8 is returned when the input cannot be decoded as UTF-8.
var ErrNotUTF8 = errors.New("transcript is not valid UTF-8")

var supportedExtensions = []string{".vtt", ".txt"}

// Read decodes r as UTF-8 text and trims surrounding whitespace.
func Read(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	if !utf8.Valid(data) {
		return "", ErrNotUTF8
	}
	return strings.TrimSpace(string(data)), nil
}

// ReadFile is Read over the file at path.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	text, err := Read(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// Split cuts text on every Delimiter. Each fragment is trimmed and gets the
// delimiter back; whatever follows the last delimiter is discarded, so text
// without any delimiter yields no entries.
func Split(text string) []string {
	parts := strings.Split(text, Delimiter)
	if len(parts) < 2 {
		return nil
	}

	entries := make([]string, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		entries = append(entries, strings.TrimSpace(p)+Delimiter)
	}
	return entries
}

// DropHeader removes the first entry. In a WebVTT file it carries the
// "WEBVTT" header block glued to the first utterance.
func DropHeader(entries []string) []string {
	if len(entries) == 0 {
		return nil
	}
	return entries[1:]
}

// IsTranscriptFile reports whether path has a supported transcript extension
func IsTranscriptFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range supportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
