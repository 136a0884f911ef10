package summarizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/meeting-minutes/internal/completion"
)

// ErrMalformedAnswer is returned when a structured chunk answer is not the
// requested JSON object.
var ErrMalformedAnswer = errors.New("malformed structured answer")

const unanswered = "NA"

// parseAnswers decodes {"Q1": "...", ...}. Models like to wrap JSON in code
// fences, so those are stripped first. Missing keys count as unanswered.
func parseAnswers(text string, questions int) ([]string, error) {
	raw := strings.TrimSpace(text)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, &completion.ServiceError{
			Provider: "parse",
			Err:      fmt.Errorf("%w: %v", ErrMalformedAnswer, err),
		}
	}

	answers := make([]string, questions)
	for i := range answers {
		answers[i] = answerText(fields[questionKey(i)])
	}
	return answers, nil
}

// answerText accepts a JSON string or any other JSON value, which is kept in
// its compact encoding.
func answerText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return unanswered
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return unanswered
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// collate groups answers by question, chunk order within each question.
func (s *implSummarizer) collate(results []CompletionResult) (string, error) {
	var b strings.Builder
	for qi, q := range s.opts.Questions {
		b.WriteString("\n\nQuestion: " + q + "\n\n")
		for _, r := range results {
			if len(r.Answers) != len(s.opts.Questions) {
				return "", fmt.Errorf("chunk %d has %d answers, want %d", r.ChunkIndex, len(r.Answers), len(s.opts.Questions))
			}
			b.WriteString("\n" + r.Answers[qi])
		}
	}
	return b.String(), nil
}
