package summarizer

import (
	"fmt"
	"strings"
)

const transcriptFormat = `You are a meeting minute taker. You accept meeting minutes in the following format:

<Start Time> --> <Stop Time> <v Person's name>Things they say</v>
`

const chunkNotesPrompt = transcriptFormat + `
The text you receive is one consecutive part of a longer meeting. Write concise notes for it:
- every decision, problem raised, request and commitment
- attribute each point to the person who made it
- keep names, numbers and dates exactly as spoken

Respond with the notes only.`

const summaryPrompt = `Your task is to summarize notes compiled from consecutive parts of one meeting.

Summarize the provided text in at most %d words. Keep the order in which topics came up and do not invent anything that is not in the text.`

const actionItemsPrompt = `Your task is to extract action items from notes compiled from consecutive parts of one meeting.

List every action item as a bulleted list, one per line, in the form:
- <Owner>: <task>

Merge duplicates. If there are none, respond with 'NA'.`

// chunkPrompt is the preamble sent with every chunk.
func (s *implSummarizer) chunkPrompt() string {
	if !s.opts.Structured {
		return chunkNotesPrompt
	}

	var b strings.Builder
	b.WriteString(transcriptFormat)
	b.WriteString("\nYou will answer the following questions:\n\n")
	for i, q := range s.opts.Questions {
		fmt.Fprintf(&b, "%d. %s If there are none, respond with 'NA'.\n", i+1, q)
	}
	b.WriteString("\nUse the following format:\n{")
	for i := range s.opts.Questions {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: \"<Answer>\"", questionKey(i))
	}
	b.WriteString("}\n")
	return b.String()
}

func (s *implSummarizer) summaryPrompt() string {
	return fmt.Sprintf(summaryPrompt, s.opts.SummaryWords)
}

func questionKey(i int) string {
	return fmt.Sprintf("Q%d", i+1)
}
