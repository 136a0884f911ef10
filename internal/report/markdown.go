// Package report renders finished minutes as markdown and .docx.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
)

const emptyBlock = "_Nothing to report._"

// Markdown renders m as a markdown document.
func Markdown(m *summarizer.Minutes, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", m.Source)
	fmt.Fprintf(&b, "_%s · %d entries · %d chunks_\n\n", now.Format("2006-01-02 15:04"), m.Entries, m.Chunks)

	b.WriteString("## Summary\n\n")
	b.WriteString(block(m.Summary))
	b.WriteString("\n\n## Action Items\n\n")
	b.WriteString(block(m.ActionItems))
	b.WriteString("\n")

	return b.String()
}

// Text renders m for a terminal.
func Text(m *summarizer.Minutes) string {
	return "Summary\n\n" + block(m.Summary) + "\n\nAction Items\n\n" + block(m.ActionItems) + "\n"
}

func block(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return emptyBlock
	}
	return s
}
