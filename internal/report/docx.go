package report

import (
	"regexp"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*•]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// WriteDocx writes the same document Markdown produces as a styled .docx.
func WriteDocx(m *summarizer.Minutes, path string, now time.Time) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	for _, line := range docxLines(Markdown(m, now)) {
		p := doc.AddParagraph("")
		switch line.kind {
		case lineHeading:
			addStyledRun(p, line.text, true, headingSize(line.level))
		case lineBullet:
			addRichText(p, "• "+line.text)
		default:
			addRichText(p, line.text)
		}
	}

	return doc.SaveTo(path)
}

type lineKind int

const (
	lineText lineKind = iota
	lineHeading
	lineBullet
)

type docLine struct {
	kind  lineKind
	level int
	text  string
}

// docxLines classifies markdown lines; blank lines and rules are dropped.
func docxLines(markdown string) []docLine {
	var out []docLine
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			out = append(out, docLine{kind: lineHeading, level: len(m[1]), text: m[2]})
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			out = append(out, docLine{kind: lineBullet, text: m[1]})
			continue
		}
		if reNumbered.MatchString(trimmed) {
			out = append(out, docLine{kind: lineText, text: trimmed})
			continue
		}
		out = append(out, docLine{kind: lineText, text: strings.Trim(trimmed, "_")})
	}
	return out
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
