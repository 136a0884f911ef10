package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/meeting-minutes/internal/report"
	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
)

// WriteReports writes <source>.md, and <source>.docx when enabled, into the
// output folder
func (p *implProcessor) WriteReports(ctx context.Context, m *summarizer.Minutes) error {
	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	now := p.now()
	mdPath := filepath.Join(p.cfg.Paths.Output, m.Source+".md")
	if err := os.WriteFile(mdPath, []byte(report.Markdown(m, now)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}
	p.logger.Info(ctx, "Report written: %s", mdPath)

	if p.cfg.Output.Docx {
		docxPath := filepath.Join(p.cfg.Paths.Output, m.Source+".docx")
		if err := report.WriteDocx(m, docxPath, now); err != nil {
			return fmt.Errorf("write %s: %w", docxPath, err)
		}
		p.logger.Info(ctx, "Report written: %s", docxPath)
	}

	return nil
}
