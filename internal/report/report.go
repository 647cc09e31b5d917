// Package report renders the markdown digest and maintains the archive
// and the rolling latest pointer.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Writer persists digest documents: one dated file per run under the
// archives directory plus a README that always points at (and embeds)
// the most recent digest.
type Writer interface {
	Write(date time.Time, content string) (string, error)
	UpdateLatest(reportPath, content string) error
}

// FileWriter writes the archive tree on the local filesystem.
type FileWriter struct {
	ArchivesDir string
	ReadmePath  string
	log         *slog.Logger
}

var _ Writer = (*FileWriter)(nil)

func NewFileWriter(archivesDir, readmePath string, log *slog.Logger) *FileWriter {
	return &FileWriter{ArchivesDir: archivesDir, ReadmePath: readmePath, log: log}
}

// Write stores the digest as archives/YYYY-MM-DD.md and returns the path.
func (w *FileWriter) Write(date time.Time, content string) (string, error) {
	if err := os.MkdirAll(w.ArchivesDir, 0o755); err != nil {
		return "", fmt.Errorf("report: failed to create archives dir: %w", err)
	}

	path := filepath.Join(w.ArchivesDir, date.Format("2006-01-02")+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("report: failed to write %s: %w", path, err)
	}

	w.log.Info("report saved", slog.String("path", path))
	return path, nil
}

// UpdateLatest rewrites the README so it links to and embeds the newest
// digest.
func (w *FileWriter) UpdateLatest(reportPath, content string) error {
	var b strings.Builder
	b.WriteString("# Auto-RSS-Digest\n\n")
	b.WriteString("🤖 AI-powered RSS digest, generated automatically on a daily schedule.\n\n")
	b.WriteString("## 📰 Latest Digest\n\n")
	fmt.Fprintf(&b, "👉 [View Full Report](%s)\n\n---\n\n", filepath.ToSlash(reportPath))
	b.WriteString(content)
	b.WriteString("\n---\n\n## 📚 Archives\n\n")
	fmt.Fprintf(&b, "Browse all daily digests in the [`%s/`](./%s) directory.\n", w.ArchivesDir, w.ArchivesDir)

	if err := os.WriteFile(w.ReadmePath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("report: failed to update %s: %w", w.ReadmePath, err)
	}

	w.log.Info("latest pointer updated", slog.String("path", w.ReadmePath))
	return nil
}
