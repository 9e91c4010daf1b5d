package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/jadrian/tmcp/internal/stats"
)

// CompletionSummary renders the end-of-run summary line.
func CompletionSummary(s stats.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "copied %s in %d files and %d dirs (%s)",
		stats.FormatBytes(s.BytesCopied), s.FilesCopied, s.DirsCreated,
		FormatDuration(s.Elapsed))
	if skipped := s.FilesSkipped + s.FilesMissing; skipped > 0 {
		fmt.Fprintf(&b, ", skipped %d", skipped)
	}
	if s.DirsMerged > 0 {
		fmt.Fprintf(&b, ", merged %d dirs", s.DirsMerged)
	}
	if s.Errors > 0 {
		fmt.Fprintf(&b, ", %d errors", s.Errors)
	}
	return b.String()
}

// FormatDuration formats elapsed time concisely.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// StripRoot removes a root prefix from a path, returning a clean
// relative path.
func StripRoot(root, path string) string {
	if root == "" {
		return path
	}
	stripped := strings.TrimPrefix(path, root)
	return strings.TrimPrefix(stripped, "/")
}
