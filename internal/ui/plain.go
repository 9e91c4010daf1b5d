package ui

import (
	"fmt"
	"io"

	"github.com/jadrian/tmcp/internal/event"
	"github.com/jadrian/tmcp/internal/stats"
)

// plainPresenter writes copied-file lines to stdout and skip/error
// diagnostics to stderr. Skip diagnostics never affect the exit code, so
// they stay off stdout where scripted callers read results.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   *stats.Collector
	verbose bool
	root    string
}

func (p *plainPresenter) Run(events <-chan Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	return nil
}

func (p *plainPresenter) handleEvent(ev Event) {
	out := p.writerFor(ev.Type)
	path := StripRoot(p.root, ev.Path)

	switch ev.Type {
	case event.FileCopied:
		if p.verbose {
			fmt.Fprintf(out, "%s  %s\n", path, stats.FormatBytes(ev.Size))
		}
	case event.DirCreated:
		if p.verbose {
			fmt.Fprintf(out, "%s/\n", path)
		}
	case event.FileSkipped:
		fmt.Fprintf(out, "skip: destination already exists: %s\n", path)
	case event.FileMissing:
		fmt.Fprintf(out, "skip: no such file or directory: %s\n", path)
	case event.DirMerged:
		if p.verbose {
			fmt.Fprintf(out, "merge: destination dir already exists: %s\n", path)
		}
	case event.EntrySkipped:
		fmt.Fprintf(out, "skip: not a regular file or directory: %s\n", path)
	case event.Excluded:
		if p.verbose {
			fmt.Fprintf(out, "skip: excluded: %s\n", path)
		}
	case event.CopyFailed:
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(out, "error: %s: %s\n", path, errMsg)
	}
}

// writerFor routes an event to a stream: skip diagnostics and failures
// belong on stderr, copy progress on stdout.
func (p *plainPresenter) writerFor(t event.Type) io.Writer {
	if t.Skip() || t == event.CopyFailed {
		return p.errW
	}
	return p.w
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
