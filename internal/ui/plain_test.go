package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jadrian/tmcp/internal/event"
	"github.com/jadrian/tmcp/internal/stats"
)

func runPlain(t *testing.T, verbose bool, evs ...Event) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	p := &plainPresenter{w: &out, errW: &errOut, stats: stats.NewCollector(), verbose: verbose}

	events := make(chan Event, len(evs))
	for _, ev := range evs {
		events <- ev
	}
	close(events)

	assert.NoError(t, p.Run(events))
	return out.String(), errOut.String()
}

func TestPlainPresenterSkips(t *testing.T) {
	out, errOut := runPlain(t, false,
		Event{Type: event.FileSkipped, Path: "/dst/Foo.txt"},
		Event{Type: event.FileMissing, Path: "/src/gone.txt"},
		Event{Type: event.EntrySkipped, Path: "/src/sock"},
	)

	assert.Empty(t, out, "diagnostics must not land on stdout")
	lines := strings.Split(strings.TrimSpace(errOut), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "destination already exists: /dst/Foo.txt")
	assert.Contains(t, lines[1], "no such file or directory: /src/gone.txt")
	assert.Contains(t, lines[2], "not a regular file or directory: /src/sock")
}

func TestPlainPresenterVerboseCopies(t *testing.T) {
	out, errOut := runPlain(t, true,
		Event{Type: event.FileCopied, Path: "/src/a.txt", Size: 2048},
		Event{Type: event.DirCreated, Path: "/src/Music"},
		Event{Type: event.DirMerged, Path: "/src/Music/Nirvana"},
	)

	assert.Contains(t, out, "/src/a.txt")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "/src/Music/")
	assert.Contains(t, errOut, "merge: destination dir already exists")
}

func TestPlainPresenterQuietByDefault(t *testing.T) {
	out, errOut := runPlain(t, false,
		Event{Type: event.FileCopied, Path: "/src/a.txt", Size: 2048},
		Event{Type: event.DirMerged, Path: "/src/Music"},
		Event{Type: event.Excluded, Path: "/src/Caches"},
	)
	assert.Empty(t, out)
	assert.Empty(t, errOut)
}

func TestPlainPresenterCopyFailed(t *testing.T) {
	_, errOut := runPlain(t, false,
		Event{Type: event.CopyFailed, Path: "/src/a.txt", Error: assert.AnError},
	)
	assert.Contains(t, errOut, "/src/a.txt")
	assert.Contains(t, errOut, assert.AnError.Error())
}

func TestPlainPresenterStripsRoot(t *testing.T) {
	var out, errOut bytes.Buffer
	p := &plainPresenter{
		w: &out, errW: &errOut,
		stats: stats.NewCollector(), verbose: true,
		root: "/backup/2012-01-31-083451",
	}

	events := make(chan Event, 2)
	events <- Event{Type: event.FileCopied, Path: "/backup/2012-01-31-083451/Music/a.mp3", Size: 1}
	events <- Event{Type: event.FileSkipped, Path: "/backup/2012-01-31-083451/Foo.txt"}
	close(events)

	assert.NoError(t, p.Run(events))
	assert.Contains(t, out.String(), "Music/a.mp3")
	assert.NotContains(t, out.String(), "/backup/")
	assert.Contains(t, errOut.String(), "destination already exists: Foo.txt")
}

func TestPlainPresenterSummary(t *testing.T) {
	collector := stats.NewCollector()
	collector.AddFilesCopied(100)
	collector.AddBytesCopied(1024 * 1024)
	collector.AddFilesSkipped(3)

	p := &plainPresenter{stats: collector}
	s := p.Summary()
	assert.Contains(t, s, "100 files")
	assert.Contains(t, s, "1.0 MiB")
	assert.Contains(t, s, "skipped 3")
}

func TestQuietPresenter(t *testing.T) {
	p := NewPresenter(Config{Quiet: true, Stats: stats.NewCollector()})

	events := make(chan Event, 1)
	events <- Event{Type: event.FileCopied, Path: "x"}
	close(events)

	assert.NoError(t, p.Run(events))
	assert.Empty(t, p.Summary())
}

func TestStripRoot(t *testing.T) {
	assert.Equal(t, "sub/file.txt", StripRoot("/home/user/dst", "/home/user/dst/sub/file.txt"))
	assert.Equal(t, "file.txt", StripRoot("/home/user/dst", "/home/user/dst/file.txt"))
	assert.Equal(t, "/elsewhere/f", StripRoot("/home/user/dst", "/elsewhere/f"))
	assert.Equal(t, "a/b", StripRoot("", "a/b"))
}
