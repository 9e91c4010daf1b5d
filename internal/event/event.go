package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	FileCopied  Type = iota + 1
	FileSkipped      // destination file already exists
	FileMissing      // source (or its resolved original) does not exist
	DirCreated
	DirMerged    // destination directory already exists; children merged
	EntrySkipped // neither file nor directory (socket, broken symlink, ...)
	Excluded     // dropped by a filter rule
	CopyFailed
)

var typeNames = [...]string{
	FileCopied:   "FileCopied",
	FileSkipped:  "FileSkipped",
	FileMissing:  "FileMissing",
	DirCreated:   "DirCreated",
	DirMerged:    "DirMerged",
	EntrySkipped: "EntrySkipped",
	Excluded:     "Excluded",
	CopyFailed:   "CopyFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Skip reports whether the event records a non-fatal skip condition.
// Skip events are diagnostics only and never change the exit code.
func (t Type) Skip() bool {
	switch t {
	case FileSkipped, FileMissing, DirMerged, EntrySkipped, Excluded:
		return true
	}
	return false
}

// Event is a single per-item diagnostic from the copy engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // absolute source path the event refers to
	Size      int64  // bytes written (FileCopied only)
	Error     error  // cause (CopyFailed only)
}
