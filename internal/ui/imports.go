package ui

import "github.com/jadrian/tmcp/internal/event"

// Event is re-exported so presenters and callers share one type.
type Event = event.Event

// Re-export event types for convenience.
const (
	FileCopied   = event.FileCopied
	FileSkipped  = event.FileSkipped
	FileMissing  = event.FileMissing
	DirCreated   = event.DirCreated
	DirMerged    = event.DirMerged
	EntrySkipped = event.EntrySkipped
	Excluded     = event.Excluded
	CopyFailed   = event.CopyFailed
)
