package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks copy run statistics using lock-free atomic counters.
type Collector struct {
	filesCopied  atomic.Int64
	filesSkipped atomic.Int64
	filesMissing atomic.Int64
	dirsCreated  atomic.Int64
	dirsMerged   atomic.Int64
	bytesCopied  atomic.Int64
	errors       atomic.Int64
	startTime    time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesCopied  int64
	FilesSkipped int64
	FilesMissing int64
	DirsCreated  int64
	DirsMerged   int64
	BytesCopied  int64
	Errors       int64
	Elapsed      time.Duration
}

func (c *Collector) AddFilesCopied(n int64)  { c.filesCopied.Add(n) }
func (c *Collector) AddFilesSkipped(n int64) { c.filesSkipped.Add(n) }
func (c *Collector) AddFilesMissing(n int64) { c.filesMissing.Add(n) }
func (c *Collector) AddDirsCreated(n int64)  { c.dirsCreated.Add(n) }
func (c *Collector) AddDirsMerged(n int64)   { c.dirsMerged.Add(n) }
func (c *Collector) AddBytesCopied(n int64)  { c.bytesCopied.Add(n) }
func (c *Collector) AddErrors(n int64)       { c.errors.Add(n) }

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesCopied:  c.filesCopied.Load(),
		FilesSkipped: c.filesSkipped.Load(),
		FilesMissing: c.filesMissing.Load(),
		DirsCreated:  c.dirsCreated.Load(),
		DirsMerged:   c.dirsMerged.Load(),
		BytesCopied:  c.bytesCopied.Load(),
		Errors:       c.errors.Load(),
		Elapsed:      c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"copied=%d skipped=%d missing=%d dirs=%d merged=%d bytes=%d errors=%d",
		s.FilesCopied, s.FilesSkipped, s.FilesMissing,
		s.DirsCreated, s.DirsMerged, s.BytesCopied, s.Errors,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
