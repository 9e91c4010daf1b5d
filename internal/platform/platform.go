// Package platform provides whole-file byte copies using the fastest
// primitive the OS offers, falling back to a plain read/write loop.
package platform

// Method identifies which syscall/strategy was used for a copy.
type Method int

const (
	ReadWrite     Method = iota
	CopyFileRange        // Linux copy_file_range(2)
	Sendfile             // Linux sendfile(2)
	Clonefile            // macOS clonefile(2)
)

func (m Method) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	case Sendfile:
		return "sendfile"
	case Clonefile:
		return "clonefile"
	default:
		return "unknown"
	}
}

// Result reports the outcome of a copy operation.
type Result struct {
	BytesWritten int64
	Method       Method
}
