package archive

import (
	"fmt"
	"os"
)

// Resolver maps a path inside a backup snapshot to the real path holding
// its content. Implementations must be read-only and must never return a
// path outside the archive root they were built for.
type Resolver interface {
	// ResolveOriginal returns the real backing path for path. It returns
	// an error satisfying os.IsNotExist (via errors.Is os.ErrNotExist)
	// when neither the path nor its backing entry exists.
	ResolveOriginal(path string) (string, error)
}

// Passthrough treats every path as already real: it only checks that the
// path exists. This matches backups whose placeholders have already been
// materialized, and is the default strategy.
type Passthrough struct{}

func (Passthrough) ResolveOriginal(path string) (string, error) {
	if _, err := os.Lstat(path); err != nil {
		return "", err
	}
	return path, nil
}

// Bounded wraps another Resolver and rejects any dereferenced result
// that escapes the archive root. A result identical to the input is the
// caller's own path, not a placeholder dereference, and passes through
// unchecked: sources outside the archive are legitimate and copied as
// already real.
type Bounded struct {
	Root  Root
	Inner Resolver
}

func (b Bounded) ResolveOriginal(path string) (string, error) {
	real, err := b.Inner.ResolveOriginal(path)
	if err != nil {
		return "", err
	}
	if real != path && b.Root != "" && !b.Root.Contains(real) {
		return "", fmt.Errorf("%s: %w", real, ErrOutsideArchive)
	}
	return real, nil
}

// NewResolver builds the default resolution strategy for root: a
// bounds-checked passthrough when an archive root is known, a bare
// passthrough otherwise.
//
//nolint:ireturn // factory returns interface by design
func NewResolver(root Root) Resolver {
	if root == "" {
		return Passthrough{}
	}
	return Bounded{Root: root, Inner: Passthrough{}}
}
