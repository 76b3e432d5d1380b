package mesh

import (
	"errors"
	"fmt"
)

// Mesh errors.
var (
	ErrIndexOutOfRange   = errors.New("geometry index out of range")
	ErrDuplicateMaterial = errors.New("duplicate material name")
)

// IndexError reports a triplet referencing geometry that was never read.
type IndexError struct {
	Kind  string // "vertex", "normal" or "texture"
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("invalid %s index %d: no %s data was read", e.Kind, e.Index, e.Kind)
	}
	return fmt.Sprintf("invalid %s index %d: valid range is 0-%d", e.Kind, e.Index, e.Len-1)
}

// Unwrap allows errors.Is(err, ErrIndexOutOfRange).
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
