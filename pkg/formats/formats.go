// Package formats reads Wavefront OBJ sources (with their MTL libraries and
// material-override files) into a mesh.Mesh and writes Orbiter MSH text.
package formats

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/obj2msh/pkg/mesh"
)

// Source format errors. These abort the run.
var (
	ErrFaceArity         = errors.New("face must have exactly 3 vertices")
	ErrNoActiveGroup     = errors.New("no active group")
	ErrDuplicateMaterial = mesh.ErrDuplicateMaterial
)

// ParseError is a fatal error tied to a line of a source file.
type ParseError struct {
	File string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v (line %q)", e.File, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Warning is a recoverable problem found while reading. The offending field
// or line has been discarded.
type Warning struct {
	File    string
	Line    int
	Text    string
	Message string
	Action  string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d of %s: %s: Line=%q. %s", w.Line, w.File, w.Message, w.Text, w.Action)
}

// Warnings collects warnings and logs each one as it is added.
type Warnings struct {
	list []Warning
	log  *zap.Logger
}

func newWarnings(log *zap.Logger) *Warnings {
	return &Warnings{log: log}
}

// Count returns the number of warnings recorded.
func (w *Warnings) Count() int {
	return len(w.list)
}

// List returns the recorded warnings in order.
func (w *Warnings) List() []Warning {
	return w.list
}

func (w *Warnings) add(fc *fileContext, message, action string) {
	warn := Warning{File: fc.name, Line: fc.line, Text: fc.text, Message: message, Action: action}
	w.list = append(w.list, warn)
	w.log.Warn(message,
		zap.String("file", fc.name),
		zap.Int("line", fc.line),
		zap.String("text", fc.text),
		zap.String("action", action),
	)
}

// fileContext is the position of the reader inside one source file.
type fileContext struct {
	name string
	line int
	text string
}

func (fc *fileContext) fatal(err error) error {
	return &ParseError{File: fc.name, Line: fc.line, Text: fc.text, Err: err}
}

// IsFormatError reports whether err is caused by malformed source data
// rather than by I/O.
func IsFormatError(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return true
	}
	return errors.Is(err, mesh.ErrIndexOutOfRange)
}
