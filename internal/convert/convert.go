// Package convert runs one OBJ to MSH conversion: read, flip, reorder,
// write side files and the mesh.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/obj2msh/internal/config"
	"github.com/Faultbox/obj2msh/internal/report"
	"github.com/Faultbox/obj2msh/pkg/encoding"
	"github.com/Faultbox/obj2msh/pkg/formats"
	"github.com/Faultbox/obj2msh/pkg/mesh"
)

// Program identification written into side files.
const Program = "obj2msh"

// Version is the converter version.
var Version = "1.0.0"

// ErrIO marks failures reading or writing files.
var ErrIO = errors.New("i/o error")

// MaxWarningExit caps the warning count used as exit code.
const MaxWarningExit = 100

// Exit codes other than the warning count.
const (
	ExitUsage  = 1
	ExitIO     = 2
	ExitFormat = 3
)

// Result describes a finished conversion.
type Result struct {
	Input  string
	Output string

	Read  *formats.ReadStats
	Write formats.MSHStats

	// Side files written, empty when disabled.
	InfoFile       string
	ResourceHeader string

	Duration time.Duration
}

// Warnings returns the number of warnings raised while reading.
func (r *Result) Warnings() int {
	if r == nil || r.Read == nil {
		return 0
	}
	return len(r.Read.Warnings)
}

// Converter converts OBJ files using a fixed configuration.
type Converter struct {
	cfg *config.Config
	log *zap.Logger
	now func() time.Time
}

// New creates a converter. A nil logger disables logging.
func New(cfg *config.Config, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{cfg: cfg, log: log, now: time.Now}
}

// Run converts input into output. An empty output uses DefaultOutput. The
// mesh is encoded in memory first; nothing is written if reading or
// encoding fails.
func (c *Converter) Run(input, output string) (*Result, error) {
	start := c.now()
	if output == "" {
		output = DefaultOutput(input)
	}
	res := &Result{Input: input, Output: output}
	c.log.Info("converting", zap.String("input", input), zap.String("output", output))

	m, stats, err := c.read(input)
	if err != nil {
		return nil, err
	}
	res.Read = stats

	if !c.cfg.Conversion.NoFlip {
		m.FlipFaces()
	}
	if !c.cfg.Conversion.NoReorder {
		m.ReorderTransparent()
	}

	var buf bytes.Buffer
	w := formats.NewMSHWriter(&buf, formats.MSHOptions{
		RotateX:       c.cfg.Conversion.RotateX,
		TexturePrefix: c.cfg.Output.TexturePrefix,
		TextureExt:    c.cfg.Output.TextureExtension,
		CRLF:          c.cfg.Output.CRLF,
		DebugFaces:    c.cfg.Logging.DebugFaces,
		Logger:        c.log.Named("msh"),
	})
	res.Write, err = w.Write(m)
	if err != nil {
		return nil, c.classify(err)
	}

	header := report.Header{Program: Program, Version: Version, Created: start, MeshFile: output}
	if c.cfg.Output.InfoFile {
		res.InfoFile = output + report.InfoSuffix
		if err := c.writeSide(res.InfoFile, func(b *bytes.Buffer) error { return report.WriteInfo(b, m, header) }); err != nil {
			return nil, err
		}
	}
	if c.cfg.Output.ResourceHeader {
		res.ResourceHeader = output + report.ResourceSuffix
		if err := c.writeSide(res.ResourceHeader, func(b *bytes.Buffer) error { return report.WriteResourceHeader(b, m, header) }); err != nil {
			return nil, err
		}
	}

	if err := writeFile(output, buf.Bytes()); err != nil {
		return nil, c.classify(err)
	}

	res.Duration = c.now().Sub(start)
	c.log.Info("conversion complete",
		zap.String("output", output),
		zap.Int("groups", res.Write.Groups),
		zap.Int("vertices", res.Write.Vertices),
		zap.Int("faces", res.Write.Faces),
		zap.Int("reused", res.Write.Reused),
		zap.Int("warnings", res.Warnings()),
		zap.Duration("elapsed", res.Duration),
	)
	return res, nil
}

// Inspect reads input with the same purge and cleanup as Run and returns
// the statistics without writing anything.
func (c *Converter) Inspect(input string) (*formats.ReadStats, error) {
	_, stats, err := c.read(input)
	return stats, err
}

func (c *Converter) read(input string) (*mesh.Mesh, *formats.ReadStats, error) {
	enc, err := encoding.Lookup(c.cfg.Conversion.Encoding)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	dir, name := filepath.Split(input)
	if dir == "" {
		dir = "."
	}
	r := formats.NewOBJReader(os.DirFS(dir), formats.ReadOptions{
		SpecularPower:     c.cfg.Conversion.SpecularPower,
		LogMaterialErrors: c.cfg.Conversion.LogMaterialErrors,
		Encoding:          enc,
		Logger:            c.log.Named("obj"),
	})
	m, stats, err := r.Read(name)
	if err != nil {
		return nil, nil, c.classify(err)
	}
	return m, stats, nil
}

func (c *Converter) writeSide(path string, write func(*bytes.Buffer) error) error {
	var b bytes.Buffer
	if err := write(&b); err != nil {
		return c.classify(err)
	}
	if err := writeFile(path, b.Bytes()); err != nil {
		return c.classify(err)
	}
	c.log.Debug("side file written", zap.String("path", path))
	return nil
}

// classify tags errors that are not caused by the source data as ErrIO.
func (c *Converter) classify(err error) error {
	if formats.IsFormatError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}

// newFileMode is the mode of output files that did not exist before.
const newFileMode = 0644

// writeFile atomically replaces path with data. An existing file keeps its
// permissions; a new one gets newFileMode.
func writeFile(path string, data []byte) error {
	_, statErr := os.Stat(path)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return pkgerrors.Wrapf(err, "writing %s", path)
	}
	if os.IsNotExist(statErr) {
		return pkgerrors.Wrapf(os.Chmod(path, newFileMode), "writing %s", path)
	}
	return nil
}

// DefaultOutput derives the mesh path from the source path: everything up
// to the first '.' of the file name, plus ".msh".
func DefaultOutput(input string) string {
	dir, name := filepath.Split(input)
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return dir + name + ".msh"
}

// ExitCode maps a run outcome to the process exit status: the warning
// count (capped) on success, otherwise the failure class.
func ExitCode(res *Result, err error) int {
	switch {
	case err == nil:
		return min(res.Warnings(), MaxWarningExit)
	case errors.Is(err, config.ErrInvalid):
		return ExitUsage
	case formats.IsFormatError(err):
		return ExitFormat
	default:
		return ExitIO
	}
}
