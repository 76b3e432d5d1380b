package formats

import (
	"bufio"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	xencoding "golang.org/x/text/encoding"
	"go.uber.org/zap"

	"github.com/Faultbox/obj2msh/pkg/encoding"
	"github.com/Faultbox/obj2msh/pkg/math"
	"github.com/Faultbox/obj2msh/pkg/mesh"
)

// DefaultSpecularPower is the configured specular power unless overridden.
const DefaultSpecularPower = 25

// maxLineLength bounds a single source line.
const maxLineLength = 1 << 20

// ReadOptions configures source parsing.
type ReadOptions struct {
	// SpecularPower is applied to every non-black Ks color. Zero is a
	// valid power.
	SpecularPower float32

	// LogMaterialErrors records a warning whenever a group is split
	// because it was given a second material.
	LogMaterialErrors bool

	// Encoding decodes source text. Nil means UTF-8.
	Encoding xencoding.Encoding

	Logger *zap.Logger
}

// lineHandler processes one non-blank, non-comment line split into fields.
type lineHandler func(fc *fileContext, fields []string) error

// reader holds the state shared by the OBJ, MTL and override parsers for a
// single run.
type reader struct {
	fsys     fs.FS
	opts     ReadOptions
	log      *zap.Logger
	mesh     *mesh.Mesh
	warnings *Warnings
	lines    int
}

func newReader(fsys fs.FS, opts ReadOptions) *reader {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &reader{
		fsys:     fsys,
		opts:     opts,
		log:      log,
		mesh:     mesh.New(),
		warnings: newWarnings(log),
	}
}

// scan feeds every meaningful line of name to handle. Lines are trimmed;
// blank lines and # comments are skipped.
func (r *reader) scan(name string, handle lineHandler) error {
	f, err := r.fsys.Open(name)
	if err != nil {
		return errors.Wrapf(err, "opening %s", name)
	}
	defer f.Close()

	fc := &fileContext{name: name}
	sc := bufio.NewScanner(encoding.NewReader(f, r.opts.Encoding))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for sc.Scan() {
		fc.line++
		r.lines++
		fc.text = strings.TrimSpace(sc.Text())
		if ce := r.log.Check(zap.DebugLevel, "line"); ce != nil {
			ce.Write(zap.String("file", name), zap.Int("line", fc.line), zap.String("text", fc.text))
		}
		if fc.text == "" || strings.HasPrefix(fc.text, "#") {
			continue
		}
		if err := handle(fc, strings.Fields(fc.text)); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrapf(err, "reading %s", name)
	}
	return nil
}

func (r *reader) warn(fc *fileContext, message, action string) {
	r.warnings.add(fc, message, action)
}

func (r *reader) warnShort(fc *fileContext, want, got int) {
	r.warn(fc, fmt.Sprintf("expected at least %d piece(s), but found %d", want, got), "The line will be ignored.")
}

// floats parses n floats from fields starting at start. On failure it
// records a warning and returns ok == false.
func (r *reader) floats(fc *fileContext, fields []string, start, n int) ([]float32, bool) {
	if len(fields) < start+n {
		r.warnShort(fc, start+n, len(fields))
		return nil, false
	}
	out := make([]float32, n)
	for i := range out {
		v, err := strconv.ParseFloat(fields[start+i], 32)
		if err != nil {
			r.warn(fc, fmt.Sprintf("invalid floating point number %q", fields[start+i]), "The values will be ignored.")
			return nil, false
		}
		out[i] = float32(v)
	}
	return out, true
}

func (r *reader) vec3(fc *fileContext, fields []string) (math.Vec3, bool) {
	v, ok := r.floats(fc, fields, 1, 3)
	if !ok {
		return math.Vec3{}, false
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, true
}

func (r *reader) vec2(fc *fileContext, fields []string) (math.Vec2, bool) {
	v, ok := r.floats(fc, fields, 1, 2)
	if !ok {
		return math.Vec2{}, false
	}
	return math.Vec2{X: v[0], Y: v[1]}, true
}

func (r *reader) rgb(fc *fileContext, fields []string) (mesh.Color, bool) {
	v, ok := r.floats(fc, fields, 1, 3)
	if !ok {
		return mesh.Color{}, false
	}
	return mesh.RGB(v[0], v[1], v[2]), true
}

func (r *reader) rgba(fc *fileContext, fields []string) (mesh.Color, bool) {
	v, ok := r.floats(fc, fields, 1, 4)
	if !ok {
		return mesh.Color{}, false
	}
	return mesh.Color{R: v[0], G: v[1], B: v[2], A: v[3]}, true
}
