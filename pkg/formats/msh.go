package formats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/obj2msh/pkg/mesh"
)

// MSHMagic is the first line of every MSH file.
const MSHMagic = "MSHX1"

// DefaultTextureExt replaces the source texture extension.
const DefaultTextureExt = ".dds"

// Fallbacks for channels a material does not define.
var (
	nullChannel         = mesh.Channel{Color: mesh.Color{A: 1}}
	nullSpecularChannel = mesh.Channel{Color: mesh.Color{A: 1}, Power: 60}
)

// MSHOptions configures MSH output.
type MSHOptions struct {
	// RotateX rotates the mesh 90 degrees nose-down about the X axis.
	RotateX bool

	// TexturePrefix is prepended to every texture name with a backslash.
	TexturePrefix string

	// TextureExt replaces everything from the first '.' of a texture
	// name. Defaults to DefaultTextureExt.
	TextureExt string

	// CRLF ends lines with "\r\n" instead of "\n".
	CRLF bool

	// DebugFaces logs every reused triplet at info level instead of debug.
	DebugFaces bool

	Logger *zap.Logger
}

// MSHStats describes a written mesh.
type MSHStats struct {
	Lines    int
	Groups   int
	Vertices int
	Faces    int
	Reused   int
}

// MSHWriter writes meshes as Orbiter MSH text.
type MSHWriter struct {
	w     *bufio.Writer
	opts  MSHOptions
	log   *zap.Logger
	nl    string
	stats MSHStats
}

// NewMSHWriter returns a writer that writes to w.
func NewMSHWriter(w io.Writer, opts MSHOptions) *MSHWriter {
	if opts.TextureExt == "" {
		opts.TextureExt = DefaultTextureExt
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	nl := "\n"
	if opts.CRLF {
		nl = "\r\n"
	}
	return &MSHWriter{w: bufio.NewWriter(w), opts: opts, log: log, nl: nl}
}

// Write emits m: groups in registry order, then the material and texture
// tables. The mesh is not modified. On error the output is incomplete and
// should be discarded.
func (mw *MSHWriter) Write(m *mesh.Mesh) (MSHStats, error) {
	mw.stats = MSHStats{}
	mw.writeln(MSHMagic)

	groups := m.Groups()
	mw.writeln("GROUPS %d", len(groups))
	for _, g := range groups {
		if err := mw.writeGroup(m, g); err != nil {
			return mw.stats, err
		}
	}
	mw.writeMaterials(m.Materials())
	mw.writeTextures(m.Materials(), m.TextureCount())

	if err := mw.w.Flush(); err != nil {
		return mw.stats, errors.Wrap(err, "writing mesh")
	}
	mw.log.Info("mesh written",
		zap.Int("groups", mw.stats.Groups),
		zap.Int("vertices", mw.stats.Vertices),
		zap.Int("faces", mw.stats.Faces),
		zap.Int("reused", mw.stats.Reused),
		zap.Int("lines", mw.stats.Lines),
	)
	return mw.stats, nil
}

func (mw *MSHWriter) writeGroup(m *mesh.Mesh, g *mesh.Group) error {
	geom, err := BuildGeometry(m, g, mw.opts.RotateX, mw.traceReuse(g))
	if err != nil {
		return err
	}

	mw.writeln("LABEL %s", g.Name)
	mw.writeln("MATERIAL %d", g.MaterialIndex())
	mw.writeln("TEXTURE %d", g.TextureIndex())
	mw.writeln("GEOM %d %d ; %s", len(geom.Vertices), len(geom.Faces), g.Name)
	for _, v := range geom.Vertices {
		mw.writeln("%s", formatVertex(v))
	}
	for _, f := range geom.Faces {
		mw.writeln("%d %d %d", f[0], f[1], f[2])
	}

	mw.stats.Groups++
	mw.stats.Vertices += len(geom.Vertices)
	mw.stats.Faces += len(geom.Faces)
	mw.stats.Reused += geom.Reused
	mw.log.Debug("group written",
		zap.String("group", g.Name),
		zap.Int("vertices", len(geom.Vertices)),
		zap.Int("faces", len(geom.Faces)),
		zap.Int("reused", geom.Reused),
	)
	return nil
}

// traceReuse returns a callback logging each reused triplet of g, or nil
// when that level is disabled.
func (mw *MSHWriter) traceReuse(g *mesh.Group) func(mesh.Triplet, int) {
	level := zapcore.DebugLevel
	if mw.opts.DebugFaces {
		level = zapcore.InfoLevel
	}
	if !mw.log.Core().Enabled(level) {
		return nil
	}
	return func(t mesh.Triplet, vertex int) {
		if ce := mw.log.Check(level, "triplet reused"); ce != nil {
			ce.Write(zap.String("group", g.Name), zap.Stringer("triplet", t), zap.Int("vertex", vertex))
		}
	}
}

func (mw *MSHWriter) writeMaterials(mats []*mesh.Material) {
	mw.writeln("MATERIALS %d", len(mats))
	for _, mat := range mats {
		mw.writeln("%s", mat.Name)
	}
	for _, mat := range mats {
		alpha := mat.AverageTransparency()
		mw.writeln("MATERIAL %s", mat.Name)
		mw.writeln("%s", formatColor(emitted(mat.Diffuse, nullChannel, alpha).Color))
		mw.writeln("%s", formatColor(emitted(mat.Ambient, nullChannel, alpha).Color))
		spec := emitted(mat.Specular, nullSpecularChannel, alpha)
		mw.writeln("%s %s", formatColor(spec.Color), formatFloat(spec.Power))
		mw.writeln("%s", formatColor(emitted(mat.Emissive, nullChannel, alpha).Color))
	}
}

func (mw *MSHWriter) writeTextures(mats []*mesh.Material, n int) {
	mw.writeln("TEXTURES %d", n)
	for _, mat := range mats {
		if mat.HasTexture() {
			mw.writeln("%s", mw.textureName(mat.TextureFile))
		}
	}
}

// textureName maps a source texture file to the name Orbiter loads.
func (mw *MSHWriter) textureName(file string) string {
	if i := strings.IndexByte(file, '.'); i >= 0 {
		file = file[:i]
	}
	file += mw.opts.TextureExt
	if mw.opts.TexturePrefix != "" {
		file = mw.opts.TexturePrefix + `\` + file
	}
	return file
}

func (mw *MSHWriter) writeln(format string, args ...any) {
	fmt.Fprintf(mw.w, format, args...)
	mw.w.WriteString(mw.nl)
	mw.stats.Lines++
}

// emitted returns the channel as written: ch or the fallback, with the alpha
// of non-override channels taken from the material transparency.
func emitted(ch *mesh.Channel, fallback mesh.Channel, alpha float32) mesh.Channel {
	out := fallback
	if ch != nil {
		out = *ch
	}
	if !out.Override {
		out.A = alpha
	}
	return out
}

func formatVertex(v Vertex) string {
	var sb strings.Builder
	for i, f := range [...]float32{v.Pos.X, v.Pos.Y, v.Pos.Z, v.Normal.X, v.Normal.Y, v.Normal.Z} {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatCoord(f))
	}
	if v.HasUV {
		sb.WriteByte(' ')
		sb.WriteString(formatCoord(v.UV.X))
		sb.WriteByte(' ')
		sb.WriteString(formatCoord(v.UV.Y))
	}
	return sb.String()
}

// formatCoord prints a geometry value with four decimals. Values that round
// to zero are printed without a sign.
func formatCoord(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', 4, 32)
	if s == "-0.0000" {
		return "0.0000"
	}
	return s
}

func formatColor(c mesh.Color) string {
	return formatFloat(c.R) + " " + formatFloat(c.G) + " " + formatFloat(c.B) + " " + formatFloat(c.A)
}

// formatFloat prints the shortest decimal that reads back as f.
func formatFloat(f float32) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}
