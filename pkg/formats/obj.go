package formats

import (
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/obj2msh/pkg/mesh"
)

// groupSpaceMarker stands in for a space in exported group names, so that a
// modeller can write "dg_intxx0" for the group labelled "dg_int 0".
const groupSpaceMarker = "xx"

// OverrideSuffix is appended to the source path to find its material
// override file.
const OverrideSuffix = ".materialoverride"

// ReadStats describes a finished read.
type ReadStats struct {
	Lines             int
	Warnings          []Warning
	MaterialOverrides int
	EmptyGroups       int
	UnusedMaterials   int
	Summary           mesh.Summary
}

// OBJReader parses OBJ sources from a file system.
type OBJReader struct {
	fsys fs.FS
	opts ReadOptions
}

// NewOBJReader returns a reader that resolves every path inside fsys.
func NewOBJReader(fsys fs.FS, opts ReadOptions) *OBJReader {
	return &OBJReader{fsys: fsys, opts: opts}
}

// Read parses name, its material libraries and its optional override file
// into a new mesh. Empty groups and unused materials are purged and group
// order keys condensed before it returns.
func (rd *OBJReader) Read(name string) (*mesh.Mesh, *ReadStats, error) {
	r := newReader(rd.fsys, rd.opts)
	p := &objParser{reader: r}

	if err := r.scan(name, p.line); err != nil {
		return nil, nil, err
	}

	stats := &ReadStats{}
	overrides, err := r.readOverrides(name + OverrideSuffix)
	if err != nil {
		return nil, nil, err
	}
	stats.MaterialOverrides = overrides

	stats.EmptyGroups = r.mesh.PurgeEmptyGroups()
	stats.UnusedMaterials = r.mesh.PurgeUnusedMaterials()
	r.mesh.Condense()

	stats.Lines = r.lines
	stats.Warnings = r.warnings.List()
	stats.Summary = r.mesh.Summary()

	r.log.Info("source read",
		zap.String("file", name),
		zap.Int("lines", stats.Lines),
		zap.Int("groups", stats.Summary.Groups),
		zap.Int("faces", stats.Summary.Faces),
		zap.Int("materials", stats.Summary.Materials),
		zap.Int("empty_groups", stats.EmptyGroups),
		zap.Int("unused_materials", stats.UnusedMaterials),
		zap.Int("warnings", len(stats.Warnings)),
	)
	return r.mesh, stats, nil
}

type objParser struct {
	*reader

	active      *mesh.Group
	latestGroup string
	fixup       int
	unnamed     int
}

func (p *objParser) line(fc *fileContext, fields []string) error {
	cmd := strings.ToLower(fields[0])
	if cmd != "g" && len(fields) < 2 {
		p.warnShort(fc, 2, len(fields))
		return nil
	}

	switch cmd {
	case "mtllib":
		dir := path.Dir(fc.name)
		for _, lib := range fields[1:] {
			lib = path.Join(dir, strings.ReplaceAll(lib, `\`, "/"))
			if err := p.readMTL(lib); err != nil {
				return errors.Wrapf(err, "%s:%d: material library", fc.name, fc.line)
			}
		}
	case "g":
		p.group(fc, fields)
	case "usemtl":
		return p.useMaterial(fc, fields[1])
	case "v":
		if v, ok := p.vec3(fc, fields); ok {
			p.mesh.AddVertex(v)
		}
	case "vn":
		if v, ok := p.vec3(fc, fields); ok {
			p.mesh.AddNormal(v)
		}
	case "vt":
		if v, ok := p.vec2(fc, fields); ok {
			p.mesh.AddTexCoord(v)
		}
	case "f":
		return p.face(fc, fields)
	}
	return nil
}

// group starts or resumes a group.
func (p *objParser) group(fc *fileContext, fields []string) {
	var name string
	if len(fields) >= 2 {
		name = fields[1]
	} else {
		name = fmt.Sprintf("_UNNAMED_%d", p.unnamed)
		p.unnamed++
	}
	if pieces := strings.Split(name, groupSpaceMarker); len(pieces) > 1 {
		name = pieces[0] + " " + pieces[1]
	}

	order := -1
	if parts := strings.Fields(name); len(parts) >= 2 {
		if n, err := strconv.Atoi(parts[1]); err == nil && n >= 0 {
			order = n
		}
	}
	if order >= 0 {
		if owner, taken := p.mesh.OrderClaimed(order); taken && owner != name {
			p.warn(fc, fmt.Sprintf("group order %d is already used by group %q", order, owner),
				"The group will be placed after all ordered groups.")
			order = -1
		}
	}

	p.latestGroup = name
	p.fixup = 0
	p.active, _ = p.mesh.AddGroup(name, order)
}

// useMaterial assigns a material to the active group. A group that already
// has a material, even the same one, is split: the faces that follow go to
// a fixup group named after the latest g line.
func (p *objParser) useMaterial(fc *fileContext, name string) error {
	if p.active == nil {
		return fc.fatal(ErrNoActiveGroup)
	}
	mat, ok := p.mesh.Material(name)
	if !ok {
		p.warn(fc, fmt.Sprintf("material %q is not defined", name), "The line will be ignored.")
		return nil
	}
	if p.active.Material == nil {
		p.active.Material = mat
		return nil
	}

	var target *mesh.Group
	for target == nil {
		p.fixup++
		g, _ := p.mesh.AddGroup(fmt.Sprintf("%s_fixup_%d", p.latestGroup, p.fixup), -1)
		if g.Material == nil || g.Material == mat {
			target = g
		}
	}
	if p.opts.LogMaterialErrors {
		p.warn(fc, fmt.Sprintf("multiple materials specified for group %q", p.active.Name),
			fmt.Sprintf("Forcing an extra group with the new material: %s.", target.Name))
	}
	target.Material = mat
	p.active = target
	return nil
}

func (p *objParser) face(fc *fileContext, fields []string) error {
	if len(fields) != 4 {
		return fc.fatal(errors.Wrapf(ErrFaceArity, "found %d", len(fields)-1))
	}
	if p.active == nil {
		return fc.fatal(ErrNoActiveGroup)
	}

	var f mesh.Face
	for i, tok := range fields[1:] {
		t, err := parseTriplet(tok)
		if err != nil {
			p.warn(fc, fmt.Sprintf("invalid face definition at vertex #%d: %v", i+1, err), "The face will be ignored.")
			return nil
		}
		f[i] = t
	}
	p.active.AddFace(f)
	return nil
}

// parseTriplet parses a "v/[vt]/vn" token into 0-based indices. An empty or
// zero texture index yields mesh.NoTexture.
func parseTriplet(tok string) (mesh.Triplet, error) {
	parts := strings.Split(tok, "/")
	if len(parts) != 3 {
		return mesh.Triplet{}, fmt.Errorf("expected v/vt/vn, got %q", tok)
	}
	v, err := strconv.Atoi(parts[0])
	if err != nil {
		return mesh.Triplet{}, fmt.Errorf("vertex index: %w", err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return mesh.Triplet{}, fmt.Errorf("normal index: %w", err)
	}
	t := mesh.NoTexture
	if parts[1] != "" {
		vt, err := strconv.Atoi(parts[1])
		if err != nil {
			return mesh.Triplet{}, fmt.Errorf("texture index: %w", err)
		}
		if vt != 0 {
			t = vt - 1
		}
	}
	return mesh.Triplet{Vertex: v - 1, Texture: t, Normal: n - 1}, nil
}
