package formats

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"testing/fstest"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/obj2msh/pkg/math"
	"github.com/Faultbox/obj2msh/pkg/mesh"
)

func writeMesh(t *testing.T, m *mesh.Mesh, opts MSHOptions) (string, MSHStats) {
	t.Helper()
	var buf bytes.Buffer
	stats, err := NewMSHWriter(&buf, opts).Write(m)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.String(), stats
}

func TestWriteMSH(t *testing.T) {
	files := fstest.MapFS{
		"model.obj": source("mtllib model.mtl",
			"v 0 0 0",
			"v 1 0 0",
			"v 0 1 0",
			"vn 0 0 1",
			"vt 0.25 0.75",
			"g hull",
			"usemtl hull",
			"f 1/1/1 2/1/1 3/1/1",
		),
		"model.mtl": source("newmtl hull", "Kd 0.5 0.5 0.5", "map_Kd hull.png"),
	}
	m, _ := readSource(t, files, ReadOptions{})

	got, stats := writeMesh(t, m, MSHOptions{})
	want := `MSHX1
GROUPS 1
LABEL hull
MATERIAL 1
TEXTURE 1
GEOM 3 1 ; hull
0.0000 0.0000 0.0000 0.0000 0.0000 1.0000 0.2500 0.2500
-1.0000 0.0000 0.0000 0.0000 0.0000 1.0000 0.2500 0.2500
0.0000 1.0000 0.0000 0.0000 0.0000 1.0000 0.2500 0.2500
0 1 2
MATERIALS 1
hull
MATERIAL hull
0.5 0.5 0.5 1
0.765 0.765 0.765 1
0.271 0.271 0.271 1 0
0 0 0 1
TEXTURES 1
hull.dds
`
	if got != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
	if stats.Lines != strings.Count(want, "\n") {
		t.Errorf("lines = %d, want %d", stats.Lines, strings.Count(want, "\n"))
	}
	if stats.Vertices != 3 || stats.Faces != 1 || stats.Groups != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestWriteSharedTriplets(t *testing.T) {
	files := fstest.MapFS{
		"model.obj": source(triangleGeometry,
			"g hull",
			"f 1//1 2//1 3//1",
			"f 1//1 2//1 3//1",
		),
	}
	m, _ := readSource(t, files, ReadOptions{})

	got, stats := writeMesh(t, m, MSHOptions{})
	if !strings.Contains(got, "GEOM 3 2 ; hull\n") {
		t.Errorf("missing GEOM 3 2 line:\n%s", got)
	}
	if n := countLines(got, "0 1 2"); n != 2 {
		t.Errorf("faces referencing 0 1 2 = %d, want 2:\n%s", n, got)
	}
	if stats.Reused != 3 {
		t.Errorf("reused = %d, want 3", stats.Reused)
	}
}

func TestReusedTripletsAreLogged(t *testing.T) {
	files := fstest.MapFS{
		"model.obj": source(triangleGeometry,
			"g hull",
			"f 1//1 2//1 3//1",
			"f 1//1 2//1 4//1",
		),
	}
	m, _ := readSource(t, files, ReadOptions{})

	tests := []struct {
		name       string
		level      zapcore.Level
		debugFaces bool
		want       int
	}{
		{"debug level", zapcore.DebugLevel, false, 2},
		{"info level", zapcore.InfoLevel, false, 0},
		{"info level with debug faces", zapcore.InfoLevel, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(tt.level)
			writeMesh(t, m, MSHOptions{DebugFaces: tt.debugFaces, Logger: zap.New(core)})

			reused := logs.FilterMessage("triplet reused").All()
			if len(reused) != tt.want {
				t.Fatalf("reuse entries = %d, want %d", len(reused), tt.want)
			}
			if tt.want == 0 {
				return
			}
			fields := reused[1].ContextMap()
			if fields["group"] != "hull" || fields["vertex"] != int64(1) {
				t.Errorf("second reuse fields = %v", fields)
			}
		})
	}
}

func TestDedupIsPerGroup(t *testing.T) {
	files := fstest.MapFS{
		"model.obj": source(triangleGeometry,
			"g a",
			"f 1//1 2//1 3//1",
			"g b",
			"f 1//1 2//1 3//1",
		),
	}
	m, _ := readSource(t, files, ReadOptions{})

	got, stats := writeMesh(t, m, MSHOptions{})
	if strings.Count(got, "GEOM 3 1") != 2 {
		t.Errorf("each group should emit its own vertices:\n%s", got)
	}
	if stats.Reused != 0 {
		t.Errorf("reused = %d, want 0", stats.Reused)
	}
}

func TestWriteTransparentMaterialsLast(t *testing.T) {
	files := fstest.MapFS{
		"model.obj": source("mtllib model.mtl", triangleGeometry,
			"g canopy", "usemtl glass", "f 1//1 2//1 3//1",
			"g hull", "usemtl paint", "f 1//1 2//1 3//1",
		),
		"model.mtl": source(
			"newmtl glass", "Tf 0.2 0.2 0.2",
			"newmtl paint", "Tf 1 1 1",
		),
	}
	m, _ := readSource(t, files, ReadOptions{})
	m.ReorderTransparent()

	got, _ := writeMesh(t, m, MSHOptions{})
	if !strings.Contains(got, "MATERIALS 2\npaint\nglass\n") {
		t.Errorf("opaque material should come first:\n%s", got)
	}
	if strings.Index(got, "LABEL hull") > strings.Index(got, "LABEL canopy") {
		t.Errorf("opaque group should come first:\n%s", got)
	}
	if !strings.Contains(got, "LABEL canopy\nMATERIAL 2\n") {
		t.Errorf("canopy should use material 2:\n%s", got)
	}
}

func TestWriteUnsetMaterial(t *testing.T) {
	files := fstest.MapFS{
		"model.obj": source(triangleGeometry, "g hull", "usemtl nope", "f 1//1 2//1 3//1"),
	}
	m, _ := readSource(t, files, ReadOptions{})

	got, _ := writeMesh(t, m, MSHOptions{})
	if !strings.Contains(got, "LABEL hull\nMATERIAL 0\nTEXTURE 0\n") {
		t.Errorf("group without material:\n%s", got)
	}
	if !strings.Contains(got, "MATERIALS 0\nTEXTURES 0\n") {
		t.Errorf("empty tables:\n%s", got)
	}
}

func TestWriteOverrideAlpha(t *testing.T) {
	files := fstest.MapFS{
		"model.obj": source("mtllib model.mtl", triangleGeometry,
			"g canopy", "usemtl glass", "f 1//1 2//1 3//1",
		),
		"model.mtl":                  source("newmtl glass", "Tf 0.5 0.5 0.5"),
		"model.obj.materialoverride": source("MATERIAL glass", "d 1 1 1 1"),
	}
	m, _ := readSource(t, files, ReadOptions{})

	got, _ := writeMesh(t, m, MSHOptions{})
	want := "MATERIAL glass\n1 1 1 1\n0.765 0.765 0.765 0.5\n0.271 0.271 0.271 0.5 0\n0 0 0 0.5\n"
	if !strings.Contains(got, want) {
		t.Errorf("material block mismatch, want %q in:\n%s", want, got)
	}

	glass, _ := m.Material("glass")
	if glass.Ambient.A != 1 {
		t.Errorf("write mutated the model: ambient alpha %g", glass.Ambient.A)
	}
}

func TestWriteNullChannels(t *testing.T) {
	m := mesh.New()
	mat, _ := m.AddMaterial("bare")
	m.AddVertex(math.Vec3{})
	m.AddNormal(math.Vec3{})
	g, _ := m.AddGroup("g", -1)
	g.Material = mat
	corner := mesh.Triplet{Texture: mesh.NoTexture}
	g.AddFace(mesh.Face{corner, corner, corner})

	got, _ := writeMesh(t, m, MSHOptions{})
	want := "MATERIAL bare\n0 0 0 1\n0 0 0 1\n0 0 0 1 60\n0 0 0 1\n"
	if !strings.Contains(got, want) {
		t.Errorf("want %q in:\n%s", want, got)
	}
}

func TestWriteIndexOutOfRange(t *testing.T) {
	files := fstest.MapFS{
		"model.obj": source(triangleGeometry, "g hull", "f 1//1 2//1 9//1"),
	}
	m, _ := readSource(t, files, ReadOptions{})

	var buf bytes.Buffer
	_, err := NewMSHWriter(&buf, MSHOptions{}).Write(m)
	if !errors.Is(err, mesh.ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
	if !IsFormatError(err) {
		t.Error("IsFormatError = false")
	}
	if !strings.Contains(err.Error(), `group "hull"`) {
		t.Errorf("error lacks group context: %v", err)
	}
}

func TestWriteRotation(t *testing.T) {
	files := fstest.MapFS{
		"model.obj": source("v 1 2 3", "vn 0 1 0", "g a", "f 1//1 1//1 1//1"),
	}
	m, _ := readSource(t, files, ReadOptions{})

	plain, _ := writeMesh(t, m, MSHOptions{})
	if !strings.Contains(plain, "\n-1.0000 2.0000 3.0000 0.0000 1.0000 0.0000\n") {
		t.Errorf("unrotated vertex:\n%s", plain)
	}

	rotated, _ := writeMesh(t, m, MSHOptions{RotateX: true})
	if !strings.Contains(rotated, "\n-1.0000 -3.0000 2.0000 0.0000 0.0000 1.0000\n") {
		t.Errorf("rotated vertex:\n%s", rotated)
	}
}

func TestTextureName(t *testing.T) {
	tests := []struct {
		name   string
		opts   MSHOptions
		file   string
		expect string
	}{
		{"default ext", MSHOptions{}, "hull.png", "hull.dds"},
		{"first dot", MSHOptions{}, "hull.old.tga", "hull.dds"},
		{"no ext", MSHOptions{}, "hull", "hull.dds"},
		{"prefix", MSHOptions{TexturePrefix: "DG"}, "hull.png", `DG\hull.dds`},
		{"custom ext", MSHOptions{TextureExt: ".tga"}, "hull.png", "hull.tga"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewMSHWriter(&bytes.Buffer{}, tt.opts)
			if got := mw.textureName(tt.file); got != tt.expect {
				t.Errorf("textureName(%q) = %q, want %q", tt.file, got, tt.expect)
			}
		})
	}
}

func TestWriteCRLF(t *testing.T) {
	files := fstest.MapFS{"model.obj": source(triangleGeometry, "g a", "f 1//1 2//1 3//1")}
	m, _ := readSource(t, files, ReadOptions{})

	got, stats := writeMesh(t, m, MSHOptions{CRLF: true})
	if strings.Count(got, "\r\n") != stats.Lines {
		t.Errorf("CRLF lines = %d, want %d", strings.Count(got, "\r\n"), stats.Lines)
	}
	if strings.Count(got, "\n") != stats.Lines {
		t.Error("found bare LF")
	}
}

func TestFormatNumbers(t *testing.T) {
	tests := []struct {
		in        float32
		coord     string
		component string
	}{
		{0, "0.0000", "0"},
		{float32(negZero()), "0.0000", "0"},
		{-0.00001, "0.0000", "-0.00001"},
		{1.5, "1.5000", "1.5"},
		{0.765, "0.7650", "0.765"},
		{-2.25, "-2.2500", "-2.25"},
	}

	for _, tt := range tests {
		if got := formatCoord(tt.in); got != tt.coord {
			t.Errorf("formatCoord(%g) = %q, want %q", tt.in, got, tt.coord)
		}
		if got := formatFloat(tt.in); got != tt.component {
			t.Errorf("formatFloat(%g) = %q, want %q", tt.in, got, tt.component)
		}
	}
}

func negZero() float64 {
	z := 0.0
	return -z
}

func TestBuildGeometryProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := mesh.New()
	for i := 0; i < 6; i++ {
		m.AddVertex(math.Vec3{X: float32(i)})
		m.AddNormal(math.Vec3{Y: float32(i)})
		m.AddTexCoord(math.Vec2{X: float32(i)})
	}
	g, _ := m.AddGroup("random", -1)
	for i := 0; i < 200; i++ {
		var f mesh.Face
		for j := range f {
			f[j] = mesh.Triplet{Vertex: rng.Intn(6), Texture: rng.Intn(7) - 1, Normal: rng.Intn(6)}
		}
		g.AddFace(f)
	}

	var callbacks int
	geom, err := BuildGeometry(m, g, false, func(tr mesh.Triplet, vertex int) {
		callbacks++
		if vertex < 0 || vertex >= 6*7*6 {
			t.Errorf("reused %s maps to vertex %d", tr, vertex)
		}
	})
	if err != nil {
		t.Fatalf("BuildGeometry: %v", err)
	}
	if len(geom.Faces) != len(g.Faces) {
		t.Fatalf("faces = %d, want %d", len(geom.Faces), len(g.Faces))
	}
	if callbacks != geom.Reused {
		t.Errorf("reuse callbacks = %d, reused = %d", callbacks, geom.Reused)
	}
	if len(geom.Vertices)+geom.Reused != 3*len(g.Faces) {
		t.Errorf("unique %d + reused %d != %d", len(geom.Vertices), geom.Reused, 3*len(g.Faces))
	}

	distinct := make(map[mesh.Triplet]bool)
	for fi, f := range g.Faces {
		for j, tr := range f {
			distinct[tr] = true
			idx := geom.Faces[fi][j]
			if idx < 0 || idx >= len(geom.Vertices) {
				t.Fatalf("face %d index %d out of range", fi, idx)
			}
			if geom.Vertices[idx].Pos.X != -float32(tr.Vertex) {
				t.Errorf("face %d corner %d maps to wrong vertex", fi, j)
			}
		}
	}
	if len(distinct) != len(geom.Vertices) {
		t.Errorf("unique vertices = %d, distinct triplets = %d", len(geom.Vertices), len(distinct))
	}

	again, _ := BuildGeometry(m, g, false, nil)
	for i := range geom.Vertices {
		if geom.Vertices[i] != again.Vertices[i] {
			t.Fatal("output is not deterministic")
		}
	}
}

func countLines(s, line string) int {
	n := 0
	for _, l := range strings.Split(s, "\n") {
		if l == line {
			n++
		}
	}
	return n
}
