package mesh

import (
	"fmt"
)

// Color is an RGBA color.
type Color struct {
	R, G, B, A float32
}

// RGB returns an opaque color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// IsZero reports whether the RGB components are all zero. Alpha is ignored.
func (c Color) IsZero() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// Channel is one material color channel. Power is only meaningful for the
// specular channel. Override marks values set by a material override file;
// their alpha is emitted as given instead of being derived from the
// material's transparency.
type Channel struct {
	Color
	Power    float32
	Override bool
}

// Default channel colors, taken from the stock DeltaGlider hull materials so
// that meshes without explicit values still render sensibly in Orbiter.
var (
	DefaultDiffuse  = RGB(1.0, 1.0, 1.0)
	DefaultAmbient  = RGB(0.765, 0.765, 0.765)
	DefaultSpecular = RGB(0.271, 0.271, 0.271)
)

// Material is a named surface description shared by groups.
type Material struct {
	Name         string
	Index        int // 1..n, 0 is the target's default material
	TextureIndex int // 1..n, 0 if no texture
	TextureFile  string

	Diffuse  *Channel
	Ambient  *Channel
	Specular *Channel
	Emissive *Channel

	Transparency *Color // nil means fully opaque
}

// AverageTransparency returns the mean of the transparency color's RGB
// components, or 1 (opaque) when no transparency color is set.
func (mat *Material) AverageTransparency() float32 {
	if mat.Transparency == nil {
		return 1.0
	}
	c := mat.Transparency
	return (c.R + c.G + c.B) / 3.0
}

// IsTransparent reports whether the material is not fully opaque.
func (mat *Material) IsTransparent() bool {
	return mat.AverageTransparency() < 1.0
}

// HasTexture reports whether a texture index was assigned.
func (mat *Material) HasTexture() bool {
	return mat.TextureIndex > 0
}

// ApplyDefaults fills any missing diffuse, ambient or specular channel with
// its default color. Emissive has no default.
func (mat *Material) ApplyDefaults() {
	if mat.Diffuse == nil {
		mat.Diffuse = &Channel{Color: DefaultDiffuse}
	}
	if mat.Ambient == nil {
		mat.Ambient = &Channel{Color: DefaultAmbient}
	}
	if mat.Specular == nil {
		mat.Specular = &Channel{Color: DefaultSpecular}
	}
}

// String returns a short description used in reports and log output.
func (mat *Material) String() string {
	if mat == nil {
		return "none"
	}
	texture := mat.TextureFile
	if texture == "" {
		texture = "NONE"
	}
	return fmt.Sprintf("[name=%s, transparency=%g, texture=%s]", mat.Name, mat.AverageTransparency(), texture)
}
