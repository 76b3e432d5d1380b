package formats

import (
	"strings"

	"github.com/Faultbox/obj2msh/pkg/mesh"
)

// readMTL parses a material library into the run's material registry. Every
// material without a diffuse, ambient or specular channel afterwards gets
// the default one.
func (r *reader) readMTL(name string) error {
	var active *mesh.Material
	err := r.scan(name, func(fc *fileContext, fields []string) error {
		if len(fields) < 2 {
			r.warnShort(fc, 2, len(fields))
			return nil
		}
		cmd := strings.ToLower(fields[0])
		if cmd == "newmtl" {
			mat, err := r.mesh.AddMaterial(fields[1])
			if err != nil {
				return fc.fatal(err)
			}
			active = mat
			return nil
		}

		switch cmd {
		case "kd", "ka", "ks", "ke", "map_kd", "tf":
		default:
			return nil
		}
		if active == nil {
			r.warn(fc, "no newmtl declared before this line", "The line will be ignored.")
			return nil
		}

		switch cmd {
		case "kd":
			if c, ok := r.rgb(fc, fields); ok {
				active.Diffuse = &mesh.Channel{Color: orDefault(c, mesh.DefaultDiffuse)}
			}
		case "ka":
			if c, ok := r.rgb(fc, fields); ok {
				active.Ambient = &mesh.Channel{Color: orDefault(c, mesh.DefaultAmbient)}
			}
		case "ks":
			if c, ok := r.rgb(fc, fields); ok {
				ch := &mesh.Channel{Color: mesh.DefaultSpecular}
				if !c.IsZero() {
					ch.Color = c
					ch.Power = r.opts.SpecularPower
				}
				active.Specular = ch
			}
		case "ke":
			if c, ok := r.rgb(fc, fields); ok {
				active.Emissive = &mesh.Channel{Color: c}
			}
		case "map_kd":
			r.mesh.SetTexture(active, baseName(strings.Join(fields[1:], " ")))
		case "tf":
			if c, ok := r.rgb(fc, fields); ok {
				active.Transparency = &c
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, mat := range r.mesh.Materials() {
		mat.ApplyDefaults()
	}
	return nil
}

// orDefault replaces black with def.
func orDefault(c, def mesh.Color) mesh.Color {
	if c.IsZero() {
		return def
	}
	return c
}

// baseName strips any directory, written with either separator.
func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
