package formats

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/obj2msh/pkg/mesh"
)

// readOverrides applies a material override file if one exists and returns
// the number of MATERIAL entries applied.
//
//	MATERIAL hull
//	d 1 1 1 1
//	s 0.5 0.5 0.5 1 40
func (r *reader) readOverrides(name string) (int, error) {
	if _, err := fs.Stat(r.fsys, name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "checking %s", name)
	}

	var active *mesh.Material
	count := 0
	err := r.scan(name, func(fc *fileContext, fields []string) error {
		cmd := strings.ToLower(fields[0])
		if cmd == "material" {
			active = nil
			if len(fields) != 2 {
				r.warn(fc, "incorrect number of parameters on MATERIAL line", "The material entry will be ignored.")
				return nil
			}
			mat, ok := r.mesh.Material(fields[1])
			if !ok {
				r.warn(fc, fmt.Sprintf("material %q is not defined", fields[1]), "The material entry will be ignored.")
				return nil
			}
			active = mat
			count++
			return nil
		}
		if active == nil {
			r.warn(fc, "no valid MATERIAL selected for this line", "The line will be ignored.")
			return nil
		}

		switch cmd {
		case "d":
			if c, ok := r.rgba(fc, fields); ok {
				active.Diffuse = &mesh.Channel{Color: c, Override: true}
			}
		case "a":
			if c, ok := r.rgba(fc, fields); ok {
				active.Ambient = &mesh.Channel{Color: c, Override: true}
			}
		case "s":
			if len(fields) < 6 {
				r.warnShort(fc, 6, len(fields))
				return nil
			}
			c, ok := r.rgba(fc, fields)
			if !ok {
				return nil
			}
			power, err := strconv.ParseFloat(fields[5], 32)
			if err != nil {
				r.warn(fc, fmt.Sprintf("invalid specular power %q", fields[5]), "The values will be ignored.")
				return nil
			}
			active.Specular = &mesh.Channel{Color: c, Power: float32(power), Override: true}
		case "e":
			if c, ok := r.rgba(fc, fields); ok {
				active.Emissive = &mesh.Channel{Color: c, Override: true}
			}
		default:
			r.warn(fc, fmt.Sprintf("unknown command %q", fields[0]), "The line will be ignored.")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
