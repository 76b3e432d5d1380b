// Package report writes the side files produced next to a converted mesh:
// the group listing and the C header of group indices used by vessel code.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Faultbox/obj2msh/pkg/mesh"
)

// Suffixes appended to the mesh path for each side file.
const (
	InfoSuffix     = ".txt"
	ResourceSuffix = ".resource.h"
)

const rule = "//----------------------------------------------------------------------------"

// Header identifies the tool run that produced a report.
type Header struct {
	Program string
	Version string
	Created time.Time
	// MeshFile is the MSH path the report belongs to.
	MeshFile string
}

func (h Header) createdBy() string {
	return fmt.Sprintf("Created by %s %s, %s", h.Program, h.Version, h.Created.Format("2006-01-02 15:04:05"))
}

// WriteInfo lists the groups of m in output order with their materials.
func WriteInfo(w io.Writer, m *mesh.Mesh, h Header) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, h.createdBy())
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Mesh Filename: %s\n", h.MeshFile)
	fmt.Fprintln(bw, "Group List:")
	for i, g := range m.Groups() {
		fmt.Fprintf(bw, "  #%d: %s : material=%s\n", i, g.Name, g.Material)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "-- end --")
	return bw.Flush()
}

// WriteResourceHeader writes a C header defining the group, material and
// texture counts and one GRP_<name> index per group.
func WriteResourceHeader(w io.Writer, m *mesh.Mesh, h Header) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "// %s\n", h.createdBy())
	fmt.Fprintln(bw, "//")
	fmt.Fprintf(bw, "// Mesh Filename: %s\n", h.MeshFile)
	fmt.Fprintln(bw, rule)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "#pragma once")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "// Number of mesh groups")
	fmt.Fprintf(bw, "#define NGRP %d\n", m.GroupCount())
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "// Number of materials")
	fmt.Fprintf(bw, "#define NMAT %d\n", m.MaterialCount())
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "// Number of textures")
	fmt.Fprintf(bw, "#define NTEX %d\n", m.TextureCount())
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "// Named mesh groups")
	for i, g := range m.Groups() {
		fmt.Fprintf(bw, "#define GRP_%s %d\n", Identifier(g.Name), i)
	}
	fmt.Fprintln(bw, "// end of file")
	return bw.Flush()
}

// Identifier maps a group name to a valid C identifier suffix.
func Identifier(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}
