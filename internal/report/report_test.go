package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/obj2msh/pkg/mesh"
)

func sampleMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	m := mesh.New()
	hull, err := m.AddMaterial("hull")
	if err != nil {
		t.Fatal(err)
	}
	m.SetTexture(hull, "hull.png")

	g, _ := m.AddGroup("dg_int 0", -1)
	g.Material = hull
	m.AddGroup("nose-cone", -1)
	return m
}

var testHeader = Header{
	Program:  "obj2msh",
	Version:  "1.0.0",
	Created:  time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
	MeshFile: "ship.msh",
}

func TestWriteInfo(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInfo(&buf, sampleMesh(t), testHeader); err != nil {
		t.Fatalf("WriteInfo: %v", err)
	}

	want := `Created by obj2msh 1.0.0, 2024-03-01 12:30:00

Mesh Filename: ship.msh
Group List:
  #0: dg_int 0 : material=[name=hull, transparency=1, texture=hull.png]
  #1: nose-cone : material=none

-- end --
`
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteResourceHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResourceHeader(&buf, sampleMesh(t), testHeader); err != nil {
		t.Fatalf("WriteResourceHeader: %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		"#pragma once\n",
		"#define NGRP 2\n",
		"#define NMAT 1\n",
		"#define NTEX 1\n",
		"#define GRP_dg_int_0 0\n",
		"#define GRP_nose_cone 1\n",
		"// Mesh Filename: ship.msh\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "// end of file\n") {
		t.Error("missing end marker")
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hull", "hull"},
		{"dg_int 0", "dg_int_0"},
		{"nose-cone.2", "nose_cone_2"},
		{"café", "caf_"},
	}

	for _, tt := range tests {
		if got := Identifier(tt.in); got != tt.want {
			t.Errorf("Identifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
