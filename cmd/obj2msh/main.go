// obj2msh converts Wavefront OBJ meshes to the Orbiter MSH format.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/obj2msh/internal/config"
	"github.com/Faultbox/obj2msh/internal/convert"
	"github.com/Faultbox/obj2msh/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(convert.ExitUsage)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "convert", "c":
		os.Exit(cmdConvert(args))
	case "info":
		os.Exit(cmdInfo(args))
	case "config":
		os.Exit(cmdConfig(args))
	case "version":
		fmt.Printf("%s %s\n", convert.Program, convert.Version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(convert.ExitUsage)
	}
}

func printUsage() {
	fmt.Println(`obj2msh - Wavefront OBJ to Orbiter MSH converter

Usage:
  obj2msh <command> [flags] <args>

Commands:
  convert [flags] <input.obj> [output.msh]  Convert a mesh
  info [flags] <input.obj>                  Show what a conversion would produce
  config [flags] [file.yaml|file.toml]      Print or save the effective config
  version                                   Show version

Flags (anywhere on the command line; -- ends them):
  -config <file>        Config file (default: obj2msh.yaml/.toml in the
                        working directory or the user config directory)
  -rotate               Rotate 90 degrees nose-down about the X axis
  -noflip               Keep the source face winding
  -nr                   Do not move transparent materials last
  -tprefix <prefix>     Texture path prefix, e.g. DeltaGlider
  -sp <power>           Specular power for non-black Ks (0-100, default 25)
  -logMaterialErrors    Warn when a group is given a second material
  -encoding <name>      Source text encoding (default utf-8)
  -crlf                 Write CRLF line endings
  -debug                Debug logging
  -df                   Log every vertex triplet reused within a group
  -log <file>           Also log to a rotated file

Exit status:
  0 success, 1-100 number of warnings (capped), or after a failure:
  1 usage/config error, 2 I/O error, 3 malformed source

Examples:
  obj2msh convert DeltaGlider.obj
  obj2msh convert -rotate -tprefix DG ship.obj meshes/ship.msh
  obj2msh convert ship.obj -sp 0 -df
  obj2msh info -encoding windows-1252 station.obj`)
}

// setup parses flags, loads the config and starts logging.
func setup(args []string) (*config.Config, int) {
	if err := config.ParseFlags(args, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, 0
		}
		return nil, convert.ExitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return nil, convert.ExitUsage
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return nil, convert.ExitUsage
	}
	logger.Sugar.Debugf("Config: %+v", cfg)
	return cfg, 0
}

func cmdConvert(args []string) int {
	cfg, code := setup(args)
	if cfg == nil {
		return code
	}
	defer logger.Sync()

	rest := config.Args()
	if len(rest) < 1 || len(rest) > 2 {
		fmt.Fprintln(os.Stderr, "Usage: obj2msh convert [flags] <input.obj> [output.msh]")
		return convert.ExitUsage
	}
	output := ""
	if len(rest) == 2 {
		output = rest[1]
	}

	res, err := convert.New(cfg, logger.Named("convert")).Run(rest[0], output)
	if err != nil {
		logger.Error("conversion failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return convert.ExitCode(res, err)
	}

	fmt.Printf("Wrote %s: %d groups, %d vertices (%d reused), %d faces, %d lines\n",
		res.Output, res.Write.Groups, res.Write.Vertices, res.Write.Reused, res.Write.Faces, res.Write.Lines)
	if res.InfoFile != "" {
		fmt.Printf("Wrote %s\n", res.InfoFile)
	}
	if res.ResourceHeader != "" {
		fmt.Printf("Wrote %s\n", res.ResourceHeader)
	}
	if n := res.Warnings(); n > 0 {
		fmt.Fprintf(os.Stderr, "%d warning(s)\n", n)
	}
	return convert.ExitCode(res, nil)
}

func cmdInfo(args []string) int {
	cfg, code := setup(args)
	if cfg == nil {
		return code
	}
	defer logger.Sync()

	rest := config.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: obj2msh info [flags] <input.obj>")
		return convert.ExitUsage
	}

	stats, err := convert.New(cfg, logger.Named("info")).Inspect(rest[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return convert.ExitCode(nil, err)
	}

	s := stats.Summary
	fmt.Printf("Source:     %s\n", rest[0])
	fmt.Printf("Lines:      %d\n", stats.Lines)
	fmt.Printf("Groups:     %d (%d empty removed)\n", s.Groups, stats.EmptyGroups)
	fmt.Printf("Faces:      %d\n", s.Faces)
	fmt.Printf("Vertices:   %d\n", s.Vertices)
	fmt.Printf("Normals:    %d\n", s.Normals)
	fmt.Printf("TexCoords:  %d\n", s.TexCoords)
	fmt.Printf("Materials:  %d (%d unused removed, %d overridden)\n", s.Materials, stats.UnusedMaterials, stats.MaterialOverrides)
	fmt.Printf("Textures:   %d\n", s.Textures)
	if len(stats.Warnings) > 0 {
		fmt.Println()
		fmt.Printf("Warnings (%d):\n", len(stats.Warnings))
		for _, w := range stats.Warnings {
			fmt.Printf("  %s\n", w)
		}
	}
	return 0
}

func cmdConfig(args []string) int {
	cfg, code := setup(args)
	if cfg == nil {
		return code
	}
	defer logger.Sync()

	rest := config.Args()
	switch len(rest) {
	case 0:
		data, err := cfg.Marshal(false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return convert.ExitUsage
		}
		os.Stdout.Write(data)
	case 1:
		if err := cfg.SaveTo(rest[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return convert.ExitIO
		}
		fmt.Printf("Saved: %s\n", rest[0])
	default:
		fmt.Fprintln(os.Stderr, "Usage: obj2msh config [flags] [file.yaml|file.toml]")
		return convert.ExitUsage
	}
	return 0
}
