package config

import (
	"flag"
	"io"
)

// Flags is the command-line flag set of the last ParseFlags call.
var Flags = newFlagSet()

var (
	flagConfig            *string
	flagDebug             *bool
	flagDebugFaces        *bool
	flagRotate            *bool
	flagNoFlip            *bool
	flagNoReorder         *bool
	flagTexturePrefix     *string
	flagSpecularPower     *int
	flagLogMaterialErrors *bool
	flagEncoding          *string
	flagCRLF              *bool
	flagLogFile           *string
)

// positional holds the non-flag arguments, in order.
var positional []string

// setFlags records which flags were given explicitly.
var setFlags = map[string]bool{}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("obj2msh", flag.ContinueOnError)
	flagConfig = fs.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug = fs.Bool("debug", false, "Enable debug logging")
	flagDebugFaces = fs.Bool("df", false, "Log every vertex triplet reused within a group")
	flagRotate = fs.Bool("rotate", false, "Rotate the mesh 90 degrees nose-down about the X axis")
	flagNoFlip = fs.Bool("noflip", false, "Do not flip face winding")
	flagNoReorder = fs.Bool("nr", false, "Do not move transparent materials and groups last")
	flagTexturePrefix = fs.String("tprefix", "", "Texture path prefix")
	flagSpecularPower = fs.Int("sp", 0, "Specular power for non-black Ks colors (0-100)")
	flagLogMaterialErrors = fs.Bool("logMaterialErrors", false, "Warn when a group is given a second material")
	flagEncoding = fs.String("encoding", "", "Source text encoding (e.g. windows-1252)")
	flagCRLF = fs.Bool("crlf", false, "Write CRLF line endings")
	flagLogFile = fs.String("log", "", "Also log to this file, rotated")
	return fs
}

// ParseFlags parses command-line flags from args, which must not include
// the program or command name. Flags and file arguments may be mixed; "--"
// ends flag parsing. Every call starts from the flag defaults. Usage and
// errors go to output.
func ParseFlags(args []string, output io.Writer) error {
	Flags = newFlagSet()
	Flags.SetOutput(output)
	positional = nil
	setFlags = map[string]bool{}

	for {
		if err := Flags.Parse(args); err != nil {
			return err
		}
		rest := Flags.Args()
		if len(rest) == 0 {
			break
		}
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			positional = append(positional, rest...)
			break
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}

	Flags.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})
	return nil
}

// Args returns the positional arguments left after ParseFlags.
func Args() []string {
	return positional
}

// ConfigPath returns the explicit config path if provided via -config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config. Only flags given on
// the command line override file values.
func applyFlags(cfg *Config) {
	if setFlags["debug"] && *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if setFlags["df"] {
		cfg.Logging.DebugFaces = *flagDebugFaces
	}
	if setFlags["log"] {
		cfg.Logging.LogFile = *flagLogFile
	}
	if setFlags["rotate"] {
		cfg.Conversion.RotateX = *flagRotate
	}
	if setFlags["noflip"] {
		cfg.Conversion.NoFlip = *flagNoFlip
	}
	if setFlags["nr"] {
		cfg.Conversion.NoReorder = *flagNoReorder
	}
	if setFlags["sp"] {
		cfg.Conversion.SpecularPower = float32(*flagSpecularPower)
	}
	if setFlags["logMaterialErrors"] {
		cfg.Conversion.LogMaterialErrors = *flagLogMaterialErrors
	}
	if setFlags["encoding"] && *flagEncoding != "" {
		cfg.Conversion.Encoding = *flagEncoding
	}
	if setFlags["tprefix"] {
		cfg.Output.TexturePrefix = *flagTexturePrefix
	}
	if setFlags["crlf"] {
		cfg.Output.CRLF = *flagCRLF
	}
}
