// Package config handles converter configuration loading and management.
package config

import "github.com/Faultbox/obj2msh/pkg/formats"

// Config holds all converter settings.
type Config struct {
	Conversion ConversionConfig `yaml:"conversion" toml:"conversion"`
	Output     OutputConfig     `yaml:"output" toml:"output"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
}

// ConversionConfig controls how the source mesh is transformed.
type ConversionConfig struct {
	RotateX           bool    `yaml:"rotate_x" toml:"rotate_x"`                       // Rotate 90 degrees nose-down about X
	NoFlip            bool    `yaml:"no_flip" toml:"no_flip"`                         // Keep the source winding order
	NoReorder         bool    `yaml:"no_reorder" toml:"no_reorder"`                   // Keep transparent materials in place
	SpecularPower     float32 `yaml:"specular_power" toml:"specular_power"`           // Power for non-black Ks, 0-100
	LogMaterialErrors bool    `yaml:"log_material_errors" toml:"log_material_errors"` // Warn when a group gets a second material
	Encoding          string  `yaml:"encoding" toml:"encoding"`                       // Source text encoding
}

// OutputConfig controls the written files.
type OutputConfig struct {
	TexturePrefix    string `yaml:"texture_prefix" toml:"texture_prefix"`
	TextureExtension string `yaml:"texture_extension" toml:"texture_extension"`
	CRLF             bool   `yaml:"crlf" toml:"crlf"`
	InfoFile         bool   `yaml:"info_file" toml:"info_file"`
	ResourceHeader   bool   `yaml:"resource_header" toml:"resource_header"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	LogFile    string `yaml:"log_file" toml:"log_file"`
	DebugFaces bool   `yaml:"debug_faces" toml:"debug_faces"` // Log each reused vertex triplet
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Conversion: ConversionConfig{
			SpecularPower: formats.DefaultSpecularPower,
			Encoding:      "utf-8",
		},
		Output: OutputConfig{
			TextureExtension: ".dds",
			InfoFile:         true,
			ResourceHeader:   true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
