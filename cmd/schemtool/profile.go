package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/oriumgames/clipschem"
	"github.com/oriumgames/clipschem/format"
)

// Profile is the YAML configuration shared by every subcommand.
type Profile struct {
	DataVersion  int          `yaml:"data_version"`
	DefaultBiome string       `yaml:"default_biome"`
	OutputFormat string       `yaml:"output_format"`
	Upgrade      bool         `yaml:"upgrade"`
	Platform     PlatformSpec `yaml:"platform"`
}

type PlatformSpec struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

func LoadProfile(path string) (Profile, error) {
	p := defaults()
	if strings.TrimSpace(path) == "" {
		p.Normalize()
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("%s: %w", path, err)
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func defaults() Profile {
	return Profile{
		DataVersion:  format.DefaultDataVersion,
		DefaultBiome: "minecraft:plains",
		OutputFormat: format.SpongeV3,
		Platform: PlatformSpec{
			ID:      "clipschem",
			Name:    "clipschem schemtool",
			Version: "dev",
		},
	}
}

func (p *Profile) Normalize() {
	p.DefaultBiome = strings.ToLower(strings.TrimSpace(p.DefaultBiome))
	if p.DefaultBiome != "" && !strings.Contains(p.DefaultBiome, ":") {
		p.DefaultBiome = "minecraft:" + p.DefaultBiome
	}
	p.OutputFormat = strings.ToLower(strings.TrimSpace(p.OutputFormat))
	if p.OutputFormat == "" {
		p.OutputFormat = format.SpongeV3
	}
	p.Platform.ID = strings.TrimSpace(p.Platform.ID)
	if p.Platform.Name == "" {
		p.Platform.Name = p.Platform.ID
	}
}

func (p Profile) Validate() error {
	if p.DataVersion <= 0 {
		return fmt.Errorf("data_version must be > 0")
	}
	if !slices.Contains(format.Formats(), p.OutputFormat) {
		return fmt.Errorf("unknown output_format %q", p.OutputFormat)
	}
	if p.Platform.ID == "" {
		return fmt.Errorf("platform.id is required")
	}
	return nil
}

// Options builds codec options for the profile.
func (p Profile) Options(log *zap.SugaredLogger) (format.Options, error) {
	opts := format.Options{
		DataVersion:  p.DataVersion,
		Logger:       log,
		DefaultBiome: p.DefaultBiome,
		Platform: format.Platform{
			ID:      p.Platform.ID,
			Name:    p.Platform.Name,
			Version: p.Platform.Version,
		},
	}
	if p.Upgrade {
		fixer, err := clipschem.NewCroconFixer(log)
		if err != nil {
			return opts, err
		}
		opts.Fixer = fixer
	}
	return opts.WithDefaults(), nil
}
