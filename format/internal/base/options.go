package base

import (
	"go.uber.org/zap"
)

// Platform identifies the software that wrote a container.
type Platform struct {
	ID      string
	Name    string
	Version string
}

// Options configures a single read or write call.
type Options struct {
	// DataVersion is the live data version of the platform. Writers record it
	// and readers migrate older containers towards it.
	DataVersion int
	// Fixer migrates older records. Nil means no migration service exists.
	Fixer DataFixer
	// Registry resolves block, biome and entity keys.
	Registry Registry
	// Logger receives non-fatal warnings.
	Logger *zap.SugaredLogger
	// Platform and EditorVersion are written into container metadata.
	Platform      Platform
	EditorVersion string
	// DefaultBiome replaces biome keys the registry cannot resolve.
	DefaultBiome string
	// NewClipboard constructs the clipboard a reader fills.
	NewClipboard func(Region) Clipboard
}

// DefaultOptions returns options with every field populated.
func DefaultOptions() Options {
	return Options{}.WithDefaults()
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.DataVersion == 0 {
		o.DataVersion = DefaultDataVersion
	}
	if o.Registry == nil {
		o.Registry = DefaultRegistry{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	if o.Platform.ID == "" {
		o.Platform = Platform{ID: "clipschem", Name: "clipschem", Version: "dev"}
	}
	if o.EditorVersion == "" {
		o.EditorVersion = o.Platform.Version
	}
	if o.DefaultBiome == "" {
		o.DefaultBiome = "minecraft:plains"
	}
	if o.NewClipboard == nil {
		o.NewClipboard = func(r Region) Clipboard { return NewMemory(r) }
	}
	return o
}
