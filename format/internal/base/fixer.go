package base

import (
	"go.uber.org/zap"
)

// DataFixer migrates records written by an older data version to a newer one.
type DataFixer interface {
	FixBlockState(state string, from, to int) string
	FixBlockEntity(data map[string]any, from, to int) map[string]any
	FixEntity(data map[string]any, from, to int) map[string]any
	FixBiome(biome string, from, to int) string
}

// NopFixer returns every record unchanged.
type NopFixer struct{}

func (NopFixer) FixBlockState(state string, _, _ int) string { return state }

func (NopFixer) FixBlockEntity(data map[string]any, _, _ int) map[string]any { return data }

func (NopFixer) FixEntity(data map[string]any, _, _ int) map[string]any { return data }

func (NopFixer) FixBiome(biome string, _, _ int) string { return biome }

// VersionedFixer applies a DataFixer only when a container's data version is
// known and older than the live version. Records are fixed one at a time as
// they are decoded.
type VersionedFixer struct {
	source, live int
	fixer        DataFixer
	active       bool
}

// NewVersionedFixer decides once per container whether fixups run. fixer may be
// nil when the platform has no migration service.
func NewVersionedFixer(source, live int, fixer DataFixer, log *zap.SugaredLogger) *VersionedFixer {
	f := &VersionedFixer{source: source, live: live, fixer: NopFixer{}}
	switch {
	case source < 0:
		log.Warnw("schematic has an unknown data version, data may be incompatible",
			"dataVersion", source)
	case source > live:
		log.Warnw("schematic was made in a newer version than the platform, data may be incompatible",
			"dataVersion", source, "liveDataVersion", live)
	case source == live:
	case fixer == nil:
		log.Warnw("schematic was made in an older version, but no data fixer is available, data may be incompatible",
			"dataVersion", source, "liveDataVersion", live)
	default:
		log.Debugw("schematic was made in an older version, applying data fixer",
			"dataVersion", source, "liveDataVersion", live)
		f.fixer = fixer
		f.active = true
	}
	return f
}

// Active reports whether records will be migrated.
func (f *VersionedFixer) Active() bool {
	return f.active
}

// ResultVersion is the data version of records after fixing.
func (f *VersionedFixer) ResultVersion() int {
	if f.active {
		return f.live
	}
	return f.source
}

func (f *VersionedFixer) BlockState(state string) string {
	if !f.active {
		return state
	}
	return f.fixer.FixBlockState(state, f.source, f.live)
}

func (f *VersionedFixer) BlockEntity(data map[string]any) map[string]any {
	if !f.active {
		return data
	}
	return f.fixer.FixBlockEntity(data, f.source, f.live)
}

func (f *VersionedFixer) Entity(data map[string]any) map[string]any {
	if !f.active {
		return data
	}
	return f.fixer.FixEntity(data, f.source, f.live)
}

func (f *VersionedFixer) Biome(biome string) string {
	if !f.active {
		return biome
	}
	return f.fixer.FixBiome(biome, f.source, f.live)
}
