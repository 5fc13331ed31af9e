package base

import (
	"fmt"

	"go.uber.org/zap"
)

// Palette assigns dense ids to keys in first-seen order.
type Palette struct {
	keys  []string
	index map[string]int
}

// NewPalette creates a new empty palette.
func NewPalette() *Palette {
	return &Palette{
		keys:  make([]string, 0),
		index: make(map[string]int),
	}
}

// ID returns the id of key, assigning the next free id if key is new.
func (p *Palette) ID(key string) int {
	if idx, ok := p.index[key]; ok {
		return idx
	}
	idx := len(p.keys)
	p.keys = append(p.keys, key)
	p.index[key] = idx
	return idx
}

// Index returns the id of key, or -1 if not found.
func (p *Palette) Index(key string) int {
	if idx, ok := p.index[key]; ok {
		return idx
	}
	return -1
}

// Len returns the number of entries in the palette.
func (p *Palette) Len() int {
	return len(p.keys)
}

// Keys returns the keys in id order.
func (p *Palette) Keys() []string {
	return p.keys
}

// Map returns the key to id table as stored in containers.
func (p *Palette) Map() map[string]int32 {
	m := make(map[string]int32, len(p.keys))
	for i, k := range p.keys {
		m[k] = int32(i)
	}
	return m
}

// CheckPaletteSize verifies a declared entry count against the table.
func CheckPaletteSize(raw map[string]any, declared int, field string) error {
	if declared != len(raw) {
		return Malformedf(field, "%w: declared %d, found %d", ErrPaletteSize, declared, len(raw))
	}
	return nil
}

// paletteIDs validates that every value of a palette table is an int.
func paletteIDs(raw map[string]any, field string) (map[string]int, error) {
	ids := make(map[string]int, len(raw))
	for key, v := range raw {
		id, ok := Int(v)
		if !ok {
			return nil, Malformedf(field, "%w: %q mapped to %T", ErrWrongType, key, v)
		}
		ids[key] = id
	}
	return ids, nil
}

// DecodeBlockPalette resolves a block palette table into id to state. Keys
// the registry rejects become air.
func DecodeBlockPalette(raw map[string]any, field string, fixer *VersionedFixer, reg Registry, log *zap.SugaredLogger) (map[int]*BlockState, error) {
	ids, err := paletteIDs(raw, field)
	if err != nil {
		return nil, err
	}
	palette := make(map[int]*BlockState, len(ids))
	for key, id := range ids {
		fixed := fixer.BlockState(key)
		state, err := reg.ParseBlockState(fixed)
		if err != nil {
			log.Warnw("invalid block state in palette, block will be replaced with air",
				"state", fixed, "error", err)
			state = Air()
		}
		palette[id] = state
	}
	return palette, nil
}

// DecodeBiomePalette resolves a biome palette table into id to biome key.
// Unknown biomes become defaultBiome.
func DecodeBiomePalette(raw map[string]any, field string, fixer *VersionedFixer, reg Registry, defaultBiome string, log *zap.SugaredLogger) (map[int]string, error) {
	ids, err := paletteIDs(raw, field)
	if err != nil {
		return nil, err
	}
	palette := make(map[int]string, len(ids))
	for key, id := range ids {
		fixed := fixer.Biome(key)
		biome, ok := reg.Biome(fixed)
		if !ok {
			log.Warnw("unknown biome type in palette, biome will be replaced",
				"biome", fixed, "replacement", defaultBiome)
			biome = defaultBiome
		}
		palette[id] = biome
	}
	return palette, nil
}

// Lookup returns palette[id] or an unknown-id FormatError.
func Lookup[T any](palette map[int]T, id, index int, field string) (T, error) {
	v, ok := palette[id]
	if !ok {
		var zero T
		return zero, Malformed(field, fmt.Errorf("%w: %d at index %d", ErrUnknownPaletteID, id, index))
	}
	return v, nil
}
