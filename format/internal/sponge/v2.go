package sponge

import (
	"fmt"
	"io"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/nbt"

	"github.com/oriumgames/clipschem/format/internal/base"
)

// v2Schematic is the NBT layout written for Sponge Schematic Version 2.
type v2Schematic struct {
	Version         int32            `nbt:"Version"`
	DataVersion     int32            `nbt:"DataVersion"`
	Width           int16            `nbt:"Width"`
	Height          int16            `nbt:"Height"`
	Length          int16            `nbt:"Length"`
	Offset          [3]int32         `nbt:"Offset"`
	Metadata        map[string]any   `nbt:"Metadata"`
	PaletteMax      int32            `nbt:"PaletteMax"`
	Palette         map[string]int32 `nbt:"Palette"`
	BlockData       []byte           `nbt:"BlockData,array"`
	BlockEntities   []map[string]any `nbt:"BlockEntities"`
	Entities        []map[string]any `nbt:"Entities,omitempty"`
	BiomePaletteMax int32            `nbt:"BiomePaletteMax,omitempty"`
	BiomePalette    map[string]int32 `nbt:"BiomePalette,omitempty"`
	BiomeData       []byte           `nbt:"BiomeData,array,omitempty"`
}

// ReadV2 reads an uncompressed Sponge Schematic v2 container.
func ReadV2(r io.Reader, opts base.Options) (base.Clipboard, error) {
	opts = opts.WithDefaults()
	root, err := readRoot(r)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(root, "", 2); err != nil {
		return nil, err
	}
	dataVersion, err := base.RequireInt(root, "", "DataVersion")
	if err != nil {
		return nil, err
	}
	width, height, length, err := readDimensions(root, "")
	if err != nil {
		return nil, err
	}
	offset, err := base.OptionalVector(root, "", "Offset")
	if err != nil {
		return nil, err
	}
	meta, _, err := base.OptionalCompound(root, "", "Metadata")
	if err != nil {
		return nil, err
	}
	min := cube.Pos(offset)
	origin, err := legacyOrigin(min, meta)
	if err != nil {
		return nil, err
	}

	fixer := base.NewVersionedFixer(dataVersion, opts.DataVersion, opts.Fixer, opts.Logger)
	c := newClipboard(opts, min, origin, width, height, length)
	copyMetadata(c, meta)

	paletteMax, err := base.RequireInt(root, "", "PaletteMax")
	if err != nil {
		return nil, err
	}
	rawPalette, err := base.RequireCompound(root, "", "Palette")
	if err != nil {
		return nil, err
	}
	if err := base.CheckPaletteSize(rawPalette, paletteMax, "Palette"); err != nil {
		return nil, err
	}
	palette, err := base.DecodeBlockPalette(rawPalette, "Palette", fixer, opts.Registry, opts.Logger)
	if err != nil {
		return nil, err
	}
	blockData, err := base.RequireBytes(root, "", "BlockData")
	if err != nil {
		return nil, err
	}
	list, _, err := base.OptionalCompoundList(root, "", "BlockEntities")
	if err != nil {
		return nil, err
	}
	blockEntities, err := decodeBlockEntities(c, list, "BlockEntities", false, fixer, opts.Logger)
	if err != nil {
		return nil, err
	}
	if err := decodeBlocks(c, palette, blockData, "BlockData", blockEntities); err != nil {
		return nil, err
	}

	if err := readV2Biomes(c, root, fixer, opts); err != nil {
		return nil, err
	}

	entities, _, err := base.OptionalCompoundList(root, "", "Entities")
	if err != nil {
		return nil, err
	}
	if err := readEntities(c, entities, "Entities", false, fixer, opts.Registry, opts.Logger); err != nil {
		return nil, err
	}

	c.SetDataVersion(fixer.ResultVersion())
	return c, nil
}

// readV2Biomes decodes the per-column biome stream and applies every
// column to the full height of the region.
func readV2Biomes(c base.Clipboard, root map[string]any, fixer *base.VersionedFixer, opts base.Options) error {
	_, hasPalette := root["BiomePalette"]
	_, hasData := root["BiomeData"]
	if !hasPalette && !hasData {
		return nil
	}
	declared, err := base.RequireInt(root, "", "BiomePaletteMax")
	if err != nil {
		return err
	}
	raw, err := base.RequireCompound(root, "", "BiomePalette")
	if err != nil {
		return err
	}
	if err := base.CheckPaletteSize(raw, declared, "BiomePalette"); err != nil {
		return err
	}
	palette, err := base.DecodeBiomePalette(raw, "BiomePalette", fixer, opts.Registry, opts.DefaultBiome, opts.Logger)
	if err != nil {
		return err
	}
	data, err := base.RequireBytes(root, "", "BiomeData")
	if err != nil {
		return err
	}

	region := c.Region()
	width := region.Width()
	ids, err := base.DecodeVarIntArray(data, width*region.Length())
	if err != nil {
		return base.Malformed("BiomeData", err)
	}
	for i, id := range ids {
		biome, err := base.Lookup(palette, id, i, "BiomeData")
		if err != nil {
			return err
		}
		x, z := base.ColumnPosition(i, width)
		for y := range region.Height() {
			if err := c.SetBiome(region.Min.Add(cube.Pos{x, y, z}), biome); err != nil {
				return fmt.Errorf("load biome: %w", err)
			}
		}
	}
	return nil
}

// WriteV2 writes c as an uncompressed Sponge Schematic v2 container.
func WriteV2(w io.Writer, c base.Clipboard, opts base.Options) error {
	opts = opts.WithDefaults()
	region := c.Region()
	if err := checkSize(region); err != nil {
		return err
	}

	blocks := encodeBlocks(c, false)
	offset := region.Min.Sub(c.Origin())
	meta := metadata(c)
	meta["WEOffsetX"] = int32(offset.X())
	meta["WEOffsetY"] = int32(offset.Y())
	meta["WEOffsetZ"] = int32(offset.Z())
	meta["WorldEdit"] = map[string]any{
		"Version":         opts.EditorVersion,
		"EditingPlatform": opts.Platform.ID,
		"Offset":          vector(offset),
		"Platforms":       platforms(opts),
	}

	data := v2Schematic{
		Version:       2,
		DataVersion:   int32(opts.DataVersion),
		Width:         int16(region.Width()),
		Height:        int16(region.Height()),
		Length:        int16(region.Length()),
		Offset:        vector(region.Min),
		Metadata:      meta,
		PaletteMax:    int32(blocks.palette.Len()),
		Palette:       blocks.palette.Map(),
		BlockData:     blocks.data,
		BlockEntities: blocks.blockEntities,
		Entities:      entityRecords(c, false),
	}
	if c.HasBiomes() {
		biomes := encodeBiomes(c, true, opts.DefaultBiome)
		data.BiomePaletteMax = int32(biomes.palette.Len())
		data.BiomePalette = biomes.palette.Map()
		data.BiomeData = biomes.data
	}

	if err := nbt.NewEncoderWithEncoding(w, nbt.BigEndian).Encode(data); err != nil {
		return fmt.Errorf("encode nbt: %w", err)
	}
	return nil
}
