package sponge

import (
	"fmt"
	"io"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/nbt"

	"github.com/oriumgames/clipschem/format/internal/base"
)

// v3Blocks is the Blocks container of Sponge Schematic Version 3.
type v3Blocks struct {
	Palette       map[string]int32 `nbt:"Palette"`
	Data          []byte           `nbt:"Data,array"`
	BlockEntities []map[string]any `nbt:"BlockEntities"`
}

// v3Biomes is the Biomes container of Sponge Schematic Version 3.
type v3Biomes struct {
	Palette map[string]int32 `nbt:"Palette"`
	Data    []byte           `nbt:"Data,array"`
}

// ReadV3 reads an uncompressed Sponge Schematic v3 container.
func ReadV3(r io.Reader, opts base.Options) (base.Clipboard, error) {
	opts = opts.WithDefaults()
	root, err := readRoot(r)
	if err != nil {
		return nil, err
	}
	const path = "Schematic"
	schematic, err := base.RequireCompound(root, "", path)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(schematic, path, 3); err != nil {
		return nil, err
	}
	dataVersion, err := base.RequireInt(schematic, path, "DataVersion")
	if err != nil {
		return nil, err
	}
	width, height, length, err := readDimensions(schematic, path)
	if err != nil {
		return nil, err
	}
	offset, err := base.OptionalVector(schematic, path, "Offset")
	if err != nil {
		return nil, err
	}
	meta, _, err := base.OptionalCompound(schematic, path, "Metadata")
	if err != nil {
		return nil, err
	}
	var originVec [3]int
	if we, ok, err := base.OptionalCompound(meta, join(path, "Metadata"), "WorldEdit"); err != nil {
		return nil, err
	} else if ok {
		if originVec, err = base.OptionalVector(we, join(path, "Metadata.WorldEdit"), "Origin"); err != nil {
			return nil, err
		}
	}
	origin := cube.Pos(originVec)
	min := origin.Add(cube.Pos(offset))

	fixer := base.NewVersionedFixer(dataVersion, opts.DataVersion, opts.Fixer, opts.Logger)
	c := newClipboard(opts, min, origin, width, height, length)
	copyMetadata(c, meta)

	blocksPath := join(path, "Blocks")
	blocks, err := base.RequireCompound(schematic, path, "Blocks")
	if err != nil {
		return nil, err
	}
	rawPalette, err := base.RequireCompound(blocks, blocksPath, "Palette")
	if err != nil {
		return nil, err
	}
	palette, err := base.DecodeBlockPalette(rawPalette, join(blocksPath, "Palette"), fixer, opts.Registry, opts.Logger)
	if err != nil {
		return nil, err
	}
	blockData, err := base.RequireBytes(blocks, blocksPath, "Data")
	if err != nil {
		return nil, err
	}
	list, _, err := base.OptionalCompoundList(blocks, blocksPath, "BlockEntities")
	if err != nil {
		return nil, err
	}
	blockEntities, err := decodeBlockEntities(c, list, join(blocksPath, "BlockEntities"), true, fixer, opts.Logger)
	if err != nil {
		return nil, err
	}
	if err := decodeBlocks(c, palette, blockData, join(blocksPath, "Data"), blockEntities); err != nil {
		return nil, err
	}

	if err := readV3Biomes(c, schematic, fixer, opts); err != nil {
		return nil, err
	}

	entities, _, err := base.OptionalCompoundList(schematic, path, "Entities")
	if err != nil {
		return nil, err
	}
	if err := readEntities(c, entities, join(path, "Entities"), true, fixer, opts.Registry, opts.Logger); err != nil {
		return nil, err
	}

	c.SetDataVersion(fixer.ResultVersion())
	return c, nil
}

func readV3Biomes(c base.Clipboard, schematic map[string]any, fixer *base.VersionedFixer, opts base.Options) error {
	const path = "Schematic.Biomes"
	biomes, ok, err := base.OptionalCompound(schematic, "Schematic", "Biomes")
	if err != nil || !ok {
		return err
	}
	raw, err := base.RequireCompound(biomes, path, "Palette")
	if err != nil {
		return err
	}
	palette, err := base.DecodeBiomePalette(raw, join(path, "Palette"), fixer, opts.Registry, opts.DefaultBiome, opts.Logger)
	if err != nil {
		return err
	}
	data, err := base.RequireBytes(biomes, path, "Data")
	if err != nil {
		return err
	}

	region := c.Region()
	width, length := region.Width(), region.Length()
	ids, err := base.DecodeVarIntArray(data, region.Volume())
	if err != nil {
		return base.Malformed(join(path, "Data"), err)
	}
	for i, id := range ids {
		biome, err := base.Lookup(palette, id, i, join(path, "Data"))
		if err != nil {
			return err
		}
		x, y, z := base.Position(i, width, length)
		if err := c.SetBiome(region.Min.Add(cube.Pos{x, y, z}), biome); err != nil {
			return fmt.Errorf("load biome: %w", err)
		}
	}
	return nil
}

// WriteV3 writes c as an uncompressed Sponge Schematic v3 container.
func WriteV3(w io.Writer, c base.Clipboard, opts base.Options) error {
	opts = opts.WithDefaults()
	region := c.Region()
	if err := checkSize(region); err != nil {
		return err
	}

	blocks := encodeBlocks(c, true)
	meta := metadata(c)
	if _, ok := meta["Date"]; !ok {
		meta["Date"] = time.Now().UnixMilli()
	}
	meta["WorldEdit"] = map[string]any{
		"Version":         opts.EditorVersion,
		"EditingPlatform": opts.Platform.ID,
		"Origin":          vector(c.Origin()),
		"Platforms":       platforms(opts),
	}

	schematic := map[string]any{
		"Version":     int32(3),
		"DataVersion": int32(opts.DataVersion),
		"Width":       int16(region.Width()),
		"Height":      int16(region.Height()),
		"Length":      int16(region.Length()),
		"Offset":      vector(region.Min.Sub(c.Origin())),
		"Metadata":    meta,
		"Blocks": v3Blocks{
			Palette:       blocks.palette.Map(),
			Data:          blocks.data,
			BlockEntities: blocks.blockEntities,
		},
	}
	if c.HasBiomes() {
		biomes := encodeBiomes(c, false, opts.DefaultBiome)
		schematic["Biomes"] = v3Biomes{
			Palette: biomes.palette.Map(),
			Data:    biomes.data,
		}
	}
	if entities := entityRecords(c, true); len(entities) > 0 {
		schematic["Entities"] = entities
	}

	root := map[string]any{"Schematic": schematic}
	if err := nbt.NewEncoderWithEncoding(w, nbt.BigEndian).Encode(root); err != nil {
		return fmt.Errorf("encode nbt: %w", err)
	}
	return nil
}
