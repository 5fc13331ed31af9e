package sponge

import (
	"fmt"
	"io"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/nbt"

	"github.com/oriumgames/clipschem/format/internal/base"
)

// v1Schematic is the NBT layout written for Sponge Schematic Version 1.
type v1Schematic struct {
	Version       int32            `nbt:"Version"`
	Width         int16            `nbt:"Width"`
	Height        int16            `nbt:"Height"`
	Length        int16            `nbt:"Length"`
	Offset        [3]int32         `nbt:"Offset"`
	Metadata      map[string]any   `nbt:"Metadata"`
	PaletteMax    int32            `nbt:"PaletteMax"`
	Palette       map[string]int32 `nbt:"Palette"`
	BlockData     []byte           `nbt:"BlockData,array"`
	BlockEntities []map[string]any `nbt:"BlockEntities"`
}

// ReadV1 reads an uncompressed Sponge Schematic v1 container. Version 1
// predates data versions, so content is treated as 1.13.2.
func ReadV1(r io.Reader, opts base.Options) (base.Clipboard, error) {
	opts = opts.WithDefaults()
	root, err := readRoot(r)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(root, "", 1); err != nil {
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

	fixer := base.NewVersionedFixer(base.DataVersion1_13_2, opts.DataVersion, opts.Fixer, opts.Logger)
	c := newClipboard(opts, min, origin, width, height, length)
	copyMetadata(c, meta)

	rawPalette, err := base.RequireCompound(root, "", "Palette")
	if err != nil {
		return nil, err
	}
	if declared, ok, err := base.OptionalInt(root, "", "PaletteMax"); err != nil {
		return nil, err
	} else if ok {
		if err := base.CheckPaletteSize(rawPalette, declared, "Palette"); err != nil {
			return nil, err
		}
	}
	palette, err := base.DecodeBlockPalette(rawPalette, "Palette", fixer, opts.Registry, opts.Logger)
	if err != nil {
		return nil, err
	}
	blockData, err := base.RequireBytes(root, "", "BlockData")
	if err != nil {
		return nil, err
	}

	field := "BlockEntities"
	list, ok, err := base.OptionalCompoundList(root, "", field)
	if err != nil {
		return nil, err
	}
	if !ok {
		field = "TileEntities"
		if list, _, err = base.OptionalCompoundList(root, "", field); err != nil {
			return nil, err
		}
	}
	blockEntities, err := decodeBlockEntities(c, list, field, false, fixer, opts.Logger)
	if err != nil {
		return nil, err
	}
	if err := decodeBlocks(c, palette, blockData, "BlockData", blockEntities); err != nil {
		return nil, err
	}

	c.SetDataVersion(fixer.ResultVersion())
	return c, nil
}

// WriteV1 writes c as an uncompressed Sponge Schematic v1 container. Biomes
// and entities have no representation in this version and are dropped.
func WriteV1(w io.Writer, c base.Clipboard, opts base.Options) error {
	opts = opts.WithDefaults()
	region := c.Region()
	if err := checkSize(region); err != nil {
		return err
	}
	if c.HasBiomes() || len(c.Entities()) > 0 {
		opts.Logger.Warnw("sponge v1 cannot store biomes or entities, they will be dropped",
			"entities", len(c.Entities()), "biomes", c.HasBiomes())
	}

	blocks := encodeBlocks(c, false)
	offset := region.Min.Sub(c.Origin())
	meta := metadata(c)
	meta["WEOffsetX"] = int32(offset.X())
	meta["WEOffsetY"] = int32(offset.Y())
	meta["WEOffsetZ"] = int32(offset.Z())

	data := v1Schematic{
		Version:       1,
		Width:         int16(region.Width()),
		Height:        int16(region.Height()),
		Length:        int16(region.Length()),
		Offset:        vector(region.Min),
		Metadata:      meta,
		PaletteMax:    int32(blocks.palette.Len()),
		Palette:       blocks.palette.Map(),
		BlockData:     blocks.data,
		BlockEntities: blocks.blockEntities,
	}
	if err := nbt.NewEncoderWithEncoding(w, nbt.BigEndian).Encode(data); err != nil {
		return fmt.Errorf("encode nbt: %w", err)
	}
	return nil
}
