package sponge

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"

	"github.com/oriumgames/clipschem/format/internal/base"
)

// MaxSize is the largest dimension a container can describe.
const MaxSize = math.MaxUint16

func checkSize(r base.Region) error {
	for _, d := range []struct {
		axis string
		size int
	}{{"width", r.Width()}, {"height", r.Height()}, {"length", r.Length()}} {
		if d.size > MaxSize {
			return &base.SizeLimitError{Axis: d.axis, Size: d.size, Limit: MaxSize}
		}
	}
	return nil
}

// blockSection is the encoded block content shared by every version.
type blockSection struct {
	palette       *base.Palette
	data          []byte
	blockEntities []map[string]any
}

// encodeBlocks walks the region in index order, assigning palette ids by
// canonical key. nested places block entity payloads under "Data".
func encodeBlocks(c base.Clipboard, nested bool) blockSection {
	r := c.Region()
	sec := blockSection{
		palette:       base.NewPalette(),
		data:          make([]byte, 0, r.Volume()),
		blockEntities: make([]map[string]any, 0),
	}
	for y := range r.Height() {
		for z := range r.Length() {
			for x := range r.Width() {
				pos := r.Min.Add(cube.Pos{x, y, z})
				id := sec.palette.ID(c.Block(pos).String())
				sec.data = base.AppendVarInt(sec.data, id)

				be := c.BlockEntity(pos)
				if be == nil {
					continue
				}
				sec.blockEntities = append(sec.blockEntities, blockEntityRecord(be, [3]int32{int32(x), int32(y), int32(z)}, nested))
			}
		}
	}
	return sec
}

func blockEntityRecord(be *base.BlockEntity, rel [3]int32, nested bool) map[string]any {
	payload := base.Encodable(be.Data)
	if payload == nil {
		payload = make(map[string]any)
	}
	for _, k := range []string{"id", "Id", "x", "y", "z", "Pos"} {
		delete(payload, k)
	}

	var record map[string]any
	if nested {
		record = map[string]any{"Data": payload}
	} else {
		record = payload
	}
	record["Id"] = be.ID
	record["Pos"] = rel
	return record
}

// biomeSection is an encoded biome palette and id stream.
type biomeSection struct {
	palette *base.Palette
	data    []byte
}

// encodeBiomes encodes biomes over the full volume, or when columns is set,
// once per column sampled at the region's lowest layer.
func encodeBiomes(c base.Clipboard, columns bool, defaultBiome string) biomeSection {
	r := c.Region()
	height := r.Height()
	if columns {
		height = 1
	}
	sec := biomeSection{palette: base.NewPalette()}
	for y := range height {
		for z := range r.Length() {
			for x := range r.Width() {
				biome := c.Biome(r.Min.Add(cube.Pos{x, y, z}))
				if biome == "" {
					biome = defaultBiome
				}
				sec.data = base.AppendVarInt(sec.data, sec.palette.ID(biome))
			}
		}
	}
	return sec
}

// entityRecords encodes the entity list. relative selects the nested layout
// with positions relative to the region minimum.
func entityRecords(c base.Clipboard, relative bool) []map[string]any {
	entities := c.Entities()
	if len(entities) == 0 {
		return nil
	}
	min := c.Region().Min.Vec3()
	records := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		payload := base.Encodable(e.Data)
		if payload == nil {
			payload = make(map[string]any)
		}
		delete(payload, "id")
		delete(payload, "Id")

		pos := e.Pos
		rotation := []float32{e.Rotation[0], e.Rotation[1]}
		var record map[string]any
		if relative {
			pos = pos.Sub(min)
			payload["Rotation"] = rotation
			delete(payload, "Pos")
			record = map[string]any{"Data": payload}
		} else {
			record = payload
			record["Rotation"] = rotation
		}
		record["Id"] = e.ID
		record["Pos"] = []float64{pos[0], pos[1], pos[2]}
		records = append(records, record)
	}
	return records
}

// metadata copies the clipboard metadata for writing, dropping keys the
// writer derives itself.
func metadata(c base.Clipboard) map[string]any {
	meta := base.Encodable(c.Metadata())
	if meta == nil {
		meta = make(map[string]any)
	}
	for _, k := range []string{"WEOffsetX", "WEOffsetY", "WEOffsetZ", "WorldEdit"} {
		delete(meta, k)
	}
	return meta
}

// platforms is the provenance compound written under Metadata.WorldEdit.
func platforms(opts base.Options) map[string]any {
	return map[string]any{
		opts.Platform.ID: map[string]any{
			"Name":    opts.Platform.Name,
			"Version": opts.Platform.Version,
		},
	}
}

// vector encodes a position as an int array tag.
func vector(p cube.Pos) [3]int32 {
	return [3]int32{int32(p.X()), int32(p.Y()), int32(p.Z())}
}
