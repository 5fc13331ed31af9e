package sponge

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/oriumgames/nbt"
	"go.uber.org/zap"

	"github.com/oriumgames/clipschem/format/internal/base"
)

// readRoot decodes the root compound of an uncompressed container.
func readRoot(r io.Reader) (map[string]any, error) {
	var root map[string]any
	if err := nbt.NewDecoderWithEncoding(r, nbt.BigEndian).Decode(&root); err != nil {
		return nil, base.Malformed("", fmt.Errorf("decode nbt: %w", err))
	}
	return root, nil
}

func checkVersion(schematic map[string]any, path string, want int) error {
	version, err := base.RequireInt(schematic, path, "Version")
	if err != nil {
		return err
	}
	if version != want {
		return base.Malformedf(join(path, "Version"), "%w: expected version %d, got %d", base.ErrVersionMismatch, want, version)
	}
	return nil
}

func readDimensions(schematic map[string]any, path string) (width, height, length int, err error) {
	if width, err = base.RequireDimension(schematic, path, "Width"); err != nil {
		return
	}
	if height, err = base.RequireDimension(schematic, path, "Height"); err != nil {
		return
	}
	if length, err = base.RequireDimension(schematic, path, "Length"); err != nil {
		return
	}
	if width == 0 || height == 0 || length == 0 {
		err = base.Malformedf(path, "%w: %dx%dx%d", base.ErrInvalidDimension, width, height, length)
	}
	return
}

// decodeBlockEntities resolves attached-data records to absolute positions.
// When nested, the payload lives under "Data"; otherwise it is inline.
func decodeBlockEntities(c base.Clipboard, list []map[string]any, path string, nested bool, fixer *base.VersionedFixer, log *zap.SugaredLogger) (map[cube.Pos]*base.BlockEntity, error) {
	region := c.Region()
	result := make(map[cube.Pos]*base.BlockEntity, len(list))
	for i, raw := range list {
		field := fmt.Sprintf("%s[%d]", path, i)
		rel, err := base.RequireVector(raw, field, "Pos")
		if err != nil {
			return nil, err
		}
		id, err := base.RequireString(raw, field, "Id")
		if err != nil {
			return nil, err
		}

		var values map[string]any
		if nested {
			data, _, err := base.OptionalCompound(raw, field, "Data")
			if err != nil {
				return nil, err
			}
			values = base.CloneCompound(data)
		} else {
			values = base.CloneCompound(raw)
			delete(values, "Pos")
			delete(values, "Id")
		}
		if values == nil {
			values = make(map[string]any)
		}

		pos := region.Min.Add(cube.Pos{rel[0], rel[1], rel[2]})
		values["id"] = id
		values["x"] = int32(pos.X())
		values["y"] = int32(pos.Y())
		values["z"] = int32(pos.Z())
		values = fixer.BlockEntity(values)

		if fixedID, ok := values["id"].(string); ok && fixedID != "" {
			id = fixedID
		}
		for _, k := range []string{"id", "x", "y", "z"} {
			delete(values, k)
		}

		if !region.Contains(pos) {
			log.Warnw("block entity outside of schematic region, skipping", "id", id, "pos", pos)
			continue
		}
		result[pos] = &base.BlockEntity{ID: id, Data: values}
	}
	return result, nil
}

// decodeBlocks decodes the voxel id stream and places every block, attaching
// block entities at their positions.
func decodeBlocks(c base.Clipboard, palette map[int]*base.BlockState, data []byte, field string, blockEntities map[cube.Pos]*base.BlockEntity) error {
	region := c.Region()
	width, length := region.Width(), region.Length()
	ids, err := base.DecodeVarIntArray(data, region.Volume())
	if err != nil {
		return base.Malformed(field, err)
	}
	for i, id := range ids {
		state, err := base.Lookup(palette, id, i, field)
		if err != nil {
			return err
		}
		x, y, z := base.Position(i, width, length)
		pos := region.Min.Add(cube.Pos{x, y, z})
		if err := c.SetBlock(pos, state); err != nil {
			return fmt.Errorf("load block: %w", err)
		}
		if be, ok := blockEntities[pos]; ok {
			if err := c.SetBlockEntity(pos, be); err != nil {
				return fmt.Errorf("load block entity: %w", err)
			}
		}
	}
	return nil
}

// readEntities decodes the entity list. relative selects the v3 layout:
// positions relative to the region minimum and the payload under "Data".
func readEntities(c base.Clipboard, list []map[string]any, path string, relative bool, fixer *base.VersionedFixer, reg base.Registry, log *zap.SugaredLogger) error {
	min := c.Region().Min.Vec3()
	for i, raw := range list {
		field := fmt.Sprintf("%s[%d]", path, i)
		id, err := base.RequireString(raw, field, "Id")
		if err != nil {
			return err
		}
		posTag, err := base.Require(raw, field, "Pos")
		if err != nil {
			return err
		}
		p, ok := base.Float64s(posTag)
		if !ok || len(p) != 3 {
			return base.Malformedf(join(field, "Pos"), "%w: expected 3 doubles, got %T", base.ErrWrongType, posTag)
		}

		var payload map[string]any
		var rotTag any
		if relative {
			data, _, err := base.OptionalCompound(raw, field, "Data")
			if err != nil {
				return err
			}
			payload = base.CloneCompound(data)
			rotTag = raw["Rotation"]
			if payload != nil {
				if r, ok := payload["Rotation"]; ok {
					rotTag = r
				}
			}
		} else {
			if rotTag, err = base.Require(raw, field, "Rotation"); err != nil {
				return err
			}
			payload = base.CloneCompound(raw)
			delete(payload, "Id")
		}
		if payload == nil {
			payload = make(map[string]any)
		}

		var rotation [2]float32
		if rotTag != nil {
			rot, ok := base.Float32s(rotTag)
			if !ok || len(rot) != 2 {
				return base.Malformedf(join(field, "Rotation"), "%w: expected 2 floats, got %T", base.ErrWrongType, rotTag)
			}
			rotation = [2]float32{rot[0], rot[1]}
		}

		payload["id"] = id
		payload = fixer.Entity(payload)
		if fixedID, ok := payload["id"].(string); ok && fixedID != "" {
			id = fixedID
		}
		for _, k := range []string{"id", "Pos", "Rotation"} {
			delete(payload, k)
		}

		typeID, ok := reg.EntityType(id)
		if !ok {
			log.Warnw("unknown entity type in schematic, skipping", "id", id)
			continue
		}

		pos := mgl64.Vec3{p[0], p[1], p[2]}
		if relative {
			pos = pos.Add(min)
		}
		e := &base.Entity{
			ID:       typeID,
			Pos:      pos,
			Rotation: rotation,
			Data:     payload,
		}
		if fixer.Active() {
			upgradeUUID(e)
		}
		c.AddEntity(e)
	}
	return nil
}

// upgradeUUID moves a pre-1.16 UUIDMost/UUIDLeast pair into the int-array
// UUID tag used by current versions.
func upgradeUUID(e *base.Entity) {
	if _, ok := e.Data["UUID"]; ok {
		return
	}
	most, ok := e.Data["UUIDMost"].(int64)
	if !ok {
		return
	}
	least, ok := e.Data["UUIDLeast"].(int64)
	if !ok {
		return
	}
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[:8], uint64(most))
	binary.BigEndian.PutUint64(id[8:], uint64(least))
	delete(e.Data, "UUIDMost")
	delete(e.Data, "UUIDLeast")
	e.SetUUID(id)
}

// newClipboard builds the destination clipboard for a decoded header.
func newClipboard(opts base.Options, min, origin cube.Pos, width, height, length int) base.Clipboard {
	c := opts.NewClipboard(base.RegionOf(min, width, height, length))
	c.SetOrigin(origin)
	return c
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// copyMetadata stores a container's metadata compound on the clipboard,
// leaving out the legacy origin fields that are applied structurally.
func copyMetadata(c base.Clipboard, meta map[string]any) {
	for k, v := range base.CloneCompound(meta) {
		switch k {
		case "WEOffsetX", "WEOffsetY", "WEOffsetZ":
			continue
		}
		c.SetMetadata(k, v)
	}
}

// legacyOrigin resolves the origin of a v1/v2 container. The WEOffset
// metadata fields hold min minus origin; without them the origin is min.
func legacyOrigin(min cube.Pos, meta map[string]any) (cube.Pos, error) {
	if _, ok := meta["WEOffsetX"]; !ok {
		return min, nil
	}
	var off cube.Pos
	for i, key := range []string{"WEOffsetX", "WEOffsetY", "WEOffsetZ"} {
		n, err := base.RequireInt(meta, "Metadata", key)
		if err != nil {
			return cube.Pos{}, err
		}
		off[i] = n
	}
	return min.Sub(off), nil
}
