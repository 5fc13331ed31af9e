package base

import (
	"encoding/binary"
	"fmt"
	"maps"
	"sort"
	"strconv"
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// AirName is the fallback block for empty voxels and unresolvable palette entries.
const AirName = "minecraft:air"

// Air returns a fresh air block state.
func Air() *BlockState {
	return &BlockState{Name: AirName}
}

// BlockState represents a block with its properties.
type BlockState struct {
	Name       string         // e.g., "minecraft:oak_stairs"
	Properties map[string]any // e.g., {"facing": "north", "half": "bottom"}
}

// Clone creates a deep copy of the BlockState.
func (b *BlockState) Clone() *BlockState {
	if b == nil {
		return nil
	}
	var props map[string]any
	if len(b.Properties) > 0 {
		props = make(map[string]any, len(b.Properties))
		maps.Copy(props, b.Properties)
	}
	return &BlockState{
		Name:       b.Name,
		Properties: props,
	}
}

// String returns the canonical form of the block state: the name followed by
// its properties sorted by key. Two states are palette-equal iff their
// canonical forms match.
func (b *BlockState) String() string {
	if b == nil {
		return AirName
	}
	if len(b.Properties) == 0 {
		return b.Name
	}
	keys := make([]string, 0, len(b.Properties))
	for k := range b.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf strings.Builder
	buf.WriteString(b.Name)
	buf.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(k)
		buf.WriteByte('=')
		switch v := b.Properties[k].(type) {
		case string:
			buf.WriteString(v)
		case bool:
			buf.WriteString(strconv.FormatBool(v))
		default:
			buf.WriteString(fmt.Sprint(v))
		}
	}
	buf.WriteByte(']')
	return buf.String()
}

// BlockEntity is the attached data of a single block (tile entity).
type BlockEntity struct {
	ID   string         // e.g., "minecraft:chest"
	Data map[string]any // NBT data, excluding position and id
}

// Clone creates a deep copy of the BlockEntity.
func (be *BlockEntity) Clone() *BlockEntity {
	if be == nil {
		return nil
	}
	return &BlockEntity{
		ID:   be.ID,
		Data: CloneCompound(be.Data),
	}
}

// Entity represents a free-floating entity.
type Entity struct {
	ID       string         // e.g., "minecraft:armor_stand"
	Pos      mgl64.Vec3     // Absolute position
	Rotation [2]float32     // Rotation (yaw, pitch) in degrees
	Data     map[string]any // NBT data, excluding Pos, Rotation and id
}

// Clone creates a deep copy of the Entity.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	return &Entity{
		ID:       e.ID,
		Pos:      e.Pos,
		Rotation: e.Rotation,
		Data:     CloneCompound(e.Data),
	}
}

// Motion returns the entity's velocity stored in its payload, if any.
func (e *Entity) Motion() (mgl64.Vec3, bool) {
	m, ok := Float64s(e.Data["Motion"])
	if !ok || len(m) != 3 {
		return mgl64.Vec3{}, false
	}
	return mgl64.Vec3{m[0], m[1], m[2]}, true
}

// UUID returns the entity's UUID stored as four big-endian ints in its payload.
func (e *Entity) UUID() (uuid.UUID, bool) {
	parts, ok := Int32s(e.Data["UUID"])
	if !ok || len(parts) != 4 {
		return uuid.Nil, false
	}
	var id uuid.UUID
	for i, p := range parts {
		binary.BigEndian.PutUint32(id[i*4:], uint32(p))
	}
	return id, true
}

// SetUUID stores id in the entity's payload in the int-array layout.
func (e *Entity) SetUUID(id uuid.UUID) {
	if e.Data == nil {
		e.Data = make(map[string]any)
	}
	var parts [4]int32
	for i := range parts {
		parts[i] = int32(binary.BigEndian.Uint32(id[i*4:]))
	}
	e.Data["UUID"] = parts
}

// Region is an inclusive cuboid between Min and Max.
type Region struct {
	Min, Max cube.Pos
}

// RegionOf returns the region starting at min with the given dimensions.
func RegionOf(min cube.Pos, width, height, length int) Region {
	return Region{
		Min: min,
		Max: min.Add(cube.Pos{width - 1, height - 1, length - 1}),
	}
}

func (r Region) Width() int  { return r.Max.X() - r.Min.X() + 1 }
func (r Region) Height() int { return r.Max.Y() - r.Min.Y() + 1 }
func (r Region) Length() int { return r.Max.Z() - r.Min.Z() + 1 }

// Volume returns the number of voxels in the region.
func (r Region) Volume() int {
	return r.Width() * r.Height() * r.Length()
}

// Contains reports whether pos lies inside the region.
func (r Region) Contains(pos cube.Pos) bool {
	return pos.X() >= r.Min.X() && pos.X() <= r.Max.X() &&
		pos.Y() >= r.Min.Y() && pos.Y() <= r.Max.Y() &&
		pos.Z() >= r.Min.Z() && pos.Z() <= r.Max.Z()
}

// CloneCompound deep copies a decoded NBT compound.
func CloneCompound(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}

// deepCopy performs a deep copy of interface{} values.
func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneCompound(val)
	case []any:
		c := make([]any, len(val))
		for i, v := range val {
			c[i] = deepCopy(v)
		}
		return c
	case []byte:
		b := make([]byte, len(val))
		copy(b, val)
		return b
	case []int32:
		return append([]int32(nil), val...)
	case []int64:
		return append([]int64(nil), val...)
	default:
		return v
	}
}
