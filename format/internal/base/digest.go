package base

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/df-mc/dragonfly/server/block/cube"
)

// Digest hashes the resolved content of a clipboard: dimensions, origin
// offset, every voxel's state and attached data, biomes and entities. It does
// not depend on how a container numbered its palette.
func Digest(c Clipboard) uint64 {
	h := xxhash.New()
	r := c.Region()
	w, ht, l := r.Width(), r.Height(), r.Length()
	off := r.Min.Sub(c.Origin())
	fmt.Fprintf(h, "dims:%d,%d,%d;offset:%d,%d,%d;", w, ht, l, off.X(), off.Y(), off.Z())

	hasBiomes := c.HasBiomes()
	for y := range ht {
		for z := range l {
			for x := range w {
				pos := r.Min.Add(cube.Pos{x, y, z})
				_, _ = io.WriteString(h, c.Block(pos).String())
				if be := c.BlockEntity(pos); be != nil {
					fmt.Fprintf(h, "{%s:", be.ID)
					writeValue(h, be.Data)
					_, _ = io.WriteString(h, "}")
				}
				if hasBiomes {
					fmt.Fprintf(h, "@%s", c.Biome(pos))
				}
				_, _ = io.WriteString(h, ";")
			}
		}
	}
	for _, e := range c.Entities() {
		rel := e.Pos.Sub(r.Min.Vec3())
		fmt.Fprintf(h, "entity:%s@%.6f,%.6f,%.6f/%.4f,%.4f:", e.ID, rel[0], rel[1], rel[2], e.Rotation[0], e.Rotation[1])
		writeValue(h, e.Data)
		_, _ = io.WriteString(h, ";")
	}
	return h.Sum64()
}

// writeValue serialises a decoded NBT value with sorted compound keys, so
// equal trees hash equally whether arrays decoded as slices or arrays.
func writeValue(w io.Writer, v any) {
	switch val := v.(type) {
	case nil:
		_, _ = io.WriteString(w, "nil")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		_, _ = io.WriteString(w, "{")
		for _, k := range keys {
			fmt.Fprintf(w, "%q:", k)
			writeValue(w, val[k])
			_, _ = io.WriteString(w, ",")
		}
		_, _ = io.WriteString(w, "}")
	case string:
		fmt.Fprintf(w, "%q", val)
	// Byte tags may decode signed or unsigned, and bools encode as bytes.
	case int8:
		fmt.Fprintf(w, "b%d", val)
	case uint8:
		fmt.Fprintf(w, "b%d", int8(val))
	// Plain ints are written as int or long tags.
	case int:
		if val < math.MinInt32 || val > math.MaxInt32 {
			fmt.Fprintf(w, "int64(%d)", val)
		} else {
			fmt.Fprintf(w, "int32(%d)", val)
		}
	case bool:
		if val {
			_, _ = io.WriteString(w, "b1")
		} else {
			_, _ = io.WriteString(w, "b0")
		}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Array || rv.Kind() == reflect.Slice {
			_, _ = io.WriteString(w, "[")
			for i := range rv.Len() {
				writeValue(w, rv.Index(i).Interface())
				_, _ = io.WriteString(w, ",")
			}
			_, _ = io.WriteString(w, "]")
			return
		}
		fmt.Fprintf(w, "%s(%v)", rv.Kind(), v)
	}
}
