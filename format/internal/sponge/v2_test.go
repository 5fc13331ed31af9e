package sponge

import (
	"bytes"
	"errors"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oriumgames/clipschem/format/internal/base"
)

// v2Fixture returns a valid 2x3x2 v2 container with stone on the bottom
// layer and per-column biomes.
func v2Fixture() v2Schematic {
	blocks := make([]int, 12)
	for i := range 4 {
		blocks[i] = 1
	}
	// Biome columns are in x + z*width order: (0,0) (1,0) (0,1) (1,1).
	return v2Schematic{
		Version:         2,
		DataVersion:     int32(base.DefaultDataVersion),
		Width:           2,
		Height:          3,
		Length:          2,
		Offset:          [3]int32{100, 50, 200},
		Metadata:        map[string]any{"Name": "pillar"},
		PaletteMax:      2,
		Palette:         map[string]int32{"minecraft:air": 0, "minecraft:stone": 1},
		BlockData:       base.EncodeVarIntArray(blocks),
		BiomePaletteMax: 2,
		BiomePalette:    map[string]int32{"minecraft:plains": 0, "minecraft:desert": 1},
		BiomeData:       base.EncodeVarIntArray([]int{0, 1, 1, 0}),
	}
}

func TestV2BiomesBroadcastOverHeight(t *testing.T) {
	opts, _ := testOptions()
	c, err := ReadV2(bytes.NewReader(encode(t, v2Fixture())), opts)
	require.NoError(t, err)

	min := cube.Pos{100, 50, 200}
	assert.Equal(t, base.RegionOf(min, 2, 3, 2), c.Region())
	assert.Equal(t, min, c.Origin(), "no WEOffset means the origin is the minimum")

	want := map[[2]int]string{
		{0, 0}: "minecraft:plains",
		{1, 0}: "minecraft:desert",
		{0, 1}: "minecraft:desert",
		{1, 1}: "minecraft:plains",
	}
	for y := range 3 {
		for col, biome := range want {
			pos := min.Add(cube.Pos{col[0], y, col[1]})
			assert.Equal(t, biome, c.Biome(pos), "biome at %v", pos)
		}
	}
	assert.Equal(t, "minecraft:stone", c.Block(min.Add(cube.Pos{1, 0, 1})).Name)
	assert.Nil(t, c.Block(min.Add(cube.Pos{1, 1, 1})))
	assert.Equal(t, "pillar", c.Metadata()["Name"])
}

func TestV2WEOffsetOrigin(t *testing.T) {
	opts, _ := testOptions()
	fixture := v2Fixture()
	fixture.Metadata = map[string]any{"WEOffsetX": int32(-1), "WEOffsetY": int32(0), "WEOffsetZ": int32(-2)}

	c, err := ReadV2(bytes.NewReader(encode(t, fixture)), opts)
	require.NoError(t, err)
	assert.Equal(t, cube.Pos{100, 50, 200}, c.Region().Min)
	assert.Equal(t, cube.Pos{101, 50, 202}, c.Origin())
	assert.NotContains(t, c.Metadata(), "WEOffsetX")
}

func TestV2RoundTrip(t *testing.T) {
	opts, _ := testOptions()
	src := sampleClipboard(t)
	// v2 stores one biome per column, so make columns uniform over y.
	r := src.Region()
	for y := range r.Height() {
		for z := range r.Length() {
			require.NoError(t, src.SetBiome(r.Min.Add(cube.Pos{0, y, z}), "minecraft:forest"))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, WriteV2(&buf, src, opts))

	root := decodeRoot(t, buf.Bytes())
	assert.Equal(t, int32(2), root["Version"])
	palette := root["Palette"].(map[string]any)
	assert.Equal(t, int32(len(palette)), root["PaletteMax"], "PaletteMax is the entry count")
	biomePalette := root["BiomePalette"].(map[string]any)
	assert.Len(t, biomePalette, 3)
	assert.Equal(t, int32(3), root["BiomePaletteMax"])
	biomeData, ok := base.Bytes(root["BiomeData"])
	require.True(t, ok)
	assert.Len(t, biomeData, r.Width()*r.Length())

	offset, ok := base.Int32s(root["Offset"])
	require.True(t, ok)
	assert.Equal(t, []int32{10, 64, -5}, offset, "v2 offset is the absolute minimum")
	meta := root["Metadata"].(map[string]any)
	assert.Equal(t, int32(-2), meta["WEOffsetX"])
	assert.Equal(t, int32(-2), meta["WEOffsetZ"])

	got, err := ReadV2(bytes.NewReader(buf.Bytes()), opts)
	require.NoError(t, err)
	assert.Equal(t, src.Region(), got.Region())
	assert.Equal(t, src.Origin(), got.Origin())
	assert.Equal(t, base.Digest(src), base.Digest(got))
	assertSameEntities(t, src.Entities(), got.Entities())
}

func TestPaletteIsomorphism(t *testing.T) {
	opts, _ := testOptions()
	a := v2Fixture()
	b := v2Fixture()
	b.Palette = map[string]int32{"minecraft:air": 1, "minecraft:stone": 0}
	ids := make([]int, 12)
	for i := 4; i < 12; i++ {
		ids[i] = 1
	}
	b.BlockData = base.EncodeVarIntArray(ids)

	ca, err := ReadV2(bytes.NewReader(encode(t, a)), opts)
	require.NoError(t, err)
	cb, err := ReadV2(bytes.NewReader(encode(t, b)), opts)
	require.NoError(t, err)
	assert.Equal(t, base.Digest(ca), base.Digest(cb))
}

func TestV2Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*v2Schematic)
		want   error
	}{
		{"palette count mismatch", func(s *v2Schematic) { s.PaletteMax = 3 }, base.ErrPaletteSize},
		{"biome palette count mismatch", func(s *v2Schematic) { s.BiomePaletteMax = 1 }, base.ErrPaletteSize},
		{"version mismatch", func(s *v2Schematic) { s.Version = 3 }, base.ErrVersionMismatch},
		{"truncated varint", func(s *v2Schematic) { s.BlockData = append(s.BlockData[:11], 0x80) }, base.ErrTruncated},
		{"too few voxels", func(s *v2Schematic) { s.BlockData = s.BlockData[:6] }, base.ErrTruncated},
		{"trailing voxels", func(s *v2Schematic) { s.BlockData = append(s.BlockData, 0) }, base.ErrTrailingData},
		{"undeclared palette id", func(s *v2Schematic) { s.BlockData[5] = 7 }, base.ErrUnknownPaletteID},
		{"zero width", func(s *v2Schematic) { s.Width = 0 }, base.ErrInvalidDimension},
		{"truncated biome varint", func(s *v2Schematic) { s.BiomeData = []byte{0, 1, 1, 0x80} }, base.ErrTruncated},
		{"too few biome columns", func(s *v2Schematic) { s.BiomeData = []byte{0, 1} }, base.ErrTruncated},
		{"trailing biome data", func(s *v2Schematic) { s.BiomeData = append(s.BiomeData, 0) }, base.ErrTrailingData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, _ := testOptions()
			fixture := v2Fixture()
			tt.mutate(&fixture)

			_, err := ReadV2(bytes.NewReader(encode(t, fixture)), opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var fe *base.FormatError
			assert.True(t, errors.As(err, &fe), "got %T", err)
		})
	}
}

func TestV2OversizedDimensions(t *testing.T) {
	opts, _ := testOptions()
	fixture := v2Fixture()
	// Short tags of -1 are read as 65535.
	fixture.Width, fixture.Height, fixture.Length = -1, -1, -1
	fixture.BlockData = []byte{0, 1}

	var err error
	require.NotPanics(t, func() {
		_, err = ReadV2(bytes.NewReader(encode(t, fixture)), opts)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, base.ErrTruncated)
	var fe *base.FormatError
	require.True(t, errors.As(err, &fe), "got %T", err)
	assert.Equal(t, "BlockData", fe.Field)
}

func TestV2MissingField(t *testing.T) {
	opts, _ := testOptions()
	data := encode(t, map[string]any{
		"Version":     int32(2),
		"DataVersion": int32(base.DefaultDataVersion),
		"Width":       int16(1),
		"Height":      int16(1),
		"Length":      int16(1),
	})
	_, err := ReadV2(bytes.NewReader(data), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, base.ErrMissingField)
	var fe *base.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "PaletteMax", fe.Field)
}

func TestV2UnknownEntitySkipped(t *testing.T) {
	opts, logs := testOptions()
	fixture := v2Fixture()
	fixture.Entities = []map[string]any{
		{"Id": "minecraft:cow", "Pos": []float64{100.5, 51, 200.5}, "Rotation": []float32{45, 0}},
		{"Id": "Definitely Not Valid", "Pos": []float64{101, 51, 201}, "Rotation": []float32{0, 0}},
	}

	c, err := ReadV2(bytes.NewReader(encode(t, fixture)), opts)
	require.NoError(t, err)
	require.Len(t, c.Entities(), 1)
	cow := c.Entities()[0]
	assert.Equal(t, "minecraft:cow", cow.ID)
	assert.Equal(t, [2]float32{45, 0}, cow.Rotation)
	assert.InDelta(t, 100.5, cow.Pos[0], 1e-9)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).FilterMessageSnippet("unknown entity").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "Definitely Not Valid", warnings[0].ContextMap()["id"])
}

func TestV2BlockEntityOutsideRegion(t *testing.T) {
	opts, logs := testOptions()
	fixture := v2Fixture()
	fixture.BlockEntities = []map[string]any{
		{"Id": "minecraft:sign", "Pos": [3]int32{0, 0, 0}, "Text1": "inside"},
		{"Id": "minecraft:sign", "Pos": [3]int32{5, 0, 0}, "Text1": "outside"},
	}

	c, err := ReadV2(bytes.NewReader(encode(t, fixture)), opts)
	require.NoError(t, err)
	be := c.BlockEntity(cube.Pos{100, 50, 200})
	require.NotNil(t, be)
	assert.Equal(t, "inside", be.Data["Text1"])
	assert.NotContains(t, be.Data, "Pos")
	assert.NotContains(t, be.Data, "Id")
	assert.Equal(t, 1, logs.FilterMessageSnippet("outside of schematic region").Len())
}

// upgradeFixer rewrites legacy grass and tags every block entity.
type upgradeFixer struct{ base.NopFixer }

func (upgradeFixer) FixBlockState(state string, _, _ int) string {
	if state == "minecraft:grass" {
		return "minecraft:short_grass"
	}
	return state
}

func (upgradeFixer) FixBlockEntity(data map[string]any, _, to int) map[string]any {
	data["upgradedTo"] = int32(to)
	return data
}

func TestV2DataFixer(t *testing.T) {
	opts, logs := testOptions()
	opts.Fixer = upgradeFixer{}
	fixture := v2Fixture()
	fixture.DataVersion = 3000
	fixture.Palette = map[string]int32{"minecraft:air": 0, "minecraft:grass": 1}
	fixture.BlockEntities = []map[string]any{{"Id": "minecraft:sign", "Pos": [3]int32{0, 0, 0}}}

	c, err := ReadV2(bytes.NewReader(encode(t, fixture)), opts)
	require.NoError(t, err)
	assert.Equal(t, opts.DataVersion, c.DataVersion())
	assert.Equal(t, "minecraft:short_grass", c.Block(cube.Pos{100, 50, 200}).Name)
	be := c.BlockEntity(cube.Pos{100, 50, 200})
	require.NotNil(t, be)
	assert.Equal(t, int32(opts.DataVersion), be.Data["upgradedTo"])
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())

	// Without a fixer the data is kept as is and a warning is logged.
	opts, logs = testOptions()
	c, err = ReadV2(bytes.NewReader(encode(t, fixture)), opts)
	require.NoError(t, err)
	assert.Equal(t, 3000, c.DataVersion())
	assert.Equal(t, "minecraft:grass", c.Block(cube.Pos{100, 50, 200}).Name)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestV2LegacyEntityUUID(t *testing.T) {
	fixture := v2Fixture()
	fixture.DataVersion = 1976
	fixture.Entities = []map[string]any{{
		"Id":        "minecraft:villager",
		"Pos":       []float64{100.5, 51, 200.5},
		"Rotation":  []float32{0, 0},
		"UUIDMost":  int64(-568210367123287600),
		"UUIDLeast": int64(-6384696206158828554),
	}}
	want := uuid.MustParse("f81d4fae-7dec-11d0-a765-00a0c91e6bf6")

	opts, _ := testOptions()
	opts.Fixer = upgradeFixer{}
	c, err := ReadV2(bytes.NewReader(encode(t, fixture)), opts)
	require.NoError(t, err)
	require.Len(t, c.Entities(), 1)
	villager := c.Entities()[0]
	id, ok := villager.UUID()
	require.True(t, ok)
	assert.Equal(t, want, id)
	assert.NotContains(t, villager.Data, "UUIDMost")
	assert.NotContains(t, villager.Data, "UUIDLeast")

	// Data that is not being migrated keeps its layout.
	opts, _ = testOptions()
	c, err = ReadV2(bytes.NewReader(encode(t, fixture)), opts)
	require.NoError(t, err)
	_, ok = c.Entities()[0].UUID()
	assert.False(t, ok)
	assert.Equal(t, int64(-568210367123287600), c.Entities()[0].Data["UUIDMost"])
}
