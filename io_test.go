package clipschem

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oriumgames/clipschem/format"
)

func testClipboard(t *testing.T) *format.Memory {
	t.Helper()
	c := format.NewMemory(format.RegionOf(cube.Pos{-8, 0, 3}, 3, 1, 2))
	for _, s := range []struct {
		pos   cube.Pos
		state string
	}{
		{cube.Pos{-8, 0, 3}, "minecraft:grass_block[snowy=false]"},
		{cube.Pos{-7, 0, 3}, "minecraft:oak_planks"},
		{cube.Pos{-6, 0, 4}, "minecraft:barrel[facing=up,open=false]"},
	} {
		state, err := format.ParseBlockState(s.state)
		require.NoError(t, err)
		require.NoError(t, c.SetBlock(s.pos, state))
	}
	require.NoError(t, c.SetBlockEntity(cube.Pos{-6, 0, 4}, &format.BlockEntity{
		ID:   "minecraft:barrel",
		Data: map[string]any{"CustomName": `{"text":"Supplies"}`},
	}))
	r := c.Region()
	for z := range r.Length() {
		for x := range r.Width() {
			require.NoError(t, c.SetBiome(r.Min.Add(cube.Pos{x, 0, z}), "minecraft:meadow"))
		}
	}
	c.AddEntity(&format.Entity{ID: "minecraft:sheep", Pos: mgl64.Vec3{-7.5, 1, 3.5}})
	c.SetOrigin(cube.Pos{-7, 0, 3})
	return c
}

func TestWriteReadGzip(t *testing.T) {
	c := testClipboard(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, c, format.DefaultOptions()))
	require.Greater(t, buf.Len(), 2)
	assert.Equal(t, []byte{0x1F, 0x8B}, buf.Bytes()[:2])

	id, err := Detect(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, format.SpongeV3, id)

	got, err := Read(bytes.NewReader(buf.Bytes()), format.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, format.Digest(c), format.Digest(got))
	assert.Equal(t, c.Origin(), got.Origin())
}

func TestReadRawStream(t *testing.T) {
	c := testClipboard(t)
	var buf bytes.Buffer
	require.NoError(t, format.WriteFormat(&buf, format.SpongeV2, c, format.DefaultOptions()))

	id, err := Detect(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, format.SpongeV2, id)

	got, err := ReadFormat(bytes.NewReader(buf.Bytes()), format.SpongeV2, format.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, c.Region(), got.Region())
	assert.Equal(t, "minecraft:barrel", got.BlockEntity(cube.Pos{-6, 0, 4}).ID)
}

func TestWriteFileReadFile(t *testing.T) {
	c := testClipboard(t)
	path := filepath.Join(t.TempDir(), "hut.schem")
	require.NoError(t, WriteFile(path, c, format.DefaultOptions()))

	got, err := ReadFile(path, format.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, format.Digest(c), format.Digest(got))
	require.Len(t, got.Entities(), 1)
	assert.Equal(t, "minecraft:sheep", got.Entities()[0].ID)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.schem"), format.DefaultOptions())
	assert.Error(t, err)
}

func TestWriteFormatGzipV1(t *testing.T) {
	c := testClipboard(t)
	var buf bytes.Buffer
	require.NoError(t, WriteFormat(&buf, format.SpongeV1, c, format.DefaultOptions()))

	got, err := Read(bytes.NewReader(buf.Bytes()), format.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, format.DataVersion1_13_2, got.DataVersion())
	assert.Equal(t, "minecraft:oak_planks", got.Block(cube.Pos{-7, 0, 3}).Name)
	assert.Empty(t, got.Entities())
}

func TestReadEmptyStream(t *testing.T) {
	_, err := Read(bytes.NewReader(nil), format.DefaultOptions())
	assert.Error(t, err)
}
