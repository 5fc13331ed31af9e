package format

import (
	"bytes"
	"errors"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/nbt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClipboard(t *testing.T) *Memory {
	t.Helper()
	c := NewMemory(RegionOf(cube.Pos{0, 60, 0}, 2, 2, 1))
	stone, err := ParseBlockState("minecraft:stone")
	require.NoError(t, err)
	log, err := ParseBlockState("minecraft:oak_log[axis=y]")
	require.NoError(t, err)
	require.NoError(t, c.SetBlock(cube.Pos{0, 60, 0}, stone))
	require.NoError(t, c.SetBlock(cube.Pos{1, 61, 0}, log))
	c.SetOrigin(cube.Pos{1, 60, 0})
	return c
}

func TestDetect(t *testing.T) {
	c := testClipboard(t)
	for _, id := range Formats() {
		var buf bytes.Buffer
		require.NoError(t, WriteFormat(&buf, id, c, DefaultOptions()), id)
		got, err := Detect(buf.Bytes())
		require.NoError(t, err, id)
		assert.Equal(t, id, got)
	}
}

func TestDetectRejects(t *testing.T) {
	_, err := Detect([]byte{0x0A})
	assert.Error(t, err)

	_, err = Detect([]byte{0x1F, 0x8B, 0x08, 0x00})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Detect([]byte{0x08, 0x00, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	var buf bytes.Buffer
	require.NoError(t, nbt.NewEncoderWithEncoding(&buf, nbt.BigEndian).Encode(map[string]any{"Version": int32(9)}))
	_, err = Detect(buf.Bytes())
	assert.ErrorIs(t, err, ErrUnknownFormat)

	buf.Reset()
	require.NoError(t, nbt.NewEncoderWithEncoding(&buf, nbt.BigEndian).Encode(map[string]any{"Name": "not a schematic"}))
	_, err = Detect(buf.Bytes())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestReadDispatch(t *testing.T) {
	c := testClipboard(t)
	for _, id := range []string{SpongeV2, SpongeV3} {
		var buf bytes.Buffer
		require.NoError(t, WriteFormat(&buf, id, c, DefaultOptions()))

		got, err := Read(bytes.NewReader(buf.Bytes()), DefaultOptions())
		require.NoError(t, err, id)
		assert.Equal(t, Digest(c), Digest(got), id)
	}
}

func TestReadErrorsCarryFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, nbt.NewEncoderWithEncoding(&buf, nbt.BigEndian).Encode(map[string]any{
		"Version": int32(2),
		"Width":   int16(1),
		"Height":  int16(1),
		"Length":  int16(1),
	}))
	_, err := Read(bytes.NewReader(buf.Bytes()), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), SpongeV2)
	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := ReadFormat(bytes.NewReader(nil), "litematica", DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	err = WriteFormat(&bytes.Buffer{}, "mcedit", testClipboard(t), DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{SpongeV1, SpongeV2, SpongeV3}, Formats())
}

func TestCodecFor(t *testing.T) {
	c := testClipboard(t)
	codec, err := CodecFor(SpongeV3)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, codec.Write(&buf, c, DefaultOptions()))
	got, err := codec.Read(bytes.NewReader(buf.Bytes()), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Digest(c), Digest(got))

	_, err = CodecFor("schematica")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
