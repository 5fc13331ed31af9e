package base

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodable(t *testing.T) {
	orig := map[string]any{
		"Count":   int8(-3),
		"Glowing": true,
		"Level":   7,
		"Big":     1 << 40,
		"Slots":   []int8{1, -1},
		"Pair":    [2]int8{2, -2},
		"Ids":     []int{4, 5},
		"Missing": nil,
		"Items": []any{
			map[string]any{"Count": int8(1), "Enchanted": false},
			nil,
		},
		"Passengers": []map[string]any{nil, {"Age": uint16(3)}},
		"Name":       "kept",
	}

	got := Encodable(orig)
	assert.Equal(t, uint8(0xFD), got["Count"])
	assert.Equal(t, uint8(1), got["Glowing"])
	assert.Equal(t, int32(7), got["Level"])
	assert.Equal(t, int64(1<<40), got["Big"])
	assert.Equal(t, []byte{1, 0xFF}, got["Slots"])
	assert.Equal(t, [2]uint8{2, 0xFE}, got["Pair"])
	assert.Equal(t, []int32{4, 5}, got["Ids"])
	assert.NotContains(t, got, "Missing")
	assert.Equal(t, "kept", got["Name"])

	items := got["Items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, map[string]any{"Count": uint8(1), "Enchanted": uint8(0)}, items[0])
	assert.Equal(t, []map[string]any{{}, {"Age": int16(3)}}, got["Passengers"])

	// The source compound is left alone.
	assert.Equal(t, int8(-3), orig["Count"])
	assert.Equal(t, int8(1), orig["Items"].([]any)[0].(map[string]any)["Count"])
	assert.Nil(t, Encodable(nil))
}

func TestDigestNormalisesEncodedValues(t *testing.T) {
	a := filledClipboard(t, cube.Pos{}, "minecraft:oak_stairs[facing=east]")
	b := filledClipboard(t, cube.Pos{}, "minecraft:oak_stairs[facing=east]")

	be := a.BlockEntity(cube.Pos{})
	require.NotNil(t, be)
	be.Data["Level"] = 7
	be.Data["Flag"] = true

	// The same payload as a decoder would return it.
	require.NoError(t, b.SetBlockEntity(cube.Pos{}, &BlockEntity{
		ID: be.ID,
		Data: map[string]any{
			"Text":    "hi",
			"Glowing": uint8(1),
			"Level":   int32(7),
			"Flag":    uint8(1),
		},
	}))
	assert.Equal(t, Digest(a), Digest(b))
}
