package format

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/oriumgames/nbt"
)

// ErrUnknownFormat is returned by Detect when data is not a recognised container.
var ErrUnknownFormat = errors.New("unknown format")

// tagCompound is the type id of an NBT compound, which every container root is.
const tagCompound = 0x0A

// Detect returns the format identifier of an uncompressed container from its
// Version tag, found at the root for v1/v2 and under "Schematic" for v3.
func Detect(data []byte) (string, error) {
	if len(data) < 3 {
		return "", fmt.Errorf("insufficient data for format detection")
	}
	if data[0] == 0x1F && data[1] == 0x8B {
		return "", fmt.Errorf("%w: data is gzip compressed", ErrUnknownFormat)
	}
	if data[0] != tagCompound {
		return "", fmt.Errorf("%w: root tag is not a compound", ErrUnknownFormat)
	}

	decoder := nbt.NewDecoderWithEncoding(bytes.NewReader(data), nbt.BigEndian)
	var root map[string]any
	if err := decoder.Decode(&root); err != nil {
		return "", fmt.Errorf("decode nbt: %w", err)
	}

	schematic := root
	if nested, ok := root["Schematic"].(map[string]any); ok {
		schematic = nested
	}
	version, ok := schematic["Version"].(int32)
	if !ok {
		return "", fmt.Errorf("%w: no Version tag", ErrUnknownFormat)
	}

	switch version {
	case 1:
		return SpongeV1, nil
	case 2:
		return SpongeV2, nil
	case 3:
		return SpongeV3, nil
	default:
		return "", fmt.Errorf("%w: unknown schematic version %d", ErrUnknownFormat, version)
	}
}
