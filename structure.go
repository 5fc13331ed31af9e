package clipschem

import (
	_ "unsafe"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oriumgames/crocon"
	"github.com/sandertv/gophertunnel/minecraft/protocol"

	"github.com/oriumgames/clipschem/format"
)

// Structure wraps a format.Clipboard and implements world.Structure.
// It can be placed in a Dragonfly world using world.BuildStructure.
type Structure struct {
	clipboard format.Clipboard
	converter *crocon.Converter
}

// NewStructure creates a new Structure from a format.Clipboard.
func NewStructure(c format.Clipboard) (*Structure, error) {
	conv, err := crocon.NewConverter()
	if err != nil {
		return nil, err
	}
	return &Structure{
		clipboard: c,
		converter: conv,
	}, nil
}

// Dimensions implements world.Structure.
func (s *Structure) Dimensions() [3]int {
	r := s.clipboard.Region()
	return [3]int{r.Width(), r.Height(), r.Length()}
}

func (s *Structure) request() crocon.ConversionRequest {
	return crocon.ConversionRequest{
		FromVersion: format.GameVersion(s.clipboard.DataVersion()),
		ToVersion:   protocol.CurrentVersion,
		FromEdition: crocon.JavaEdition,
		ToEdition:   crocon.BedrockEdition,
	}
}

// At implements world.Structure. Coordinates are relative to the region
// minimum. Blocks that cannot be converted to Bedrock are placed as air.
func (s *Structure) At(x, y, z int, _ func(x, y, z int) world.Block) (world.Block, world.Liquid) {
	pos := s.clipboard.Region().Min.Add(cube.Pos{x, y, z})
	state := s.clipboard.Block(pos)
	if state == nil || state.Name == format.AirName {
		return block.Air{}, nil
	}

	b, err := s.converter.ConvertBlock(crocon.BlockRequest{
		ConversionRequest: s.request(),
		Block: crocon.Block{
			ID:     state.Name,
			States: state.Clone().Properties,
		},
	})
	if err != nil {
		return block.Air{}, nil
	}

	validProps := blockProperties[b.ID]
	for k := range b.States {
		if _, ok := validProps[k]; !ok {
			delete(b.States, k)
		}
	}

	ret, ok := world.BlockByName(b.ID, b.States)
	if !ok {
		return block.Air{}, nil
	}

	if nbter, ok := ret.(world.NBTer); ok {
		ret = s.decodeBlockEntity(nbter, pos)
		if ret == nil {
			return block.Air{}, nil
		}
	}

	var liquid world.Liquid
	if waterlogged, ok := state.Properties["waterlogged"].(bool); ok && waterlogged {
		liquid = block.Water{}
	}
	return ret, liquid
}

// decodeBlockEntity applies the converted attached data at pos to b. It
// returns nil if the data exists but cannot be converted.
func (s *Structure) decodeBlockEntity(b world.NBTer, pos cube.Pos) world.Block {
	ent := s.clipboard.BlockEntity(pos)
	if ent == nil {
		return b.DecodeNBT(map[string]any{}).(world.Block)
	}

	from := crocon.BlockEntity(format.CloneCompound(ent.Data))
	if from == nil {
		from = crocon.BlockEntity{}
	}
	from["id"] = ent.ID

	be, err := s.converter.ConvertBlockEntity(crocon.BlockEntityRequest{
		ConversionRequest: s.request(),
		BlockEntity:       from,
	})
	if err != nil {
		return nil
	}
	m, ok := any(be).(*map[string]any)
	if !ok || m == nil {
		return nil
	}
	tag, ok := (*m)["tag"].(map[string]any)
	if !ok {
		return nil
	}
	return b.DecodeNBT(tag).(world.Block)
}

// Clipboard returns the underlying format.Clipboard.
func (s *Structure) Clipboard() format.Clipboard {
	return s.clipboard
}

// Origin returns the paste anchor relative to the region minimum.
func (s *Structure) Origin() cube.Pos {
	return s.clipboard.Origin().Sub(s.clipboard.Region().Min)
}

// blockProperties is linked from dragonfly to validate block properties.
//
//go:linkname blockProperties github.com/df-mc/dragonfly/server/world.blockProperties
var blockProperties map[string]map[string]any
