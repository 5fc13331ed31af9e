package clipschem

import (
	"fmt"

	"github.com/oriumgames/crocon"
	"go.uber.org/zap"

	"github.com/oriumgames/clipschem/format"
)

// CroconFixer upgrades Java block states and block entities between game
// versions using crocon. Entities and biomes pass through unchanged.
type CroconFixer struct {
	converter *crocon.Converter
	log       *zap.SugaredLogger
}

// NewCroconFixer creates a data fixer backed by a crocon converter.
func NewCroconFixer(log *zap.SugaredLogger) (*CroconFixer, error) {
	c, err := crocon.NewConverter()
	if err != nil {
		return nil, fmt.Errorf("create converter: %w", err)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CroconFixer{converter: c, log: log}, nil
}

func (f *CroconFixer) request(from, to int) crocon.ConversionRequest {
	return crocon.ConversionRequest{
		FromVersion: format.GameVersion(from),
		ToVersion:   format.GameVersion(to),
		FromEdition: crocon.JavaEdition,
		ToEdition:   crocon.JavaEdition,
	}
}

// FixBlockState implements format.DataFixer.
func (f *CroconFixer) FixBlockState(state string, from, to int) string {
	parsed, err := format.ParseBlockState(state)
	if err != nil {
		return state
	}
	b, err := f.converter.ConvertBlock(crocon.BlockRequest{
		ConversionRequest: f.request(from, to),
		Block: crocon.Block{
			ID:     parsed.Name,
			States: parsed.Properties,
		},
	})
	if err != nil {
		f.log.Debugw("block state upgrade failed", "state", state, "error", err)
		return state
	}
	return (&format.BlockState{Name: b.ID, Properties: b.States}).String()
}

// FixBlockEntity implements format.DataFixer.
func (f *CroconFixer) FixBlockEntity(data map[string]any, from, to int) map[string]any {
	be, err := f.converter.ConvertBlockEntity(crocon.BlockEntityRequest{
		ConversionRequest: f.request(from, to),
		BlockEntity:       crocon.BlockEntity(data),
	})
	if err != nil {
		f.log.Debugw("block entity upgrade failed", "id", data["id"], "error", err)
		return data
	}
	m, ok := any(be).(*map[string]any)
	if !ok || m == nil {
		return data
	}
	if tag, ok := (*m)["tag"].(map[string]any); ok {
		return tag
	}
	return *m
}

// FixEntity implements format.DataFixer.
func (f *CroconFixer) FixEntity(data map[string]any, _, _ int) map[string]any {
	return data
}

// FixBiome implements format.DataFixer.
func (f *CroconFixer) FixBiome(biome string, _, _ int) string {
	return biome
}
