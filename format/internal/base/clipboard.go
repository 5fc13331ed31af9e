package base

import (
	"fmt"
	"maps"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// Clipboard is the cuboid voxel buffer read from and written to containers.
// All positions are absolute.
type Clipboard interface {
	// Region returns the bounds of the clipboard.
	Region() Region

	// Origin returns the anchor used for relative pastes.
	Origin() cube.Pos

	// SetOrigin sets the anchor used for relative pastes.
	SetOrigin(pos cube.Pos)

	// Block returns the block state at pos, or nil for air or out of range.
	// States may be shared between positions and must not be modified.
	Block(pos cube.Pos) *BlockState

	// SetBlock sets the block state at pos. Pass nil to clear it.
	SetBlock(pos cube.Pos, block *BlockState) error

	// BlockEntity returns the attached data of the block at pos, if any.
	BlockEntity(pos cube.Pos) *BlockEntity

	// SetBlockEntity attaches data to the block at pos. Pass nil to remove it.
	SetBlockEntity(pos cube.Pos, be *BlockEntity) error

	// Biome returns the biome at pos, or "" when unset.
	Biome(pos cube.Pos) string

	// SetBiome sets the biome at pos.
	SetBiome(pos cube.Pos, biome string) error

	// HasBiomes reports whether any biome has been set.
	HasBiomes() bool

	// Entities returns all entities in the clipboard.
	Entities() []*Entity

	// AddEntity adds an entity to the clipboard.
	AddEntity(entity *Entity)

	// Metadata returns container metadata such as name and author.
	Metadata() map[string]any

	// SetMetadata sets a metadata key-value pair.
	SetMetadata(key string, value any)

	// DataVersion returns the data version of the clipboard's content.
	DataVersion() int

	// SetDataVersion sets the data version of the clipboard's content.
	SetDataVersion(version int)
}

// Memory is a sparse Clipboard. It stores only non-air blocks.
type Memory struct {
	region Region
	origin cube.Pos

	blocks        map[int]*BlockState
	blockEntities map[int]*BlockEntity
	biomes        map[int]string
	entities      []*Entity
	metadata      map[string]any
	dataVersion   int
}

// NewMemory creates an empty clipboard covering region with its origin at the
// region minimum.
func NewMemory(region Region) *Memory {
	return &Memory{
		region:        region,
		origin:        region.Min,
		blocks:        make(map[int]*BlockState),
		blockEntities: make(map[int]*BlockEntity),
		biomes:        make(map[int]string),
		entities:      make([]*Entity, 0),
		metadata:      make(map[string]any),
	}
}

func (m *Memory) index(pos cube.Pos) (int, bool) {
	if !m.region.Contains(pos) {
		return 0, false
	}
	rel := pos.Sub(m.region.Min)
	return Index(rel.X(), rel.Y(), rel.Z(), m.region.Width(), m.region.Length()), true
}

func (m *Memory) Region() Region {
	return m.region
}

func (m *Memory) Origin() cube.Pos {
	return m.origin
}

func (m *Memory) SetOrigin(pos cube.Pos) {
	m.origin = pos
}

func (m *Memory) Block(pos cube.Pos) *BlockState {
	idx, ok := m.index(pos)
	if !ok {
		return nil
	}
	return m.blocks[idx]
}

func (m *Memory) SetBlock(pos cube.Pos, block *BlockState) error {
	idx, ok := m.index(pos)
	if !ok {
		return fmt.Errorf("set block: %v outside %v", pos, m.region)
	}
	if block == nil || block.Name == AirName {
		delete(m.blocks, idx)
	} else {
		m.blocks[idx] = block
	}
	return nil
}

func (m *Memory) BlockEntity(pos cube.Pos) *BlockEntity {
	idx, ok := m.index(pos)
	if !ok {
		return nil
	}
	return m.blockEntities[idx]
}

// SetBlockEntity stores a copy of be, or removes the block entity when be is nil.
func (m *Memory) SetBlockEntity(pos cube.Pos, be *BlockEntity) error {
	idx, ok := m.index(pos)
	if !ok {
		return fmt.Errorf("set block entity: %v outside %v", pos, m.region)
	}
	if be == nil {
		delete(m.blockEntities, idx)
	} else {
		m.blockEntities[idx] = be.Clone()
	}
	return nil
}

func (m *Memory) Biome(pos cube.Pos) string {
	idx, ok := m.index(pos)
	if !ok {
		return ""
	}
	return m.biomes[idx]
}

func (m *Memory) SetBiome(pos cube.Pos, biome string) error {
	idx, ok := m.index(pos)
	if !ok {
		return fmt.Errorf("set biome: %v outside %v", pos, m.region)
	}
	if biome == "" {
		delete(m.biomes, idx)
	} else {
		m.biomes[idx] = biome
	}
	return nil
}

func (m *Memory) HasBiomes() bool {
	return len(m.biomes) > 0
}

func (m *Memory) Entities() []*Entity {
	entities := make([]*Entity, len(m.entities))
	copy(entities, m.entities)
	return entities
}

// AddEntity stores a copy of entity.
func (m *Memory) AddEntity(entity *Entity) {
	m.entities = append(m.entities, entity.Clone())
}

func (m *Memory) Metadata() map[string]any {
	md := make(map[string]any, len(m.metadata))
	maps.Copy(md, m.metadata)
	return md
}

func (m *Memory) SetMetadata(key string, value any) {
	m.metadata[key] = value
}

func (m *Memory) DataVersion() int {
	return m.dataVersion
}

func (m *Memory) SetDataVersion(version int) {
	m.dataVersion = version
}
