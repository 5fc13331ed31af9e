package base

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Registry resolves the string keys found in containers. Implementations are
// usually backed by the host platform's block, biome and entity registries.
type Registry interface {
	// ParseBlockState parses a block state string such as
	// "minecraft:oak_stairs[facing=north,half=bottom]".
	ParseBlockState(s string) (*BlockState, error)
	// Biome returns the canonical biome id for key.
	Biome(key string) (string, bool)
	// EntityType returns the canonical entity type id for key.
	EntityType(key string) (string, bool)
}

var resourceID = regexp.MustCompile(`^([a-z0-9_.\-]+:)?[a-z0-9_.\-/]+$`)

// DefaultRegistry accepts every syntactically valid resource id.
type DefaultRegistry struct{}

func (DefaultRegistry) ParseBlockState(s string) (*BlockState, error) {
	return ParseBlockState(s)
}

func (DefaultRegistry) Biome(key string) (string, bool) {
	return NamespacedID(key)
}

func (DefaultRegistry) EntityType(key string) (string, bool) {
	return NamespacedID(key)
}

// NamespacedID validates key and adds the minecraft namespace when missing.
func NamespacedID(key string) (string, bool) {
	if !resourceID.MatchString(key) {
		return "", false
	}
	if !strings.Contains(key, ":") {
		key = "minecraft:" + key
	}
	return key, true
}

// ParseBlockState parses a block state string into a BlockState.
func ParseBlockState(s string) (*BlockState, error) {
	name, props, hasProps := strings.Cut(s, "[")
	id, ok := NamespacedID(name)
	if !ok {
		return nil, fmt.Errorf("invalid block id %q", name)
	}
	if !hasProps {
		return &BlockState{Name: id}, nil
	}
	props, ok = strings.CutSuffix(props, "]")
	if !ok {
		return nil, fmt.Errorf("unterminated properties in %q", s)
	}
	if props == "" {
		return &BlockState{Name: id}, nil
	}

	properties := make(map[string]any)
	for part := range strings.SplitSeq(props, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid property %q in %q", part, s)
		}

		if value == "true" {
			properties[key] = true
		} else if value == "false" {
			properties[key] = false
		} else if i, err := strconv.Atoi(value); err == nil {
			properties[key] = int32(i)
		} else {
			properties[key] = value
		}
	}

	return &BlockState{
		Name:       id,
		Properties: properties,
	}, nil
}
