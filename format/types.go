package format

import (
	"github.com/oriumgames/clipschem/format/internal/base"
)

type (
	// Clipboard is the voxel buffer read from and written to containers.
	Clipboard = base.Clipboard
	// Memory is the default sparse in-memory Clipboard.
	Memory = base.Memory
	// Region is an inclusive cuboid of block positions.
	Region = base.Region

	BlockState  = base.BlockState
	BlockEntity = base.BlockEntity
	Entity      = base.Entity

	// Options configures a single read or write.
	Options  = base.Options
	Platform = base.Platform

	DataFixer = base.DataFixer
	NopFixer  = base.NopFixer

	Registry        = base.Registry
	DefaultRegistry = base.DefaultRegistry

	FormatError    = base.FormatError
	SizeLimitError = base.SizeLimitError
)

// Sentinel causes carried by *FormatError, for use with errors.Is.
var (
	ErrVersionMismatch  = base.ErrVersionMismatch
	ErrMissingField     = base.ErrMissingField
	ErrWrongType        = base.ErrWrongType
	ErrPaletteSize      = base.ErrPaletteSize
	ErrUnknownPaletteID = base.ErrUnknownPaletteID
	ErrTruncated        = base.ErrTruncated
	ErrVarIntTooLong    = base.ErrVarIntTooLong
	ErrTrailingData     = base.ErrTrailingData
	ErrInvalidDimension = base.ErrInvalidDimension
)

const (
	AirName            = base.AirName
	DefaultDataVersion = base.DefaultDataVersion
	DataVersion1_13_2  = base.DataVersion1_13_2
)

var (
	NewMemory       = base.NewMemory
	RegionOf        = base.RegionOf
	DefaultOptions  = base.DefaultOptions
	ParseBlockState = base.ParseBlockState
	GameVersion     = base.GameVersion
	Digest          = base.Digest
	Air             = base.Air
	CloneCompound   = base.CloneCompound
)
