package base

// Voxel streams are ordered y, then z, then x. Readers and writers of every
// format version depend on this exact order.

// Index returns the flat stream index of (x, y, z) in a region of the given
// width and length.
func Index(x, y, z, width, length int) int {
	return y*width*length + z*width + x
}

// Position is the inverse of Index.
func Position(index, width, length int) (x, y, z int) {
	area := width * length
	y = index / area
	rem := index - y*area
	z = rem / width
	x = rem - z*width
	return x, y, z
}

// ColumnPosition decodes a per-column (x, z) index used by v2 biome data. It is
// the 3D decode with length fixed to 1, whose y component is the column's z.
func ColumnPosition(index, width int) (x, z int) {
	x, z, _ = Position(index, width, 1)
	return x, z
}
