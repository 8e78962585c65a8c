package shape

// Set groups the assets available to one computation pass.
// Any field may be empty.
type Set struct {
	Tiles   []Asset
	Mask    Asset
	Pattern Asset
}

// Reference returns the shape used to constrain positions in the "shape"
// pattern: the mask when present, otherwise the first tile.
func (s Set) Reference() Asset {
	if s.Mask != nil {
		return s.Mask
	}
	if len(s.Tiles) > 0 {
		return s.Tiles[0]
	}
	return nil
}

// Tile returns tile i, or nil when i is out of range.
func (s Set) Tile(i int) Asset {
	if i < 0 || i >= len(s.Tiles) {
		return nil
	}
	return s.Tiles[i]
}

// Usable reports whether a can be sampled: it is present and has a
// non-empty pixel grid.
func Usable(a Asset) bool {
	return a != nil && a.Width() > 0 && a.Height() > 0
}
