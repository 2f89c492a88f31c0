package renderer

import "image"

// Tile represents a rectangular region of the image rendered by one worker
type Tile struct {
	ID     int             // Index in the tile grid
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{ID: id, Bounds: bounds}
}

// NewTileGrid creates a grid of non-overlapping tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	tileSize = tileStride(tileSize, width, height)

	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}

// tileStride returns the tile edge length used for tileSize; tileSize <= 0 means one tile
func tileStride(tileSize, width, height int) int {
	if tileSize <= 0 {
		return max(width, height, 1)
	}
	return tileSize
}
