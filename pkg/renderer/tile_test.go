package renderer

import "testing"

func TestNewTileGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		expectedTiles int
	}{
		{"400x225 with 64px tiles", 400, 225, 64, 28},
		{"exact multiple", 128, 64, 32, 8},
		{"tile larger than image", 10, 5, 64, 1},
		{"single tile when size is zero", 33, 17, 0, 1},
		{"one pixel tiles", 3, 2, 1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			if len(tiles) != tt.expectedTiles {
				t.Errorf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}

			// Tiles must cover the image without gaps or overlaps
			covered := make([]bool, tt.width*tt.height)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("Expected tile ID %d, got %d", i, tile.ID)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						if x >= tt.width || y >= tt.height {
							t.Fatalf("Tile %d extends beyond image bounds at (%d,%d)", tile.ID, x, y)
						}
						if covered[x+y*tt.width] {
							t.Errorf("Pixel (%d,%d) is covered by multiple tiles", x, y)
						}
						covered[x+y*tt.width] = true
					}
				}
			}
			for i, c := range covered {
				if !c {
					t.Errorf("Pixel (%d,%d) is not covered by any tile", i%tt.width, i/tt.width)
				}
			}
		})
	}
}
