package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads a Scene from a JSON file
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a Scene from JSON. Missing camera fields and image size fall
// back to the defaults of NewScene.
func Decode(r io.Reader) (*Scene, error) {
	sc := NewScene("")
	if err := json.NewDecoder(r).Decode(sc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if sc.Width <= 0 || sc.Height <= 0 {
		return nil, fmt.Errorf("decode scene: image size must be positive, got %dx%d", sc.Width, sc.Height)
	}
	return sc, nil
}

// Save writes a Scene to a JSON file
func Save(path string, sc *Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sc); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}
