package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/ftrvxmtrx/tga" // Register TGA decoder
	_ "golang.org/x/image/bmp"   // Register BMP decoder
	_ "golang.org/x/image/webp"  // Register WebP decoder
)

// Load reads and decodes a texture file. PNG, JPEG, TGA, BMP and WebP are
// supported.
func Load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	tex, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", path, err)
	}
	return tex, nil
}

// Decode decodes a texture from r.
func Decode(r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(img), nil
}

// DecodeBytes decodes an encoded image held in memory.
func DecodeBytes(data []byte) (*Texture, error) {
	return Decode(bytes.NewReader(data))
}

// FromImage creates a texture from an image.Image.
func FromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := New(width, height)
	for y := range height {
		for x := range width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.Pixels[y*width+x].R = uint8(r >> 8)
			tex.Pixels[y*width+x].G = uint8(g >> 8)
			tex.Pixels[y*width+x].B = uint8(b >> 8)
			tex.Pixels[y*width+x].A = uint8(a >> 8)
		}
	}
	return tex
}

// Cache loads each texture file once. It is safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*Texture
}

// NewCache creates an empty texture cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]*Texture)}
}

// Load returns the cached texture for path, loading it on first use.
func (c *Cache) Load(path string) (*Texture, error) {
	key := filepath.Clean(path)

	c.mu.RLock()
	tex, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return tex, nil
	}

	tex, err := Load(key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.items[key]; ok {
		return cached, nil
	}
	c.items[key] = tex
	return tex, nil
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
