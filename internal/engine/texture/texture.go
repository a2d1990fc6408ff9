package texture

import (
	"image"
	"os"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/claw-machine/internal/logger"
)

// Texture is an uploaded 2D texture.
type Texture struct {
	ID     uint32
	Width  int
	Height int
}

// Upload creates a mipmapped texture from img.
func Upload(img *image.RGBA) Texture {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return Texture{ID: id, Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
}

// Load reads, decodes and uploads the image at path.
func Load(path string) (Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Texture{}, errors.Wrapf(err, "read texture %s", path)
	}
	img, err := Decode(data, path)
	if err != nil {
		return Texture{}, err
	}
	rgba := ToRGBA(img, true)
	if len(rgba.Pix) == 0 {
		return Texture{}, errors.Errorf("texture %s is empty", path)
	}
	return Upload(rgba), nil
}

// Delete frees the texture.
func (t *Texture) Delete() {
	if t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
}

// Cache uploads each path once. Paths that fail to load map to texture 0
// and are not retried.
type Cache struct {
	textures map[string]Texture
	log      *zap.Logger
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{textures: make(map[string]Texture), log: logger.Named("texture")}
}

// Get returns the texture ID for path, or 0 when it cannot be loaded.
func (c *Cache) Get(path string) uint32 {
	if path == "" {
		return 0
	}
	if t, ok := c.textures[path]; ok {
		return t.ID
	}
	t, err := Load(path)
	if err != nil {
		c.log.Warn("texture missing, using diffuse color", zap.String("path", path), zap.Error(err))
	}
	c.textures[path] = t
	return t.ID
}

// Close deletes every cached texture.
func (c *Cache) Close() {
	for path, t := range c.textures {
		t.Delete()
		delete(c.textures, path)
	}
}
