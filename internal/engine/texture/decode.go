// Package texture decodes images and uploads them as OpenGL textures.
package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
)

// Decode decodes PNG, JPEG, BMP or TGA data. The extension of path picks
// the TGA decoder, which has no magic number.
func Decode(data []byte, path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return img, nil
}

// ToRGBA copies img into a tightly packed RGBA image. With flipY the rows
// are reversed so row 0 is the bottom, as OpenGL expects.
func ToRGBA(img image.Image, flipY bool) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	if flipY {
		flipRows(rgba)
	}
	return rgba
}

func flipRows(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

const (
	tgaUncompressed = 2
	tgaRLE          = 10
)

// DecodeTGA decodes uncompressed or RLE true-color TGA data.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, errors.New("tga: header too short")
	}
	idLength := int(data[0])
	kind := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if data[1] != 0 {
		return nil, errors.New("tga: color-mapped images not supported")
	}
	if kind != tgaUncompressed && kind != tgaRLE {
		return nil, errors.Errorf("tga: unsupported image type %d", kind)
	}
	if bpp != 24 && bpp != 32 {
		return nil, errors.Errorf("tga: unsupported bit depth %d", bpp)
	}
	if 18+idLength > len(data) {
		return nil, errors.New("tga: truncated")
	}

	px := data[18+idLength:]
	size := bpp / 8
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	pixel := func(p []byte) color.RGBA {
		c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
		if size == 4 {
			c.A = p[3]
		}
		return c
	}
	set := func(i int, c color.RGBA) {
		y := i / width
		if !topToBottom {
			y = height - 1 - y
		}
		img.SetRGBA(i%width, y, c)
	}

	total := width * height
	if kind == tgaUncompressed {
		if len(px) < total*size {
			return nil, errors.New("tga: pixel data truncated")
		}
		for i := range total {
			set(i, pixel(px[i*size:]))
		}
		return img, nil
	}

	for i, pos := 0, 0; i < total && pos < len(px); {
		header := px[pos]
		pos++
		count := int(header&0x7f) + 1
		if header&0x80 != 0 {
			if pos+size > len(px) {
				break
			}
			c := pixel(px[pos:])
			pos += size
			for ; count > 0 && i < total; count-- {
				set(i, c)
				i++
			}
			continue
		}
		for ; count > 0 && i < total && pos+size <= len(px); count-- {
			set(i, pixel(px[pos:]))
			pos += size
			i++
		}
	}
	return img, nil
}
