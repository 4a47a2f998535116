package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	bytesPerPix int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("TGA data too short")
	}
	if data[1] != 0 {
		return tgaHeader{}, fmt.Errorf("%w: color-mapped TGA", ErrUnsupported)
	}
	h := tgaHeader{
		idLength:    int(data[0]),
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bytesPerPix: int(data[16]) / 8,
		topToBottom: data[17]&0x20 != 0,
	}
	if h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE {
		return tgaHeader{}, fmt.Errorf("%w: TGA type %d", ErrUnsupported, h.imageType)
	}
	if h.bytesPerPix != 3 && h.bytesPerPix != 4 {
		return tgaHeader{}, fmt.Errorf("%w: TGA bit depth %d", ErrUnsupported, data[16])
	}
	if h.width == 0 || h.height == 0 {
		return tgaHeader{}, fmt.Errorf("TGA has empty dimensions %dx%d", h.width, h.height)
	}
	return h, nil
}

// tgaWriter stores pixels in file order, flipping rows for bottom-up images.
type tgaWriter struct {
	img *image.RGBA
	h   tgaHeader
	n   int
}

func (w *tgaWriter) full() bool {
	return w.n >= w.h.width*w.h.height
}

func (w *tgaWriter) put(c color.RGBA) {
	x, y := w.n%w.h.width, w.n/w.h.width
	if !w.h.topToBottom {
		y = w.h.height - 1 - y
	}
	w.img.SetRGBA(x, y, c)
	w.n++
}

// bgra reads one BGR(A) pixel.
func bgra(p []byte) color.RGBA {
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if len(p) == 4 {
		c.A = p[3]
	}
	return c
}

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-colour TGA data.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	src := data[offset:]
	bpp := h.bytesPerPix

	w := &tgaWriter{img: image.NewRGBA(image.Rect(0, 0, h.width, h.height)), h: h}

	if h.imageType == TGATypeUncompressed {
		if len(src) < h.width*h.height*bpp {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; !w.full(); i += bpp {
			w.put(bgra(src[i : i+bpp]))
		}
		return w.img, nil
	}

	i := 0
	for !w.full() && i < len(src) {
		packet := src[i]
		i++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if i+bpp > len(src) {
				break
			}
			c := bgra(src[i : i+bpp])
			i += bpp
			for ; count > 0 && !w.full(); count-- {
				w.put(c)
			}
			continue
		}

		for ; count > 0 && !w.full() && i+bpp <= len(src); count-- {
			w.put(bgra(src[i : i+bpp]))
			i += bpp
		}
	}
	return w.img, nil
}
