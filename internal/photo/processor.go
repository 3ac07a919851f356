package photo

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/jdeng/goheif"
	"golang.org/x/image/draw"

	"github.com/glowpoint/salon-api/internal/httperr"
)

const (
	// photos wider/taller than this are downscaled before encoding
	maxDimension = 1600

	jpegQuality = 85
)

// Process normalizes an uploaded photo to JPEG: HEIC (what iPhones upload),
// webp and png are decoded, oversized images downscaled, and the result
// re-encoded. Returns the JPEG bytes.
func Process(data []byte) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, httperr.ErrBusiness("unsupported_image")
	}

	img = downscale(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (image.Image, error) {
	switch {
	case isHEIC(data):
		return goheif.Decode(bytes.NewReader(data))
	case isWebP(data):
		return webp.Decode(bytes.NewReader(data))
	default:
		img, _, err := image.Decode(bytes.NewReader(data))
		return img, err
	}
}

// isHEIC sniffs the ISO-BMFF "ftyp" box brands iPhones produce.
func isHEIC(data []byte) bool {
	if len(data) < 12 || !bytes.Equal(data[4:8], []byte("ftyp")) {
		return false
	}
	brand := string(data[8:12])
	switch brand {
	case "heic", "heix", "hevc", "heim", "heis", "mif1", "msf1":
		return true
	}
	return false
}

func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[0:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WEBP"))
}

func downscale(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDimension && h <= maxDimension {
		return img
	}

	if w >= h {
		h = h * maxDimension / w
		w = maxDimension
	} else {
		w = w * maxDimension / h
		h = maxDimension
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
