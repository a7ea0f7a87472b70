// Package imagex normalises raster images before they are stored or sent to
// the generation service: decode, bound the longest edge, re-encode as JPEG.
package imagex

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/ordo/internal/client/models"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// CaptureMaxEdge and CaptureQuality bound stills taken by the camera.
	CaptureMaxEdge = 1080
	CaptureQuality = 70

	// UploadMaxEdge and UploadQuality bound images sent to the image model.
	UploadMaxEdge = 1024
	UploadQuality = 80
)

var ErrEmptyImage = errors.New("empty image")

// Decode parses JPEG, PNG or WebP data.
func Decode(img models.Image) (image.Image, error) {
	if img.IsZero() {
		return nil, ErrEmptyImage
	}
	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", img.MIMEType, err)
	}
	return decoded, nil
}

// Fit returns the size of a w×h image scaled so that its longest edge is at
// most maxEdge. Images that already fit keep their size.
func Fit(w, h, maxEdge int) (int, int) {
	longest := max(w, h)
	if longest <= maxEdge || longest == 0 {
		return w, h
	}
	nw := max(1, w*maxEdge/longest)
	nh := max(1, h*maxEdge/longest)
	return nw, nh
}

// Downscale resamples src with Catmull-Rom when it exceeds maxEdge.
func Downscale(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := Fit(b.Dx(), b.Dy(), maxEdge)
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Prepare decodes in, bounds it to maxEdge and re-encodes it as JPEG.
func Prepare(in models.Image, maxEdge, quality int) (models.Image, error) {
	decoded, err := Decode(in)
	if err != nil {
		return models.Image{}, err
	}
	data, err := EncodeJPEG(Downscale(decoded, maxEdge), quality)
	if err != nil {
		return models.Image{}, err
	}
	return models.NewJPEG(data), nil
}
