package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	apperrors "kiitrentals/internal/errors"
)

const (
	maxImageSide   = 800
	jpegQuality    = 60
	maxInputBytes  = 5 * 1024 * 1024
	maxOutputBytes = 1 * 1024 * 1024
)

// ImageNormalizer prepares a listing image for storage.
type ImageNormalizer interface {
	Normalize(image string) (string, error)
}

// JPEGNormalizer passes http(s) URLs through untouched and re-encodes inline
// base64 payloads: decode, downscale so the longest side is at most 800px,
// composite onto white to drop transparency, encode as JPEG quality 60.
type JPEGNormalizer struct{}

// NewJPEGNormalizer creates a new JPEG image normalizer.
func NewJPEGNormalizer() *JPEGNormalizer {
	return &JPEGNormalizer{}
}

// Normalize returns the normalized image string or a ValidationError.
func (n *JPEGNormalizer) Normalize(img string) (string, error) {
	if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") {
		return img, nil
	}
	if !strings.HasPrefix(img, "data:image/") {
		return "", apperrors.NewValidationError("image must be an http(s) URL or an inline base64 image")
	}

	comma := strings.Index(img, ",")
	if comma < 0 || !strings.Contains(img[:comma], ";base64") {
		return "", apperrors.NewValidationError("image data URI is malformed")
	}
	payload := img[comma+1:]
	if len(payload) > maxInputBytes {
		return "", apperrors.NewValidationError("image must be smaller than 5MB")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", apperrors.NewValidationError("image payload is not valid base64")
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", apperrors.NewValidationError("image payload is not a supported image format")
	}

	out := flattenOnWhite(downscale(src, maxImageSide))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", apperrors.NewValidationError("image could not be re-encoded")
	}

	encoded := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	if len(encoded) > maxOutputBytes {
		return "", apperrors.NewValidationError("converted image is too large, use a smaller image")
	}
	return encoded, nil
}

// downscale resizes src so its longest side is at most maxSide, preserving
// aspect ratio. Images already within bounds are returned as-is.
func downscale(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return src
	}

	var nw, nh int
	if w > h {
		nw = maxSide
		nh = (h*maxSide + w/2) / w
	} else {
		nh = maxSide
		nw = (w*maxSide + h/2) / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	for y := 0; y < nh; y++ {
		sy := b.Min.Y + y*h/nh
		for x := 0; x < nw; x++ {
			sx := b.Min.X + x*w/nw
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}

// flattenOnWhite composites the image onto a white background so transparent
// regions do not turn black in the JPEG output.
func flattenOnWhite(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}
