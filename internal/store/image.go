package store

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/savioluz/deliveryitaueira/internal/domain"
)

const (
	// DefaultMaxSide bounds the longer side of a compressed image.
	DefaultMaxSide = 1400

	// TargetImageBytes is the byte budget the quality loop aims for.
	TargetImageBytes = 1536 * 1024

	startQuality = 80
	qualityStep  = 10
	floorQuality = 30
)

// CompressImage resizes the image so neither side exceeds maxSide, preserving
// aspect ratio, then re-encodes as JPEG at decreasing quality until the
// result fits the byte budget or the quality floor is reached. The floor
// result is accepted regardless of size.
func CompressImage(data []byte, maxSide int) (*domain.StoredImage, error) {
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}

	width := src.Bounds().Dx()
	height := src.Bounds().Dy()
	newWidth, newHeight := fitWithin(width, height, maxSide)
	if newWidth != width || newHeight != height {
		dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		src = dst
	}

	var buf bytes.Buffer
	quality := startQuality
	for {
		buf.Reset()
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
			return nil, errors.Wrap(err, "encode jpeg")
		}
		if buf.Len() <= TargetImageBytes || quality <= floorQuality {
			break
		}
		quality -= qualityStep
	}

	zap.L().Debug("image compressed",
		zap.Int("originalBytes", len(data)),
		zap.Int("compressedBytes", buf.Len()),
		zap.Int("quality", quality),
		zap.Int("width", newWidth),
		zap.Int("height", newHeight))

	return &domain.StoredImage{
		ImageMeta: domain.ImageMeta{
			Mime:      "image/jpeg",
			Size:      buf.Len(),
			Width:     newWidth,
			Height:    newHeight,
			CreatedAt: time.Now().UnixMilli(),
		},
		Data: append([]byte(nil), buf.Bytes()...),
	}, nil
}

// fitWithin shrinks (w, h) so the longer side equals maxSide; images already
// inside the bound are untouched.
func fitWithin(w, h, maxSide int) (int, int) {
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w > h {
		return maxSide, scaleSide(h, maxSide, w)
	}
	return scaleSide(w, maxSide, h), maxSide
}

func scaleSide(side, maxSide, longer int) int {
	scaled := side * maxSide / longer
	if scaled < 1 {
		return 1
	}
	return scaled
}

// DecodeInlineImage decodes a legacy inline payload: either a
// "data:image/...;base64," URI or bare base64.
func DecodeInlineImage(inline string) ([]byte, error) {
	payload := inline
	if strings.HasPrefix(inline, "data:") {
		idx := strings.Index(inline, ",")
		if idx < 0 {
			return nil, errors.New("malformed data URI")
		}
		payload = inline[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Wrap(err, "decode base64 image")
	}
	return data, nil
}
