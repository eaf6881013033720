package photos

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"log/slog"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
)

// jpegQuality is the encode quality for stored covers.
const jpegQuality = 85

// blurHashSize is the thumbnail edge used for BlurHash computation.
// BlurHash is a low-resolution placeholder; a small input produces nearly
// identical hashes in a fraction of the time.
const blurHashSize = 64

// Processor normalizes cover photos before storage: decode, downscale to a
// maximum edge, re-encode as JPEG, and compute a BlurHash placeholder.
type Processor struct {
	storage *Storage
	maxEdge int
	logger  *slog.Logger
}

// NewProcessor creates a Processor storing through the given Storage.
// maxEdge is the longest edge covers are downscaled to.
func NewProcessor(storage *Storage, maxEdge int, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		maxEdge: maxEdge,
		logger:  logger,
	}
}

// Process decodes raw photo bytes, downscales when larger than the configured
// edge, stores the JPEG under bookID, and returns the stored filename together
// with the BlurHash placeholder string.
func (p *Processor) Process(bookID string, data []byte) (filename, hash string, err error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("decode photo: %w", err)
	}

	scaled := scaleDown(img, p.maxEdge)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", "", fmt.Errorf("encode photo: %w", err)
	}

	filename = bookID + ".jpg"
	if err := p.storage.Save(filename, buf.Bytes()); err != nil {
		return "", "", fmt.Errorf("save photo: %w", err)
	}

	// 4x3 components - good balance of size and detail for book covers.
	hash, err = blurhash.Encode(4, 3, scaleDown(scaled, blurHashSize))
	if err != nil {
		return "", "", fmt.Errorf("encode blurhash: %w", err)
	}

	p.logger.Debug("processed cover photo",
		"book_id", bookID,
		"source_format", format,
		"stored_bytes", buf.Len(),
		"blurhash", hash)

	return filename, hash, nil
}

// scaleDown resizes an image so its longest edge is at most maxEdge,
// preserving aspect ratio. Images already small enough pass through.
func scaleDown(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}

	var dw, dh int
	if w > h {
		dw = maxEdge
		dh = max(1, (h*maxEdge)/w)
	} else {
		dh = maxEdge
		dw = max(1, (w*maxEdge)/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
