package asset

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	// webp decode support for thumbnail generation
	_ "github.com/chai2010/webp"
)

// thumbMaxBytes bounds the source size fed to the thumbnailer.
const thumbMaxBytes = 20 << 20

// thumbnailJPEG renders a bounded JPEG preview of an image. Failures
// are reported to the caller but never fail the imported asset.
func thumbnailJPEG(data []byte, maxDim int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	thumb := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
