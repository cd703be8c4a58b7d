package proxy

import (
	"bytes"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/anthonynsimon/bild/transform"
)

const (
	thumbnailMaxEdge  = 320
	thumbnailMaxBytes = 200 * 1024
)

// makeThumbnail scales the image down to a 320px bounding box and
// re-encodes it as JPEG, stepping the quality down until the result
// fits the size cap.
func makeThumbnail(input []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}

	originalWidth := img.Bounds().Dx()
	originalHeight := img.Bounds().Dy()
	if originalWidth > thumbnailMaxEdge || originalHeight > thumbnailMaxEdge {
		aspectRatio := float64(originalWidth) / float64(originalHeight)
		var newWidth, newHeight int
		if originalWidth > originalHeight {
			newWidth = thumbnailMaxEdge
			newHeight = int(float64(newWidth) / aspectRatio)
		} else {
			newHeight = thumbnailMaxEdge
			newWidth = int(float64(newHeight) * aspectRatio)
		}
		img = transform.Resize(img, newWidth, newHeight, transform.Linear)
	}

	var buf bytes.Buffer
	quality := 100
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}

	for int64(buf.Len()) > thumbnailMaxBytes && quality > 10 {
		quality -= 10
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
