package scene

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
)

// LoadSprite loads an image for use as a point sprite or polygon texture,
// downscaling it with a Catmull-Rom kernel when either dimension exceeds
// maxSize. Sprites are redrawn scaled every frame, so capping the source
// size keeps the surface backend's warp cost bounded.
func LoadSprite(path string, maxSize int) (*gg.ImageBuf, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sprite: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode sprite: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		scale := float64(maxSize) / float64(max(w, h))
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	return gg.ImageBufFromImage(img), nil
}
