package worker

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for uploaded profile images
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// thumbnailSize is the square edge of generated profile thumbnails.
const thumbnailSize = 150

// thumbnailPathFor derives the thumbnail's stored path from the original
// image path. Thumbnails are always JPEG.
func thumbnailPathFor(imagePath string) string {
	dir := filepath.Dir(imagePath)
	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	return filepath.Join(dir, base+"_thumb.jpg")
}

// generateThumbnail reads src, scales it down preserving aspect ratio,
// center-crops to a square, and writes a JPEG thumbnail to dst.
func generateThumbnail(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	cropped := centerCropSquare(img)
	thumb := image.NewRGBA(image.Rect(0, 0, thumbnailSize, thumbnailSize))
	draw.CatmullRom.Scale(thumb, thumb.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return nil
}

// centerCropSquare returns the largest centered square region of img.
func centerCropSquare(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return img
	}

	edge := w
	if h < edge {
		edge = h
	}
	x0 := b.Min.X + (w-edge)/2
	y0 := b.Min.Y + (h-edge)/2
	rect := image.Rect(x0, y0, x0+edge, y0+edge)

	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(rect)
	}

	// Fallback copy for image types without SubImage.
	out := image.NewRGBA(image.Rect(0, 0, edge, edge))
	draw.Copy(out, image.Point{}, img, rect, draw.Src, nil)
	return out
}
