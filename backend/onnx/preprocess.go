package onnx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageNet channel statistics.
var (
	imageNetMean = [3]float32{0.485, 0.456, 0.406}
	imageNetStd  = [3]float32{0.229, 0.224, 0.225}
)

// Preprocess decodes an encoded image, resizes it to size x size and
// returns it as a normalized float32 tensor in CHW order.
func Preprocess(data []byte, size int) ([]float32, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return Normalize(Resize(src, size)), nil
}

// Resize scales src to a size x size RGBA image with Catmull-Rom
// resampling. Aspect ratio is not preserved.
func Resize(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Normalize converts img to CHW float32 with ImageNet mean/std.
func Normalize(img *image.RGBA) []float32 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	plane := w * h
	out := make([]float32, 3*plane)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			i := y*w + x
			for c := 0; c < 3; c++ {
				v := float32(img.Pix[off+c]) / 255
				out[c*plane+i] = (v - imageNetMean[c]) / imageNetStd[c]
			}
		}
	}
	return out
}
