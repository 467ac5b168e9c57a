package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"wireworld/src/universe"
)

//Palette maps every cell state to its frame color
var Palette = color.Palette{
	universe.Empty:        color.RGBA{255, 255, 255, 255},
	universe.Conductor:    color.RGBA{255, 255, 0, 255},
	universe.ElectronHead: color.RGBA{0, 0, 255, 255},
	universe.ElectronTail: color.RGBA{255, 0, 0, 255},
}

//ExperimentDir returns the directory holding the frames of one experiment
func ExperimentDir(baseDir string, experiment int) string {
	return filepath.Join(baseDir, fmt.Sprintf("test%d", experiment))
}

//FramePath returns the image path of one frame
func FramePath(baseDir string, experiment int, step int) string {
	return filepath.Join(ExperimentDir(baseDir, experiment), fmt.Sprintf("step%d.png", step))
}

//PNGSink writes every snapshot as baseDir/test{experiment}/step{step}.png
type PNGSink struct {
	baseDir string
	scale   int
	enc     png.Encoder
}

//NewPNGSink creates the sink, each cell becomes a scale x scale block
func NewPNGSink(baseDir string, scale int) *PNGSink {
	if scale < 1 {
		scale = 1
	}
	return &PNGSink{
		baseDir: baseDir,
		scale:   scale,
		enc:     png.Encoder{CompressionLevel: png.BestSpeed},
	}
}

func (s *PNGSink) Emit(experiment int, step int, a universe.Area) error {
	if step == 0 {
		if err := os.MkdirAll(ExperimentDir(s.baseDir, experiment), 0o755); err != nil {
			return err
		}
	}
	path := FramePath(s.baseDir, experiment, step)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := s.enc.Encode(w, Render(a, s.scale)); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

//Render draws the area with rows along the image height and columns along its width
func Render(a universe.Area, scale int) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, a.Cols*scale, a.Rows*scale), Palette)
	for x, row := range a.Entities {
		top := x * scale
		line := img.Pix[top*img.Stride : top*img.Stride+a.Cols*scale]
		for y, c := range row {
			idx := uint8(c)
			if int(idx) >= len(Palette) {
				idx = uint8(universe.Empty)
			}
			for i := y * scale; i < (y+1)*scale; i++ {
				line[i] = idx
			}
		}
		for k := 1; k < scale; k++ {
			start := (top + k) * img.Stride
			copy(img.Pix[start:start+len(line)], line)
		}
	}
	return img
}
