package output

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"wireworld/src/universe"
)

//Frame is one line of a frame log
type Frame struct {
	Experiment int    `json:"experiment"`
	Step       int    `json:"step"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Cells      string `json:"cells"`
}

//NewFrame encodes a snapshot, cells holds one digit per cell in row-major order
func NewFrame(experiment int, step int, a universe.Area) Frame {
	return Frame{
		Experiment: experiment,
		Step:       step,
		Rows:       a.Rows,
		Cols:       a.Cols,
		Cells:      strings.ReplaceAll(a.String(), "\n", ""),
	}
}

//Area decodes the frame back into a field
func (f Frame) Area() (universe.Area, error) {
	if len(f.Cells) != f.Rows*f.Cols {
		return universe.Area{}, fmt.Errorf("frame %d/%d: %d cells for %dx%d", f.Experiment, f.Step, len(f.Cells), f.Rows, f.Cols)
	}
	a := universe.NewArea(f.Rows, f.Cols)
	for i := 0; i < len(f.Cells); i++ {
		c := universe.Cell(f.Cells[i] - '0')
		if c >= universe.NumStates {
			return universe.Area{}, fmt.Errorf("frame %d/%d: bad cell %q", f.Experiment, f.Step, f.Cells[i])
		}
		a.Set(i/f.Cols, i%f.Cols, c)
	}
	return a, nil
}

//FrameLogPath returns the compressed frame log of one experiment
func FrameLogPath(baseDir string, experiment int) string {
	return filepath.Join(ExperimentDir(baseDir, experiment), "frames.jsonl.zst")
}

type frameWriter struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func openFrameWriter(path string) (*frameWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &frameWriter{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}, nil
}

func (fw *frameWriter) write(v Frame) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fw.w.Write(b); err != nil {
		return err
	}
	return fw.w.WriteByte('\n')
}

func (fw *frameWriter) close() error {
	err1 := fw.w.Flush()
	err2 := fw.enc.Close()
	err3 := fw.f.Close()
	return errors.Join(err1, err2, err3)
}

//FrameLog writes every snapshot of an experiment to a zstd compressed JSON lines file
//one file per experiment, opened on the first frame and finished by CloseExperiment
type FrameLog struct {
	baseDir string

	mu      sync.Mutex
	writers map[int]*frameWriter
}

func NewFrameLog(baseDir string) *FrameLog {
	return &FrameLog{baseDir: baseDir, writers: map[int]*frameWriter{}}
}

func (l *FrameLog) Emit(experiment int, step int, a universe.Area) error {
	l.mu.Lock()
	fw, ok := l.writers[experiment]
	if !ok {
		var err error
		fw, err = openFrameWriter(FrameLogPath(l.baseDir, experiment))
		if err != nil {
			l.mu.Unlock()
			return err
		}
		l.writers[experiment] = fw
	}
	l.mu.Unlock()
	//a writer is only ever used by the goroutine running its experiment
	return fw.write(NewFrame(experiment, step, a))
}

//CloseExperiment flushes and closes the log of one experiment
func (l *FrameLog) CloseExperiment(experiment int) error {
	l.mu.Lock()
	fw, ok := l.writers[experiment]
	delete(l.writers, experiment)
	l.mu.Unlock()
	if !ok {
		return nil
	}
	return fw.close()
}

//Close closes every log still open
func (l *FrameLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var errs []error
	for experiment, fw := range l.writers {
		errs = append(errs, fw.close())
		delete(l.writers, experiment)
	}
	return errors.Join(errs...)
}

//ReadFrames decodes a frame log
func ReadFrames(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var frames []Frame
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 1<<20), 64<<20)
	for sc.Scan() {
		var fr Frame
		if err := json.Unmarshal(sc.Bytes(), &fr); err != nil {
			return frames, fmt.Errorf("%s: frame %d: %w", path, len(frames), err)
		}
		frames = append(frames, fr)
	}
	return frames, sc.Err()
}
