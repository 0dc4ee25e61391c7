package viz

import (
	"context"
	"sync"

	"github.com/ctessum/geom"
)

// Vec is a point as [latitude, longitude].
type Vec [2]float64

func vec(p geom.Point) Vec { return Vec{p.X, p.Y} }

// Triangle is one filled cell.
type Triangle struct {
	Vertices [3]Vec `json:"vertices"`
	Color    Color  `json:"color"`
}

// Center is a labelled cell centre.
type Center struct {
	Position Vec `json:"position"`
	Cell     int `json:"cell"`
}

// Trace is a named polyline, such as a planned path.
type Trace struct {
	Kind   string `json:"kind"`
	Points []Vec  `json:"points"`
}

// Frame is everything pushed between two flushes.
type Frame struct {
	Borders   [][2]Vec   `json:"borders"`
	Centers   []Center   `json:"centers"`
	Triangles []Triangle `json:"triangles"`
	Traces    []Trace    `json:"traces"`
}

// Empty reports whether the frame holds no primitives.
func (f Frame) Empty() bool {
	return len(f.Borders) == 0 && len(f.Centers) == 0 && len(f.Triangles) == 0 && len(f.Traces) == 0
}

// Sink receives drawing primitives. Implementations must be safe for
// concurrent use.
type Sink interface {
	PushBorderEdge(a, b geom.Point)
	PushCenter(p geom.Point, cell int)
	PushTriangle(vertices [3]geom.Point, color Color)
	PushTrace(kind string, points []geom.Point)
	Flush(ctx context.Context) error
}

// frameBuffer accumulates primitives for the sinks in this package.
type frameBuffer struct {
	mu    sync.Mutex
	frame Frame
}

func (b *frameBuffer) PushBorderEdge(a, c geom.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame.Borders = append(b.frame.Borders, [2]Vec{vec(a), vec(c)})
}

func (b *frameBuffer) PushCenter(p geom.Point, cell int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame.Centers = append(b.frame.Centers, Center{Position: vec(p), Cell: cell})
}

func (b *frameBuffer) PushTriangle(v [3]geom.Point, color Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame.Triangles = append(b.frame.Triangles, Triangle{
		Vertices: [3]Vec{vec(v[0]), vec(v[1]), vec(v[2])},
		Color:    color,
	})
}

func (b *frameBuffer) PushTrace(kind string, points []geom.Point) {
	t := Trace{Kind: kind, Points: make([]Vec, len(points))}
	for i, p := range points {
		t.Points[i] = vec(p)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame.Traces = append(b.frame.Traces, t)
}

// take returns the buffered frame and starts a new one.
func (b *frameBuffer) take() Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	f := b.frame
	b.frame = Frame{}
	return f
}

// Recorder is a Sink that keeps every flushed frame in memory.
type Recorder struct {
	frameBuffer
	framesMu sync.Mutex
	frames   []Frame
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Flush implements Sink.
func (r *Recorder) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := r.take()
	r.framesMu.Lock()
	defer r.framesMu.Unlock()
	r.frames = append(r.frames, f)
	return nil
}

// Frames returns a copy of the flushed frames.
func (r *Recorder) Frames() []Frame {
	r.framesMu.Lock()
	defer r.framesMu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Last returns the most recent frame.
func (r *Recorder) Last() (Frame, bool) {
	r.framesMu.Lock()
	defer r.framesMu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}

// Discard is a Sink that drops everything.
type Discard struct{}

func (Discard) PushBorderEdge(geom.Point, geom.Point) {}
func (Discard) PushCenter(geom.Point, int) {}
func (Discard) PushTriangle([3]geom.Point, Color) {}
func (Discard) PushTrace(string, []geom.Point) {}
func (Discard) Flush(context.Context) error { return nil }
