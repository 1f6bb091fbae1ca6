// Package render rasterizes belief-map snapshots. It consumes only
// read-only snapshots of an episode, so the simulation core never
// depends on whether or how frames are displayed.
package render

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/goslam/environment/slam"
)

// Frame is one renderable snapshot of an episode: the belief grid, the
// agent's pose, and the current coverage fraction.
type Frame struct {
	Cells    [][]slam.Cell
	Pose     slam.Pose
	Coverage float64
}

// Snapshot captures the current state of an environment as a Frame
func Snapshot(e *slam.Slam) Frame {
	return Frame{
		Cells:    e.BeliefSnapshot(),
		Pose:     e.Pose(),
		Coverage: e.Coverage(),
	}
}

// Renderer rasterizes Frames at a fixed cell size in pixels
type Renderer struct {
	cellSize float64
}

// NewRenderer returns a Renderer drawing cells of cellSize pixels
func NewRenderer(cellSize int) *Renderer {
	return &Renderer{cellSize: float64(cellSize)}
}

// Render draws a frame: Unknown cells dark grey, Empty cells white,
// Wall cells black, and the agent as a circle with a heading tick.
func (r *Renderer) Render(f Frame) image.Image {
	rows := len(f.Cells)
	cols := len(f.Cells[0])

	dc := gg.NewContext(int(float64(cols)*r.cellSize),
		int(float64(rows)*r.cellSize))

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			switch f.Cells[row][col] {
			case slam.Wall:
				dc.SetRGB(0.05, 0.05, 0.05)
			case slam.Empty:
				dc.SetRGB(1.0, 1.0, 1.0)
			default:
				dc.SetRGB(0.35, 0.35, 0.35)
			}
			dc.DrawRectangle(float64(col)*r.cellSize, float64(row)*r.cellSize,
				r.cellSize, r.cellSize)
			dc.Fill()
		}
	}

	// Agent body
	cx := (float64(f.Pose.Col) + 0.5) * r.cellSize
	cy := (float64(f.Pose.Row) + 0.5) * r.cellSize
	dc.SetRGB(0.85, 0.15, 0.15)
	dc.DrawCircle(cx, cy, r.cellSize*0.35)
	dc.Fill()

	// Heading tick
	dRow, dCol := f.Pose.Facing.Delta()
	dc.SetLineWidth(r.cellSize * 0.1)
	dc.DrawLine(cx, cy, cx+float64(dCol)*r.cellSize*0.45,
		cy+float64(dRow)*r.cellSize*0.45)
	dc.Stroke()

	return dc.Image()
}

// SavePNG renders a frame and writes it as a PNG at path
func (r *Renderer) SavePNG(f Frame, path string) error {
	return gg.SavePNG(path, r.Render(f))
}
