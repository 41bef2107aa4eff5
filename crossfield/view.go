package crossfield

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocross/mesh"
)

// VectorPoint is a vector attached to a location
type VectorPoint struct {
	Position, Vector r3.Vec
}

// View is a named list of vectors at points, the exchange format for visualization
type View struct {
	Name   string
	Points []VectorPoint
}

func (v *View) Add(pos, vec r3.Vec) {
	v.Points = append(v.Points, VectorPoint{Position: pos, Vector: vec})
}

func (v *View) Len() int { return len(v.Points) }

// Data flattens the view into records of six values: x, y, z, vx, vy, vz
func (v *View) Data() (data []float64) {
	data = make([]float64, 0, 6*len(v.Points))
	for _, p := range v.Points {
		data = append(data,
			p.Position.X, p.Position.Y, p.Position.Z,
			p.Vector.X, p.Vector.Y, p.Vector.Z)
	}
	return
}

func (v *View) WriteCSV(w io.Writer) (err error) {
	var (
		cw = csv.NewWriter(w)
		ff = func(f float64) string { return strconv.FormatFloat(f, 'g', 17, 64) }
	)
	if err = cw.Write([]string{"view", "x", "y", "z", "vx", "vy", "vz"}); err != nil {
		return
	}
	for _, p := range v.Points {
		rec := []string{v.Name,
			ff(p.Position.X), ff(p.Position.Y), ff(p.Position.Z),
			ff(p.Vector.X), ff(p.Vector.Y), ff(p.Vector.Z)}
		if err = cw.Write(rec); err != nil {
			return
		}
	}
	cw.Flush()
	return cw.Error()
}

const (
	svgMeshStyle   = "fill:none;stroke:rgb(170,170,170);stroke-width:1"
	svgLineStyle   = "stroke:rgb(0,0,0);stroke-width:2"
	svgCrossStyle  = "stroke:rgb(200,0,0);stroke-width:1"
	svgBackground  = "fill:rgb(255,255,255)"
	svgCrossFactor = 0.3 // cross half length relative to the average edge length
)

// errWriter keeps the first write failure, the svg canvas does not report them
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (n int, err error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, ew.err = ew.w.Write(p)
	return n, ew.err
}

/*
RenderSVG draws the x/y projection of the triangles, the mesh lines and the crosses of view,
scaled to a canvas of the given width. Cross branches are drawn with a fixed length.
*/
func RenderSVG(w io.Writer, M *mesh.TriMesh, view *View, width int) (err error) {
	if len(M.Points) == 0 {
		return fmt.Errorf("%w: no points to render", ErrBadParameter)
	}
	if width < 16 {
		return fmt.Errorf("%w: svg width %d", ErrBadParameter, width)
	}
	var (
		xmin, ymin = math.Inf(1), math.Inf(1)
		xmax, ymax = math.Inf(-1), math.Inf(-1)
		ew         = &errWriter{w: w}
		canvas     = svg.New(ew)
		margin     = 10
	)
	for _, p := range M.Points {
		xmin, xmax = math.Min(xmin, p.X), math.Max(xmax, p.X)
		ymin, ymax = math.Min(ymin, p.Y), math.Max(ymax, p.Y)
	}
	span := math.Max(xmax-xmin, ymax-ymin)
	if span < EPS {
		span = 1
	}
	var (
		scale  = float64(width-2*margin) / span
		height = int(scale*(ymax-ymin)) + 2*margin
		toScr  = func(p r3.Vec) (int, int) { // y axis points down on screen
			return margin + int(math.Round((p.X-xmin)*scale)),
				height - margin - int(math.Round((p.Y-ymin)*scale))
		}
	)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, svgBackground)
	var (
		xs, ys  = make([]int, 3), make([]int, 3)
		edgeSum float64
	)
	for _, tri := range M.Triangles {
		for k, v := range tri {
			xs[k], ys[k] = toScr(M.Points[v])
		}
		canvas.Polygon(xs, ys, svgMeshStyle)
		edgeSum += M.EdgeLength(tri[0], tri[1]) + M.EdgeLength(tri[1], tri[2]) + M.EdgeLength(tri[2], tri[0])
	}
	for _, line := range M.Lines {
		x1, y1 := toScr(M.Points[line[0]])
		x2, y2 := toScr(M.Points[line[1]])
		canvas.Line(x1, y1, x2, y2, svgLineStyle)
	}
	if view != nil && len(M.Triangles) > 0 {
		half := svgCrossFactor * edgeSum / float64(3*len(M.Triangles))
		for _, vp := range view.Points {
			l := r3.Norm(vp.Vector)
			if l <= EPS {
				continue
			}
			d := r3.Scale(half/l, vp.Vector)
			x1, y1 := toScr(r3.Sub(vp.Position, d))
			x2, y2 := toScr(r3.Add(vp.Position, d))
			canvas.Line(x1, y1, x2, y2, svgCrossStyle)
		}
	}
	canvas.End()
	return ew.err
}
