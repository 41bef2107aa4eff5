package readfiles

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/gocross/mesh"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
	ELType_Tetrahedral   SU2ElementType = 10
)

func (et SU2ElementType) meshType() (mt mesh.ElementType, ok bool) {
	switch et {
	case ELType_LINE:
		return mesh.ElementLine, true
	case ELType_Triangle:
		return mesh.ElementTriangle, true
	case ELType_Quadrilateral:
		return mesh.ElementQuad, true
	case ELType_Tetrahedral:
		return mesh.ElementTet, true
	}
	return
}

// Marker is a named group of boundary elements
type Marker struct {
	Tag      string
	Elements int
}

type su2Reader struct {
	*lineReader
	dim int
	src *mesh.MemSource
}

/*
ReadSU2 reads an ASCII SU2 mesh. Vertex ids are zero based. Marker elements are added to the element
blocks, so marker lines of a 2D mesh become the boundary lines of the cross field.
*/
func ReadSU2(r io.Reader) (src *mesh.MemSource, markers []Marker, err error) {
	sr := &su2Reader{lineReader: newLineReader(r), src: &mesh.MemSource{}}
	for {
		var (
			line       string
			key, value string
		)
		if line, err = sr.getLineNoComments("%"); err != nil {
			if sr.sc.Err() == nil && sr.dim != 0 { // clean end of file
				err = nil
				break
			}
			return
		}
		if key, value, err = sr.keyValue(line); err != nil {
			return
		}
		var num int
		if key != "MARKER_TAG" {
			if num, err = sr.number(value); err != nil {
				return
			}
		}
		switch key {
		case "NDIME":
			if num != 2 && num != 3 {
				return nil, nil, sr.errorf("dimension %d", num)
			}
			sr.dim = num
		case "NELEM":
			if err = sr.readElements(num); err != nil {
				return
			}
		case "NPOIN":
			if err = sr.readVertices(num); err != nil {
				return
			}
		case "NMARK":
			// the marker count is informational, markers are read by their tags
		case "MARKER_TAG":
			markers = append(markers, Marker{Tag: value})
		case "MARKER_ELEMS":
			if len(markers) == 0 {
				return nil, nil, sr.errorf("MARKER_ELEMS before MARKER_TAG")
			}
			markers[len(markers)-1].Elements = num
			if err = sr.readElements(num); err != nil {
				return
			}
		default:
			return nil, nil, sr.errorf("unknown keyword %s", key)
		}
	}
	src = sr.src
	return
}

func (sr *su2Reader) keyValue(line string) (key, value string, err error) {
	ind := strings.Index(line, "=")
	if ind < 0 {
		err = sr.errorf("badly formed input line [%s], should have an =", line)
		return
	}
	key, value = strings.TrimSpace(line[:ind]), strings.TrimSpace(line[ind+1:])
	return
}

// number reads the first field of value, NPOIN may carry a second count
func (sr *su2Reader) number(value string) (num int, err error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		err = sr.errorf("unable to read number from token: [%s]", value)
		return
	}
	if num, err = strconv.Atoi(fields[0]); err != nil || num < 0 {
		err = sr.errorf("unable to read number from token: [%s]", value)
	}
	return
}

func (sr *su2Reader) readElements(K int) (err error) {
	var (
		line string
		vals []int
	)
	for k := 0; k < K; k++ {
		if line, err = sr.getLine(); err != nil {
			return
		}
		if vals, err = sr.ints(line); err != nil {
			return
		}
		if len(vals) == 0 {
			return sr.errorf("empty element line")
		}
		et, ok := SU2ElementType(vals[0]).meshType()
		if !ok {
			return sr.errorf("unable to deal with SU2 element type %d", vals[0])
		}
		np := et.NodesPerElement()
		if len(vals) < np+1 {
			return sr.errorf("%s needs %d vertices, have [%s]", et, np, line)
		}
		sr.src.AddElements(et, vals[1:np+1]...)
	}
	return
}

func (sr *su2Reader) readVertices(Nv int) (err error) {
	var (
		line   string
		coords []float64
	)
	if sr.dim == 0 {
		return sr.errorf("NPOIN before NDIME")
	}
	sr.src.NodeList = make([]mesh.Node, 0, Nv)
	for i := 0; i < Nv; i++ {
		if line, err = sr.getLine(); err != nil {
			return
		}
		if coords, err = sr.floats(line, sr.dim); err != nil {
			return
		}
		n := mesh.Node{ID: i, X: coords[0], Y: coords[1]}
		if sr.dim == 3 {
			n.Z = coords[2]
		}
		sr.src.NodeList = append(sr.src.NodeList, n)
	}
	return
}

// WriteSU2 writes the points, triangles as elements, and the lines in a single "boundary" marker
func WriteSU2(w io.Writer, src mesh.Source) (err error) {
	var (
		M *mesh.TriMesh
	)
	if M, err = mesh.Import(src); err != nil {
		return
	}
	ew := &errWriter{w: w}
	fmt.Fprintf(ew, "NDIME= 3\n")
	fmt.Fprintf(ew, "NELEM= %d\n", len(M.Triangles))
	for k, tri := range M.Triangles {
		fmt.Fprintf(ew, "%d %d %d %d %d\n", ELType_Triangle, tri[0], tri[1], tri[2], k)
	}
	fmt.Fprintf(ew, "NPOIN= %d\n", len(M.Points))
	for i, p := range M.Points {
		fmt.Fprintf(ew, "%s %s %s %d\n", ff(p.X), ff(p.Y), ff(p.Z), i)
	}
	if len(M.Lines) == 0 {
		fmt.Fprintf(ew, "NMARK= 0\n")
		return ew.err
	}
	fmt.Fprintf(ew, "NMARK= 1\nMARKER_TAG= boundary\nMARKER_ELEMS= %d\n", len(M.Lines))
	for _, l := range M.Lines {
		fmt.Fprintf(ew, "%d %d %d\n", ELType_LINE, l[0], l[1])
	}
	return ew.err
}
