package readfiles

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/gocross/mesh"
)

type gmshReader struct {
	*lineReader
	src     *mesh.MemSource
	skipped map[int]int // element type -> count of elements we do not know
}

/*
ReadGmsh22 reads an ASCII Gmsh 2.x mesh. Node tags are kept as vertex ids. Element types unknown to
the mesh model are skipped and reported in the skipped count, sections other than $MeshFormat,
$Nodes and $Elements are ignored.
*/
func ReadGmsh22(r io.Reader) (src *mesh.MemSource, skipped int, err error) {
	var (
		line                  string
		haveFormat, haveNodes bool
	)
	gr := &gmshReader{lineReader: newLineReader(r), src: &mesh.MemSource{}, skipped: make(map[int]int)}
	for {
		if line, err = gr.getLine(); err != nil {
			if gr.sc.Err() == nil && haveFormat {
				err = nil
				break
			}
			return
		}
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "$") {
			return nil, 0, gr.errorf("section header expected, have [%s]", line)
		}
		section := line[1:]
		switch section {
		case "MeshFormat":
			if err = gr.readFormat(); err != nil {
				return
			}
			haveFormat = true
		case "Nodes":
			if err = gr.readNodes(); err != nil {
				return
			}
			haveNodes = true
		case "Elements":
			if !haveNodes {
				return nil, 0, gr.errorf("$Elements before $Nodes")
			}
			if err = gr.readElements(); err != nil {
				return
			}
		default:
			if err = gr.skipSection(section); err != nil {
				return
			}
			continue
		}
		if err = gr.expect("$End" + section); err != nil {
			return
		}
		if !haveFormat {
			return nil, 0, gr.errorf("missing $MeshFormat")
		}
	}
	for _, n := range gr.skipped {
		skipped += n
	}
	src = gr.src
	return
}

func (gr *gmshReader) expect(want string) (err error) {
	var line string
	if line, err = gr.getLine(); err != nil {
		return
	}
	if line != want {
		err = gr.errorf("%s expected, have [%s]", want, line)
	}
	return
}

func (gr *gmshReader) skipSection(section string) (err error) {
	var line string
	for line != "$End"+section {
		if line, err = gr.getLine(); err != nil {
			return
		}
	}
	return
}

func (gr *gmshReader) readFormat() (err error) {
	var (
		line     string
		version  float64
		fileType int
	)
	if line, err = gr.getLine(); err != nil {
		return
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return gr.errorf("version, file-type and data-size expected, have [%s]", line)
	}
	if version, err = strconv.ParseFloat(fields[0], 64); err != nil || version < 2 || version >= 3 {
		return gr.errorf("unsupported mesh format version %s, only 2.x is read", fields[0])
	}
	if fileType, err = strconv.Atoi(fields[1]); err != nil || fileType != 0 {
		return gr.errorf("binary mesh files are not supported")
	}
	return
}

func (gr *gmshReader) count() (n int, err error) {
	var (
		line string
		vals []int
	)
	if line, err = gr.getLine(); err != nil {
		return
	}
	if vals, err = gr.ints(line); err != nil {
		return
	}
	if len(vals) != 1 || vals[0] < 0 {
		return 0, gr.errorf("count expected, have [%s]", line)
	}
	return vals[0], nil
}

func (gr *gmshReader) readNodes() (err error) {
	var (
		Nv   int
		line string
		xyz  []float64
		id   int
	)
	if Nv, err = gr.count(); err != nil {
		return
	}
	gr.src.NodeList = make([]mesh.Node, 0, Nv)
	for i := 0; i < Nv; i++ {
		if line, err = gr.getLine(); err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return gr.errorf("node tag and three coordinates expected, have [%s]", line)
		}
		if id, err = strconv.Atoi(fields[0]); err != nil {
			return gr.errorf("node tag expected, have [%s]", fields[0])
		}
		if xyz, err = gr.floats(strings.Join(fields[1:], " "), 3); err != nil {
			return
		}
		gr.src.NodeList = append(gr.src.NodeList, mesh.Node{ID: id, X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}
	return
}

// readElements reads lines of: number type ntags tag... node...
func (gr *gmshReader) readElements() (err error) {
	var (
		K    int
		line string
		vals []int
	)
	if K, err = gr.count(); err != nil {
		return
	}
	for k := 0; k < K; k++ {
		if line, err = gr.getLine(); err != nil {
			return
		}
		if vals, err = gr.ints(line); err != nil {
			return
		}
		if len(vals) < 3 || vals[2] < 0 || len(vals) < 3+vals[2] {
			return gr.errorf("element number, type and tags expected, have [%s]", line)
		}
		var (
			et    = mesh.ElementType(vals[1])
			np    = et.NodesPerElement()
			nodes = vals[3+vals[2]:]
		)
		if np == 0 {
			gr.skipped[vals[1]]++
			continue
		}
		if len(nodes) != np {
			return gr.errorf("%s needs %d nodes, have [%s]", et, np, line)
		}
		gr.src.AddElements(et, nodes...)
	}
	return
}

// errWriter keeps the first write failure so the formatted writes need no individual checks
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

func ff(f float64) string { return strconv.FormatFloat(f, 'g', 17, 64) }

// WriteGmsh22 writes the nodes and the elements of src as an ASCII Gmsh 2.2 mesh
func WriteGmsh22(w io.Writer, src mesh.Source) (err error) {
	var (
		nodes  []mesh.Node
		blocks []mesh.ElementBlock
		K      int
	)
	if nodes, err = src.Nodes(); err != nil {
		return
	}
	if blocks, err = src.Elements(); err != nil {
		return
	}
	for _, b := range blocks {
		if b.Type.NodesPerElement() == 0 || len(b.NodeIDs)%b.Type.NodesPerElement() != 0 {
			return fmt.Errorf("%w: %s block with %d node ids", mesh.ErrMalformedElements, b.Type, len(b.NodeIDs))
		}
		K += b.Len()
	}
	ew := &errWriter{w: w}
	fmt.Fprintf(ew, "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n")
	fmt.Fprintf(ew, "$Nodes\n%d\n", len(nodes))
	for _, n := range nodes {
		fmt.Fprintf(ew, "%d %s %s %s\n", n.ID, ff(n.X), ff(n.Y), ff(n.Z))
	}
	fmt.Fprintf(ew, "$EndNodes\n$Elements\n%d\n", K)
	k := 1
	for _, b := range blocks {
		np := b.Type.NodesPerElement()
		for j := 0; j < len(b.NodeIDs); j += np {
			fmt.Fprintf(ew, "%d %d 2 0 0", k, int(b.Type))
			for _, v := range b.NodeIDs[j : j+np] {
				fmt.Fprintf(ew, " %d", v)
			}
			fmt.Fprintf(ew, "\n")
			k++
		}
	}
	fmt.Fprintf(ew, "$EndElements\n")
	return ew.err
}
