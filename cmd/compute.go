/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"

	"github.com/notargets/gocross/InputParameters"
	"github.com/notargets/gocross/crossfield"
	"github.com/notargets/gocross/mesh"
	"github.com/notargets/gocross/readfiles"
	"github.com/notargets/gocross/types"
	"github.com/notargets/gocross/utils"
)

type ComputeRun struct {
	MeshFile   string
	ParamsFile string
	SVGFile    string
	CSVFile    string
	AnglesFile string
	SVGWidth   int
}

// EdgeAngle is one record of the angle file, the cross angle of edge v1-v2 in radians
type EdgeAngle struct {
	V1    int     `json:"v1"`
	V2    int     `json:"v2"`
	Theta float64 `json:"theta"`
}

func newComputeCmd(a *app) *cobra.Command {
	cr := &ComputeRun{}
	computeCmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the cross field of a mesh file",
		Long: `
Reads a Gmsh 2.2 (.msh) or SU2 (.su2) mesh, computes the cross field on its edges and writes the
requested outputs. Boundary edges and mesh lines hold fixed crosses aligned with the edge.

gocross compute -F mesh.msh -I params.yaml --svg crosses.svg --angles angles.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var cp *InputParameters.CrossFieldParameters
			if cp, err = a.parameters(cr); err != nil {
				return
			}
			return a.runCompute(cmd, cr, cp)
		},
	}
	f := computeCmd.Flags()
	f.StringVarP(&cr.MeshFile, "meshFile", "F", "", "mesh file to read in Gmsh 2.2 (.msh) or SU2 (.su2) format")
	f.StringVarP(&cr.ParamsFile, "inputParametersFile", "I", "", "YAML file for parameters like:\n\t- Iterations\n\t- Solver (GMRES or LU)")
	f.StringVar(&cr.SVGFile, "svg", "", "write the mesh and the crosses as an SVG drawing")
	f.IntVar(&cr.SVGWidth, "svgWidth", 1000, "width in pixels of the SVG drawing")
	f.StringVar(&cr.CSVFile, "csv", "", "write the views as CSV records")
	f.StringVar(&cr.AnglesFile, "angles", "", "write the edge angles as YAML")
	f.IntP("iterations", "n", 0, "number of diffusion steps, overrides the parameters file")
	f.IntP("parallel", "p", 0, "goroutines used for assembly, overrides the parameters file")
	_ = a.v.BindPFlag("iterations", f.Lookup("iterations"))
	_ = a.v.BindPFlag("parallel", f.Lookup("parallel"))
	return computeCmd
}

// parameters merges the defaults, the parameters file and the flags, config and environment, in that order
func (a *app) parameters(cr *ComputeRun) (cp *InputParameters.CrossFieldParameters, err error) {
	cp = InputParameters.NewCrossFieldParameters()
	if cr.ParamsFile != "" {
		if err = cp.ReadFile(cr.ParamsFile); err != nil {
			return
		}
	}
	if a.v.IsSet("iterations") {
		cp.Iterations = a.v.GetInt("iterations")
	}
	if a.v.IsSet("parallel") {
		cp.ParallelDegree = a.v.GetInt("parallel")
	}
	err = cp.Validate()
	return
}

func (a *app) runCompute(cmd *cobra.Command, cr *ComputeRun, cp *InputParameters.CrossFieldParameters) (err error) {
	var (
		src *mesh.MemSource
		res *crossfield.Result
		ls  utils.LinearSolver
	)
	if cr.MeshFile == "" {
		return fmt.Errorf("must supply a mesh file (-F, --meshFile) in .msh (Gmsh 2.2) or .su2 format")
	}
	if a.v.GetBool("verbose") {
		cp.Print(cmd.ErrOrStderr())
	}
	if src, err = readfiles.ReadMeshFile(cr.MeshFile); err != nil {
		return
	}
	if ls, err = cp.LinearSolver(); err != nil {
		return
	}
	res, err = crossfield.Compute(commandContext(cmd), src,
		crossfield.WithLogger(a.logger),
		crossfield.WithSolver(ls),
		crossfield.WithIterations(cp.Iterations),
		crossfield.WithParallelDegree(cp.ParallelDegree),
		crossfield.WithViews(cr.SVGFile != "" || cr.CSVFile != "", cp.ViewName))
	if err != nil {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d edges, %d fixed, %d iterations\n",
		res.Adjacency.NumEdges(), countTrue(res.Dirichlet), res.Iterations)

	if cr.SVGFile != "" {
		if err = writeFile(cr.SVGFile, func(f *os.File) error {
			return crossfield.RenderSVG(f, res.Mesh, res.Views[0], cr.SVGWidth)
		}); err != nil {
			return
		}
	}
	if cr.CSVFile != "" {
		if err = writeFile(cr.CSVFile, func(f *os.File) error {
			for _, v := range res.Views {
				if err := v.WriteCSV(f); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return
		}
	}
	if cr.AnglesFile != "" {
		var data []byte
		if data, err = yaml.Marshal(SortedAngles(res.EdgeAngles)); err != nil {
			return
		}
		if err = os.WriteFile(cr.AnglesFile, data, 0o644); err != nil {
			return
		}
	}
	return
}

// SortedAngles orders the angle map by edge
func SortedAngles(angles map[types.EdgePair]float64) (list []EdgeAngle) {
	list = make([]EdgeAngle, 0, len(angles))
	for k, v := range angles {
		list = append(list, EdgeAngle{V1: k[0], V2: k[1], Theta: v})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].V1 < list[j].V1 || (list[i].V1 == list[j].V1 && list[i].V2 < list[j].V2)
	})
	return
}

func writeFile(filename string, write func(f *os.File) error) (err error) {
	var f *os.File
	if f, err = os.Create(filename); err != nil {
		return
	}
	err = write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		err = fmt.Errorf("writing %s: %w", filename, err)
	}
	return
}

func countTrue(b []bool) (n int) {
	for _, v := range b {
		if v {
			n++
		}
	}
	return
}
