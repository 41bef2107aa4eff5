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

	"github.com/spf13/cobra"

	"github.com/notargets/gocross/mesh"
	"github.com/notargets/gocross/meshgen"
	"github.com/notargets/gocross/readfiles"
)

type GenerateRun struct {
	Kind    string
	N       int
	Size    float64
	Seed    uint64
	OutFile string
}

func newGenerateCmd(a *app) *cobra.Command {
	gr := &GenerateRun{}
	generateCmd := &cobra.Command{
		Use:   "generate square|delaunay|sphere",
		Short: "Generate a test mesh",
		Long: `
Writes a generated triangle mesh in the format given by the output file extension:
	square:   n x n grid of split squares with the boundary as lines
	delaunay: Delaunay triangulation of n random points inside a square, the hull as lines
	sphere:   closed unit sphere over n points

gocross generate square -n 8 -o square.msh`,
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{"square", "delaunay", "sphere"},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var src *mesh.MemSource
			gr.Kind = args[0]
			if src, err = gr.Generate(); err != nil {
				return
			}
			if gr.OutFile == "" {
				return fmt.Errorf("must supply an output file (-o, --out) with a .msh or .su2 extension")
			}
			if err = readfiles.WriteMeshFile(gr.OutFile, src); err != nil {
				return
			}
			a.logger.Info("mesh written", "kind", gr.Kind, "file", gr.OutFile, "nodes", len(src.NodeList))
			return
		},
	}
	f := generateCmd.Flags()
	f.IntVarP(&gr.N, "n", "n", 8, "cells per side for square, number of points for delaunay and sphere")
	f.Float64Var(&gr.Size, "size", 1, "side length of the square")
	f.Uint64Var(&gr.Seed, "seed", 1, "random seed of the delaunay point cloud")
	f.StringVarP(&gr.OutFile, "out", "o", "", "mesh file to write, .msh or .su2")
	return generateCmd
}

func (gr *GenerateRun) Generate() (src *mesh.MemSource, err error) {
	switch gr.Kind {
	case "square":
		return meshgen.Square(gr.N, gr.Size)
	case "delaunay":
		return meshgen.Delaunay(meshgen.RandomSquarePoints(gr.N, gr.Size, gr.Seed))
	case "sphere":
		return meshgen.Sphere(gr.N)
	}
	err = fmt.Errorf("unknown mesh kind [%s], use square, delaunay or sphere", gr.Kind)
	return
}
