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
	"io"

	"github.com/spf13/cobra"

	"github.com/notargets/gocross/crossfield"
	"github.com/notargets/gocross/mesh"
	"github.com/notargets/gocross/meshgen"
	"github.com/notargets/gocross/readfiles"
	"github.com/notargets/gocross/types"
)

func newInfoCmd(a *app) *cobra.Command {
	var meshFile string
	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Print the size and edge classification of a mesh file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var (
				src *mesh.MemSource
				M   *mesh.TriMesh
			)
			if meshFile == "" {
				return fmt.Errorf("must supply a mesh file (-F, --meshFile) in .msh (Gmsh 2.2) or .su2 format")
			}
			if src, err = readfiles.ReadMeshFile(meshFile); err != nil {
				return
			}
			if M, err = mesh.Import(src); err != nil {
				return
			}
			a.logger.Info("mesh imported", "file", meshFile)
			return PrintMeshInfo(cmd.OutOrStdout(), M)
		},
	}
	infoCmd.Flags().StringVarP(&meshFile, "meshFile", "F", "", "mesh file to read in Gmsh 2.2 (.msh) or SU2 (.su2) format")
	return infoCmd
}

func PrintMeshInfo(w io.Writer, M *mesh.TriMesh) (err error) {
	var (
		adj    *crossfield.Adjacency
		counts = make(map[types.EdgeClass]int)
	)
	if adj, err = crossfield.ComputeAdjacencies(M.Triangles); err != nil {
		return
	}
	for e := 0; e < adj.NumEdges(); e++ {
		counts[types.ClassifyEdge(adj.Occurrences(e))]++
	}
	emin, emax, eavg := crossfield.EdgeLengthStats(M, adj)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Points\n", len(M.Points))
	fmt.Fprintf(w, "[%d]\t\t\t\t= Lines\n", len(M.Lines))
	fmt.Fprintf(w, "[%d]\t\t\t\t= Triangles\n", len(M.Triangles))
	fmt.Fprintf(w, "[%d]\t\t\t\t= Edges\n", adj.NumEdges())
	for _, c := range []types.EdgeClass{types.EdgeBoundary, types.EdgeRegular, types.EdgeNonManifold} {
		fmt.Fprintf(w, "[%d]\t\t\t\t= %s Edges\n", counts[c], c)
	}
	fmt.Fprintf(w, "%8.5f\t\t= Min Edge Length\n", emin)
	fmt.Fprintf(w, "%8.5f\t\t= Avg Edge Length\n", eavg)
	fmt.Fprintf(w, "%8.5f\t\t= Max Edge Length\n", emax)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Non Delaunay Edges (x/y plane)\n", meshgen.NonDelaunayEdges(M))
	return
}
