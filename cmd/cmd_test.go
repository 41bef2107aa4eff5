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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestGenerateAndCompute(t *testing.T) {
	var (
		dir    = t.TempDir()
		msh    = filepath.Join(dir, "square.msh")
		svgF   = filepath.Join(dir, "crosses.svg")
		csvF   = filepath.Join(dir, "crosses.csv")
		angF   = filepath.Join(dir, "angles.yaml")
		params = filepath.Join(dir, "params.yaml")
	)
	_, _, err := run(t, "generate", "square", "-n", "3", "-o", msh)
	require.NoError(t, err)
	require.FileExists(t, msh)

	require.NoError(t, os.WriteFile(params, []byte("Title: square\nIterations: 4\nSolver: LU\n"), 0o644))
	out, logs, err := run(t, "compute", "-F", msh, "-I", params, "-v",
		"--svg", svgF, "--csv", csvF, "--angles", angF)
	require.NoError(t, err)
	// 3x3 split grid: 3*9 + 2*3 edges, 12 on the boundary
	assert.Contains(t, out, "33 edges, 12 fixed, 4 iterations")
	assert.Contains(t, logs, "\"square\"")
	assert.Contains(t, logs, "heat diffusion and projection loop")

	data, err := os.ReadFile(angF)
	require.NoError(t, err)
	var angles []EdgeAngle
	require.NoError(t, yaml.Unmarshal(data, &angles))
	assert.Len(t, angles, 33)
	for i := 1; i < len(angles); i++ {
		assert.True(t, angles[i-1].V1 <= angles[i].V1)
	}

	svg, err := os.ReadFile(svgF)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(svg), "<svg"))
	csv, err := os.ReadFile(csvF)
	require.NoError(t, err)
	assert.Contains(t, string(csv), "crosses_rep_planar")

	// flags override the parameters file
	out, _, err = run(t, "compute", "-F", msh, "-I", params, "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2 iterations")

	out, _, err = run(t, "info", "-F", msh)
	require.NoError(t, err)
	assert.Contains(t, out, "[33]\t\t\t\t= Edges")
	assert.Contains(t, out, "[12]\t\t\t\t= Boundary Edges")
	assert.Contains(t, out, "[0]\t\t\t\t= NonManifold Edges")
	assert.Contains(t, out, "[0]\t\t\t\t= Non Delaunay Edges")
}

func TestGenerateKinds(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []string{"delaunay", "sphere"} {
		fn := filepath.Join(dir, kind+".su2")
		_, _, err := run(t, "generate", kind, "-n", "20", "-o", fn)
		require.NoError(t, err, kind)
		out, _, err := run(t, "info", "-F", fn)
		require.NoError(t, err)
		assert.Contains(t, out, "= Triangles")
	}
	_, _, err := run(t, "generate", "torus", "-o", filepath.Join(dir, "t.msh"))
	assert.Error(t, err)
	_, _, err = run(t, "generate", "square")
	assert.Error(t, err)
}

func TestComputeErrors(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, "compute")
	assert.Error(t, err)
	_, _, err = run(t, "compute", "-F", filepath.Join(dir, "missing.msh"))
	assert.Error(t, err)
	_, _, err = run(t, "compute", "-F", filepath.Join(dir, "mesh.obj"))
	assert.Error(t, err)

	msh := filepath.Join(dir, "square.msh")
	_, _, err = run(t, "generate", "square", "-n", "2", "-o", msh)
	require.NoError(t, err)
	_, _, err = run(t, "compute", "-F", msh, "-n", "-1")
	assert.Error(t, err)
	_, _, err = run(t, "compute", "-F", msh, "--profile", "gpu")
	assert.Error(t, err)
	_, _, err = run(t, "compute", "-F", msh, "--config", filepath.Join(dir, "none.yaml"))
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	var (
		dir = t.TempDir()
		msh = filepath.Join(dir, "square.msh")
		cfg = filepath.Join(dir, "gocross.yaml")
	)
	_, _, err := run(t, "generate", "square", "-n", "2", "-o", msh)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg, []byte("iterations: 5\n"), 0o644))
	out, _, err := run(t, "compute", "-F", msh, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "5 iterations")

	t.Setenv("GOCROSS_ITERATIONS", "6")
	out, _, err = run(t, "compute", "-F", msh)
	require.NoError(t, err)
	assert.Contains(t, out, "6 iterations")
}
