package InputParameters

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/gocross/utils"
)

// Parameters obtained from the YAML input file
type CrossFieldParameters struct {
	Title               string  `yaml:"Title"`
	Iterations          int     `yaml:"Iterations"`
	Solver              string  `yaml:"Solver"` // GMRES or LU
	SolverTolerance     float64 `yaml:"SolverTolerance"`
	SolverRestart       int     `yaml:"SolverRestart"`
	SolverMaxIterations int     `yaml:"SolverMaxIterations"`
	ParallelDegree      int     `yaml:"ParallelDegree"` // 0 is one goroutine per CPU
	ViewName            string  `yaml:"ViewName"`
}

// NewCrossFieldParameters returns the defaults, a parsed file only overrides the keys it sets
func NewCrossFieldParameters() *CrossFieldParameters {
	g := utils.NewGMRES()
	return &CrossFieldParameters{
		Title:               "Cross Field",
		Iterations:          10,
		Solver:              "GMRES",
		SolverTolerance:     g.Tol,
		SolverRestart:       g.Restart,
		SolverMaxIterations: g.MaxIter,
		ViewName:            "crosses",
	}
}

func (cp *CrossFieldParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, cp); err != nil {
		return
	}
	return cp.Validate()
}

func (cp *CrossFieldParameters) ReadFile(filename string) (err error) {
	var data []byte
	if data, err = os.ReadFile(filename); err != nil {
		return
	}
	if err = cp.Parse(data); err != nil {
		err = fmt.Errorf("parameters file %s: %w", filename, err)
	}
	return
}

func (cp *CrossFieldParameters) Validate() (err error) {
	switch {
	case cp.Iterations < 1:
		err = fmt.Errorf("Iterations must be positive, have %d", cp.Iterations)
	case cp.ParallelDegree < 0:
		err = fmt.Errorf("ParallelDegree must not be negative, have %d", cp.ParallelDegree)
	case cp.SolverTolerance <= 0:
		err = fmt.Errorf("SolverTolerance must be positive, have %g", cp.SolverTolerance)
	}
	if err != nil {
		return
	}
	_, err = cp.LinearSolver()
	return
}

// LinearSolver builds the sparse solver named by Solver
func (cp *CrossFieldParameters) LinearSolver() (s utils.LinearSolver, err error) {
	switch strings.ToUpper(cp.Solver) {
	case "", "GMRES":
		s = &utils.GMRES{Tol: cp.SolverTolerance, Restart: cp.SolverRestart, MaxIter: cp.SolverMaxIterations}
	case "LU":
		s = utils.DenseLU{}
	default:
		err = fmt.Errorf("unknown Solver [%s], use GMRES or LU", cp.Solver)
	}
	return
}

func (cp *CrossFieldParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", cp.Title)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Iterations\n", cp.Iterations)
	fmt.Fprintf(w, "[%s]\t\t\t= Solver\n", cp.Solver)
	fmt.Fprintf(w, "%8.2e\t\t= Solver Tolerance\n", cp.SolverTolerance)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Solver Restart\n", cp.SolverRestart)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Solver Max Iterations\n", cp.SolverMaxIterations)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Parallel Degree\n", cp.ParallelDegree)
	fmt.Fprintf(w, "[%s]\t\t\t= View Name\n", cp.ViewName)
}
