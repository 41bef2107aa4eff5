package crossfield

import (
	"context"
	"log/slog"

	"github.com/notargets/gocross/types"
	"github.com/notargets/gocross/utils"
)

const DefaultIterations = 10

type config struct {
	logger         *slog.Logger
	solver         utils.LinearSolver
	iterations     int
	parallelDegree int
	angleMap       map[types.EdgePair]float64
	viewName       string
	buildViews     bool
}

func defaultConfig() *config {
	return &config{
		logger:     newNopLogger(),
		solver:     utils.NewGMRES(),
		iterations: DefaultIterations,
		viewName:   "crosses",
		buildViews: true,
	}
}

type Option func(*config)

// WithLogger sets the logger used for progress and failure reports, nil silences it
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l == nil {
			l = newNopLogger()
		}
		c.logger = l
	}
}

func WithSolver(s utils.LinearSolver) Option {
	return func(c *config) {
		if s != nil {
			c.solver = s
		}
	}
}

// WithIterations sets the number of diffusion/projection steps, which must be positive
func WithIterations(n int) Option {
	return func(c *config) { c.iterations = n }
}

// WithParallelDegree bounds the goroutines used for stiffness assembly, 0 means one per CPU
func WithParallelDegree(np int) Option {
	return func(c *config) { c.parallelDegree = np }
}

// WithAngleMap also writes the edge angles into m
func WithAngleMap(m map[types.EdgePair]float64) Option {
	return func(c *config) { c.angleMap = m }
}

// WithViews controls creation of the cross views, name is the base view name
func WithViews(build bool, name string) Option {
	return func(c *config) {
		c.buildViews = build
		if name != "" {
			c.viewName = name
		}
	}
}

// nopHandler discards every record, Enabled reports false so no message is formatted
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }
