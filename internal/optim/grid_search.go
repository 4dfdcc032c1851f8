package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/pulleysim/internal/sim"
)

var ErrNoRuns = errors.New("optim: no successful runs")

// GridSearch runs one simulation per point of the cartesian product of
// the parameter ranges.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Limit caps concurrent runs; 0 means unbounded.
	Limit int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Result *sim.Result
}

// Points returns every grid point, the last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil
	}
	var out []map[string]float64
	g.expand(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) expand(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		p := make(map[string]float64, len(current))
		for k, v := range current {
			p[k] = v
		}
		*out = append(*out, p)
		return
	}
	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		g.expand(depth+1, current, out)
	}
	delete(current, name)
}

// Run builds a job for every grid point and runs them in parallel. Results
// keep grid order.
func (g *GridSearch) Run(ctx context.Context, build func(params map[string]float64) (sim.Job, error)) ([]Point, error) {
	points := g.Points()
	jobs := make([]sim.Job, len(points))
	for i, p := range points {
		job, err := build(p)
		if err != nil {
			return nil, fmt.Errorf("grid point %v: %w", p, err)
		}
		jobs[i] = job
	}

	results, err := sim.RunBatch(ctx, jobs, g.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]Point, len(points))
	for i := range points {
		out[i] = Point{Params: points[i], Result: results[i]}
	}
	return out, nil
}

// Search returns the grid point minimising the named metric.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (sim.Job, error),
	metricName string,
) (map[string]float64, float64, error) {
	points, err := g.Run(ctx, build)
	if err != nil {
		return nil, 0, err
	}
	best, ok := Best(points, metricName)
	if !ok {
		return nil, math.Inf(1), ErrNoRuns
	}
	return best.Params, best.Result.Metrics[metricName], nil
}

// Best returns the point with the smallest value of the named metric.
// Points whose result lacks the metric are skipped.
func Best(points []Point, metricName string) (Point, bool) {
	var best Point
	bestVal := math.Inf(1)
	found := false
	for _, p := range points {
		if p.Result == nil {
			continue
		}
		v, ok := p.Result.Metrics[metricName]
		if !ok || !(v < bestVal) {
			continue
		}
		best, bestVal, found = p, v, true
	}
	return best, found
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
