package slam

import (
	"golang.org/x/exp/rand"

	env "github.com/samuelfneumann/goslam/environment"
	"gonum.org/v1/gonum/mat"
)

// RandomEmptyStarter samples the agent's start cell uniformly from the
// Empty cells of a ground-truth map. The default start rule, the first
// Empty cell in row-major order, makes episodes on a fixed map fully
// deterministic; this Starter trades that for varied starts while
// staying seedable and reproducible.
type RandomEmptyStarter struct {
	positions [][2]int
	seed      uint64
	rng       *rand.Rand
}

// NewRandomEmptyStarter returns a starter over the Empty cells of g.
// It fails with ErrNoStartPosition if g has no Empty cell.
func NewRandomEmptyStarter(g *GridMap, seed uint64) (env.Starter, error) {
	rows, cols := g.Dims()

	var positions [][2]int
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if g.At(row, col) == Empty {
				positions = append(positions, [2]int{row, col})
			}
		}
	}
	if len(positions) == 0 {
		return nil, ErrNoStartPosition
	}

	source := rand.NewSource(seed)
	return &RandomEmptyStarter{
		positions: positions,
		seed:      seed,
		rng:       rand.New(source),
	}, nil
}

// Start returns a (row, col) starting cell
func (r *RandomEmptyStarter) Start() *mat.VecDense {
	p := r.positions[r.rng.Intn(len(r.positions))]
	return mat.NewVecDense(2, []float64{float64(p[0]), float64(p[1])})
}
