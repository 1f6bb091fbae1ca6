package slam

// Lidar simulates an 8-direction rangefinder over a ground-truth map.
// Each scan marches one ray per unit direction in {-1, 0, 1}^2 (the
// origin excluded) and records every traversed cell's true kind into a
// belief map.
//
// Diagonal rays advance one full diagonal cell per iteration; they do
// not trace the intermediate orthogonal cells a true line of sight
// would cross. This coarser sensor model is intentional and must be
// kept for behavioural compatibility.
type Lidar struct {
	grid *GridMap
}

// NewLidar returns a Lidar reading the argument ground-truth map
func NewLidar(grid *GridMap) *Lidar {
	return &Lidar{grid: grid}
}

// Scan casts the 8 rays from (row, col), updating belief in place and
// returning the number of newly discovered cells. Rays start one step
// away from the scan origin and terminate when they leave the grid
// (recording nothing for the off-grid cell) or after recording a wall,
// which occludes everything behind it. Scan always terminates: every
// ray ends at a wall or at the map boundary.
func (l *Lidar) Scan(belief *BeliefMap, row, col int) int {
	discovered := 0

	for dRow := -1; dRow <= 1; dRow++ {
		for dCol := -1; dCol <= 1; dCol++ {
			if dRow == 0 && dCol == 0 {
				continue
			}

			r, c := row, col
			for {
				r, c = r+dRow, c+dCol
				if !l.grid.InBounds(r, c) {
					break
				}

				truth := l.grid.At(r, c)
				if belief.Observe(r, c, truth) {
					discovered++
				}
				if truth == Wall {
					break
				}
			}
		}
	}

	return discovered
}
