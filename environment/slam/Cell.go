package slam

// Cell is the map legend shared by the ground-truth grid and the
// belief map. A GridMap holds only Empty and Wall cells; a BeliefMap
// additionally holds Unknown for cells the agent has not discovered
// yet. The numeric values are part of the observation encoding and
// must not change.
type Cell int

const (
	Unknown Cell = iota - 1 // -1
	Empty                   // 0
	Wall                    // 1
)

func (c Cell) String() string {
	switch c {
	case Unknown:
		return "Unknown"
	case Empty:
		return "Empty"
	case Wall:
		return "Wall"
	default:
		return "InvalidCell"
	}
}
