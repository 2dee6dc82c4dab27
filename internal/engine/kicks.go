package engine

// kickGroup classifies pieces for kick-table lookup, per spec.md §3: "one
// table for I, one for JLSTZ, O has no kicks".
type kickGroup int

const (
	groupJLSTZ kickGroup = iota
	groupI
	groupO
)

func groupOf(k Kind) kickGroup {
	switch k {
	case I:
		return groupI
	case O:
		return groupO
	default:
		return groupJLSTZ
	}
}

// transition keys a kick table by (from, to) rotation pair.
type transition struct {
	from, to Rotation
}

// jlstzKicks and iKicks are the standard SRS wall-kick offset sequences,
// tried in order until one yields a collision-free placement. Values are
// the well-known public-domain SRS kick table (Guideline SRS), not sourced
// from any file in the retrieval pack — the pack's example Tetris
// implementations (GITRIS-backend, and the other_examples single-file
// references) only ever implement a 1-or-2-offset ad hoc wall kick, never
// the full five-offset SRS table spec.md §3/§4.1 requires.
var jlstzKicks = map[transition][5]offset{
	{North, East}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{East, North}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	{East, South}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	{South, East}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{South, West}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{West, South}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{West, North}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{North, West}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
}

var iKicks = map[transition][5]offset{
	{North, East}: {{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
	{East, North}: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
	{East, South}: {{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
	{South, East}: {{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
	{South, West}: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
	{West, South}: {{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
	{West, North}: {{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
	{North, West}: {{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
}

// kickSequence returns, in try-order, the offsets a rotation from `from` to
// `to` should attempt for the given kind. The O piece never rotates
// visually, but it is still handled uniformly here (single zero offset).
func kickSequence(k Kind, from, to Rotation) [5]offset {
	switch groupOf(k) {
	case groupI:
		return iKicks[transition{from, to}]
	case groupO:
		return [5]offset{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}}
	default:
		return jlstzKicks[transition{from, to}]
	}
}
