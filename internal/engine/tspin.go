package engine

// frontCorners gives, for each rotation, the two corner offsets (relative
// to the T piece's 3x3 bounding-box origin) that sit on the side the T
// points toward — the corners that must both be filled for a T-spin to be
// classified as "Full" rather than "Mini" (spec.md §4.4).
//
// The T piece's local origin (X, Y) is the top-left of its 3x3 box, so the
// four corners of that box are (X,Y), (X+2,Y), (X,Y+2), (X+2,Y+2).
var frontCorners = [4][2]offset{
	North: {{0, 0}, {2, 0}}, // T points up: top-left, top-right
	East:  {{2, 0}, {2, 2}}, // T points right: top-right, bottom-right
	South: {{0, 2}, {2, 2}}, // T points down: bottom-left, bottom-right
	West:  {{0, 0}, {0, 2}}, // T points left: top-left, bottom-left
}

var backCorners = [4][2]offset{
	North: {{0, 2}, {2, 2}},
	East:  {{0, 0}, {0, 2}},
	South: {{0, 0}, {2, 0}},
	West:  {{2, 0}, {2, 2}},
}

// DetectTSpin evaluates the T-spin classification for a T piece that just
// locked, given that lastActionWasRotation is already known to be true
// (spec.md §4.4: evaluated "only if the piece kind is T and the last
// successful action was a rotation"). p.X/p.Y here are the piece's
// placement at lock time; they define the 3x3 bounding box corners.
//
// Grounded on spec.md §4.4's corner-counting rule directly: no repo in the
// retrieval pack implements T-spin detection (GITRIS-backend's rotation
// logic is a bare collision-or-revert check with no corner analysis), so
// this is built from the specification's own description rather than an
// adapted example.
func DetectTSpin(b *Board, p ActivePiece) TSpinKind {
	if p.Kind != T {
		return TSpinNone
	}

	filled := 0
	var frontFilled [2]bool
	front := frontCorners[p.Rotation]
	back := backCorners[p.Rotation]

	for i, c := range front {
		if b.IsFilled(p.X+c.dx, p.Y+c.dy) {
			filled++
			frontFilled[i] = true
		}
	}
	for _, c := range back {
		if b.IsFilled(p.X+c.dx, p.Y+c.dy) {
			filled++
		}
	}

	if filled < 3 {
		return TSpinNone
	}
	if frontFilled[0] && frontFilled[1] {
		return TSpinFull
	}
	return TSpinMini
}
