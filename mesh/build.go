package mesh

import (
	"sort"

	"github.com/pkg/errors"
)

// Build triangulates the given point ids (typically all ids in a phase of
// the store) via divide-and-conquer Delaunay construction, connecting them
// into the mesh's adjacency lists. ids is sorted in place. threads bounds
// the fork-join recursion's goroutine fan-out.
func (m *Mesh) Build(ids []int32, threads int) error {
	return m.triangulate(ids, true, threads)
}

func (m *Mesh) triangulate(ids []int32, horizontal bool, threads int) error {
	less := func(i, j int32) bool {
		pi, pj := m.store.At(i), m.store.At(j)
		if horizontal {
			if pi.X != pj.X {
				return pi.X < pj.X
			}
			return pi.Y < pj.Y
		}
		if pi.Y != pj.Y {
			return pi.Y < pj.Y
		}
		return pi.X > pj.X
	}
	sort.Slice(ids, func(i, j int) bool { return less(ids[i], ids[j]) })

	switch len(ids) {
	case 0, 1:
		return errors.New("not enough points to triangulate")
	case 2:
		m.connect(ids[1], ids[0])
		return nil
	case 3:
		if m.orientSign(ids[2], ids[1], ids[0]) != 0 {
			m.connect(ids[0], ids[2])
		}
		m.connect(ids[2], ids[1])
		m.connect(ids[1], ids[0])
		return nil
	default:
		mid := len(ids) / 2
		left, right := ids[:mid], ids[mid:]
		if threads > 1 {
			errs := make(chan error, 2)
			go func() {
				errs <- m.triangulate(left, !horizontal, threads/2)
			}()
			errRight := m.triangulate(right, !horizontal, threads-threads/2)
			errLeft := <-errs
			if errLeft != nil {
				return errLeft
			}
			if errRight != nil {
				return errRight
			}
		} else {
			if err := m.triangulate(left, !horizontal, 1); err != nil {
				return err
			}
			if err := m.triangulate(right, !horizontal, 1); err != nil {
				return err
			}
		}
		return m.merge(left, right)
	}
}

// merge stitches two already-triangulated point ranges together with the
// lower/upper common tangent + candidate zipper from Guibas-Stolfi.
func (m *Mesh) merge(left, right []int32) error {
	leftIt := m.exteriorClockwiseRange(left)
	rightIt := m.exteriorAnticlockwiseRange(right)

	for {
		tangent := Edge{From: leftIt.edge.From, To: rightIt.edge.From}
		if m.edgeVsPoint(tangent, rightIt.edge.To) < 0 {
			rightIt.advance()
		} else if m.edgeVsPoint(tangent, leftIt.edge.To) < 0 {
			leftIt.advance()
		} else {
			break
		}
	}
	leftIt.reverse()
	rightIt.reverse()

	var pairs []Edge
	for {
		leftPoint := leftIt.edge.To
		rightPoint := rightIt.edge.To
		pairs = append(pairs, Edge{From: leftPoint, To: rightPoint})

		leftCandidate, leftOK := m.findCandidate(leftIt, rightPoint, false)
		rightCandidate, rightOK := m.findCandidate(rightIt, leftPoint, true)

		switch {
		case leftOK && rightOK:
			if m.inCircleSign(leftPoint, rightPoint, rightCandidate, leftCandidate) > 0 {
				leftIt.advance()
			} else {
				rightIt.advance()
			}
		case leftOK:
			leftIt.advance()
		case rightOK:
			rightIt.advance()
		default:
			for _, pair := range pairs {
				m.connect(pair.From, pair.To)
			}
			return nil
		}
	}
}
