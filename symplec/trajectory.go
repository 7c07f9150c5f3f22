package symplec

// Trajectory stores integration snapshots in a single contiguous buffer,
// one row per output time, each row holding the dim position components
// followed by the dim momentum components.
//
// The zero value is empty; use NewTrajectory to allocate storage. Row
// accessors return views into the buffer, so callers can read results
// without copying and can seed rows in place.
type Trajectory struct {
	dim int
	qp  []float64
}

// NewTrajectory allocates storage for nt snapshots of a dim-dimensional
// phase-space point.
func NewTrajectory(dim, nt int) *Trajectory {
	return &Trajectory{dim: dim, qp: make([]float64, 2*dim*nt)}
}

// Dim returns the phase-space dimension of each snapshot.
func (tr *Trajectory) Dim() int { return tr.dim }

// Len returns the number of snapshot rows.
func (tr *Trajectory) Len() int {
	if tr.dim == 0 {
		return 0
	}
	return len(tr.qp) / (2 * tr.dim)
}

// Q returns the position components of row i as a view into the buffer.
func (tr *Trajectory) Q(i int) []float64 {
	row := tr.qp[2*tr.dim*i:]
	return row[:tr.dim:tr.dim]
}

// P returns the momentum components of row i as a view into the buffer.
func (tr *Trajectory) P(i int) []float64 {
	row := tr.qp[2*tr.dim*i+tr.dim:]
	return row[:tr.dim:tr.dim]
}

// At returns the position and momentum views of row i.
func (tr *Trajectory) At(i int) (q, p []float64) {
	return tr.Q(i), tr.P(i)
}

// Head returns a view of the first n rows sharing the same buffer.
func (tr *Trajectory) Head(n int) *Trajectory {
	return &Trajectory{dim: tr.dim, qp: tr.qp[:2*tr.dim*n]}
}

func (tr *Trajectory) save(i int, q, p []float64) {
	copy(tr.Q(i), q)
	copy(tr.P(i), p)
}
