package cluster

// Broadcast contributes value (ignored by every rank except root) at
// point and returns root's value to every caller, mirroring MPI_Bcast.
func (r *Rank) Broadcast(point *rendezvous, root int, value any) any {
	all := point.enter(r.ID, value)
	return all[root]
}

// Gather contributes value at point and returns the full, rank-ordered
// slice of every rank's contribution. Unlike MPI_Gather, every caller
// (not just root) receives the assembled slice here — cheap to provide
// given the rendezvous primitive's shape, and callers that only care
// about root's view simply ignore it on non-root ranks, matching the
// original's actual usage (only rank 0 ever reads the gathered slice).
func (r *Rank) Gather(point *rendezvous, value any) []any {
	return point.enter(r.ID, value)
}

// AllGather is Gather under a different name: every rank in this model
// already receives the full assembled slice, so an all-gather and a
// gather share an implementation. The distinction is kept at the call
// site (see allgather.go) because the original draws it too, via a
// custom variable-length all-gather absent from Boost MPI.
func (r *Rank) AllGather(point *rendezvous, value any) []any {
	return point.enter(r.ID, value)
}
