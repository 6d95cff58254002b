package cluster

import "github.com/sstanovnik-port/timetable-ga/internal/domain"

// TimetableRecord is one individual as it crosses the wire between
// ranks: a Timetable plus its precomputed fitness score, so a receiving
// rank never has to re-evaluate fitness for an individual it didn't
// produce itself.
type TimetableRecord struct {
	Timetable *domain.Timetable
	Score     float64
}

// AllGatherTimetables exchanges every rank's local slice of
// TimetableRecords and returns the concatenation in ascending rank
// order (rank 0's records first, then rank 1's, ...), grounded on
// custom_mpi.cpp's variable-length all-gather.
//
// The original needs a custom implementation here because Boost MPI's
// built-in all_gather only supports equal-sized chunks per rank, so it
// does N sequential broadcasts (rank i broadcasts its own slice as
// root i) and concatenates the results locally. This port's rendezvous
// primitive has no such equal-chunk restriction — every contribution is
// an opaque value of arbitrary length — so the N-broadcast loop
// collapses into the single exchange below. The externally observable
// behaviour (every rank ending up with the same ascending-rank-order
// concatenation) is unchanged; only the mechanics of getting there are
// simplified. For the same reason, the original's per-round padding of
// each rank's slice up to max_process_population (needed only to keep
// Boost MPI's fixed-size messages happy) has no counterpart here: there
// is nothing to pad, since variable-length contributions are the
// native case.
func (r *Rank) AllGatherTimetables(local []TimetableRecord) []TimetableRecord {
	contributions := r.AllGather(r.World.AllGather, local)

	total := 0
	for _, c := range contributions {
		total += len(c.([]TimetableRecord))
	}

	out := make([]TimetableRecord, 0, total)
	for _, c := range contributions {
		out = append(out, c.([]TimetableRecord)...)
	}
	return out
}
