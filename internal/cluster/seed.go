package cluster

import "time"

// rankSeed mixes a monotonic clock reading with the rank id so that
// ranks started in the same instant (the common case) still end up
// with distinct RNG streams, grounded on utils::get_random_seed.
// The original adds rank*42 to a clock tick count; this port XORs
// instead, sidestepping any question of how Go's int64 nanosecond
// clock value should wrap on overflow versus the original's clock type
// while preserving the same property the original cares about: distinct
// ranks reliably diverge.
func rankSeed(rank int) int64 {
	return time.Now().UnixNano() ^ int64(rank)*42
}
