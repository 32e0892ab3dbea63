package lottery

import "math/big"

// NoneIndex is reported by Select when the catalog has no selectable entry.
const NoneIndex = -1

// Select maps a random value and a catalog snapshot to exactly one reward.
// The random value is reduced modulo the total weight and the entries are
// scanned in insertion order, each owning the half-open cumulative interval
// [sum of earlier weights, sum including its own weight). An empty snapshot
// or zero total weight yields the None sentinel.
//
// Select is a pure function: identical inputs always produce the identical
// entry and index.
func Select(random *big.Int, snap Snapshot) (RewardEntry, int) {
	none := RewardEntry{Kind: KindNone, UnitID: big.NewInt(0), Amount: big.NewInt(0)}
	if len(snap.Entries) == 0 || snap.TotalWeight == nil || snap.TotalWeight.Sign() <= 0 {
		return none, NoneIndex
	}
	r := new(big.Int)
	if random != nil {
		r.Mod(random, snap.TotalWeight)
	}
	running := new(big.Int)
	for i := range snap.Entries {
		running.Add(running, new(big.Int).SetUint64(snap.Entries[i].Weight))
		if r.Cmp(running) < 0 {
			return *snap.Entries[i].Clone(), i
		}
	}
	// Unreachable while the snapshot total equals the sum of entry weights:
	// r < totalWeight and the final running sum is totalWeight.
	last := len(snap.Entries) - 1
	return *snap.Entries[last].Clone(), last
}
