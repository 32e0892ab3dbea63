package lottery

import (
	"math/big"
	"testing"
)

func weightedSnapshot(weights ...uint64) Snapshot {
	snap := Snapshot{TotalWeight: big.NewInt(0)}
	for i, w := range weights {
		snap.Entries = append(snap.Entries, RewardEntry{
			Kind:   KindFungible,
			Asset:  testAddress(byte(i + 1)),
			UnitID: big.NewInt(0),
			Amount: big.NewInt(int64(i)),
			Weight: w,
		})
		snap.TotalWeight.Add(snap.TotalWeight, new(big.Int).SetUint64(w))
	}
	return snap
}

func TestSelectCumulativeIntervals(t *testing.T) {
	snap := weightedSnapshot(50, 30, 20)
	cases := []struct {
		random int64
		index  int
	}{
		{0, 0},
		{49, 0},
		{50, 1},
		{79, 1},
		{80, 2},
		{99, 2},
		{100, 0},  // wraps modulo total weight
		{149, 0},
		{180, 2},
	}
	for _, tc := range cases {
		entry, index := Select(big.NewInt(tc.random), snap)
		if index != tc.index {
			t.Fatalf("random %d: expected entry %d, got %d", tc.random, tc.index, index)
		}
		if entry.Kind != KindFungible {
			t.Fatalf("random %d: unexpected kind %s", tc.random, entry.Kind)
		}
	}
}

func TestSelectIsPure(t *testing.T) {
	snap := weightedSnapshot(13, 7, 41, 2)
	for r := int64(0); r < 63; r++ {
		first, firstIndex := Select(big.NewInt(r), snap)
		second, secondIndex := Select(big.NewInt(r), snap)
		if firstIndex != secondIndex {
			t.Fatalf("random %d: indices diverged (%d vs %d)", r, firstIndex, secondIndex)
		}
		if first.Asset != second.Asset || first.Weight != second.Weight {
			t.Fatalf("random %d: entries diverged", r)
		}
	}
}

func TestSelectEmptyCatalogReturnsNone(t *testing.T) {
	for _, r := range []int64{0, 1, 42, 1 << 40} {
		entry, index := Select(big.NewInt(r), Snapshot{TotalWeight: big.NewInt(0)})
		if entry.Kind != KindNone || index != NoneIndex {
			t.Fatalf("random %d: expected none sentinel, got %s at %d", r, entry.Kind, index)
		}
	}
}

func TestSelectSingleEntryAnyRandom(t *testing.T) {
	snap := weightedSnapshot(100)
	for _, r := range []int64{0, 42, 99, 100, 1_000_003} {
		_, index := Select(big.NewInt(r), snap)
		if index != 0 {
			t.Fatalf("random %d: expected the only entry, got index %d", r, index)
		}
	}
}

func TestSelectLastBoundaryDoesNotOverflow(t *testing.T) {
	snap := weightedSnapshot(1, 1, 1)
	entry, index := Select(big.NewInt(2), snap)
	if index != 2 {
		t.Fatalf("expected last entry, got index %d", index)
	}
	if entry.Weight != 1 {
		t.Fatalf("unexpected entry weight %d", entry.Weight)
	}
}

func TestSelectNilRandomTreatedAsZero(t *testing.T) {
	snap := weightedSnapshot(5, 5)
	_, index := Select(nil, snap)
	if index != 0 {
		t.Fatalf("expected first entry for nil random, got %d", index)
	}
}

func TestSelectHugeRandomValue(t *testing.T) {
	snap := weightedSnapshot(50, 30, 20)
	random, ok := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	if !ok {
		t.Fatal("failed to build random value")
	}
	// 2^256-1 mod 100 = 35 -> first entry.
	_, index := Select(random, snap)
	if index != 0 {
		t.Fatalf("expected entry 0, got %d", index)
	}
}
