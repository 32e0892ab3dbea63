package lottery

import (
	"errors"
	"math/big"
	"testing"

	"prizevault/state"
	"prizevault/storage"
)

func newTestStore() *state.Manager {
	return state.NewManager(storage.NewMemDB())
}

func testAddress(fill byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = fill
	}
	return addr
}

func fungibleEntry(amount int64, weight uint64) *RewardEntry {
	return &RewardEntry{
		Kind:   KindFungible,
		Asset:  testAddress(0xA1),
		Amount: big.NewInt(amount),
		Weight: weight,
	}
}

func TestCatalogTotalWeightTracksAppends(t *testing.T) {
	catalog, err := NewCatalog(newTestStore())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	weights := []uint64{50, 30, 20, 7, 1}
	expected := big.NewInt(0)
	for i, w := range weights {
		index, err := catalog.Append(fungibleEntry(10, w))
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if index != uint64(i) {
			t.Fatalf("expected index %d, got %d", i, index)
		}
		expected.Add(expected, new(big.Int).SetUint64(w))
		if catalog.TotalWeight().Cmp(expected) != 0 {
			t.Fatalf("after append %d: expected total %s, got %s", i, expected, catalog.TotalWeight())
		}
	}
	if catalog.Len() != len(weights) {
		t.Fatalf("expected %d entries, got %d", len(weights), catalog.Len())
	}
}

func TestCatalogRejectsZeroWeight(t *testing.T) {
	catalog, err := NewCatalog(newTestStore())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if _, err := catalog.Append(fungibleEntry(10, 0)); !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got %v", err)
	}
	if catalog.Len() != 0 {
		t.Fatalf("rejected entry must not be stored")
	}
	if catalog.TotalWeight().Sign() != 0 {
		t.Fatalf("total weight must stay zero")
	}
}

func TestCatalogRejectsInvalidKind(t *testing.T) {
	catalog, err := NewCatalog(newTestStore())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	entry := &RewardEntry{Kind: KindNone, Weight: 5}
	if _, err := catalog.Append(entry); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestCatalogReloadsFromStore(t *testing.T) {
	store := newTestStore()
	catalog, err := NewCatalog(store)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	unique := &RewardEntry{Kind: KindNonFungible, Asset: testAddress(0xB2), UnitID: big.NewInt(7), Weight: 3}
	if _, err := catalog.Append(fungibleEntry(25, 50)); err != nil {
		t.Fatalf("append fungible: %v", err)
	}
	if _, err := catalog.Append(unique); err != nil {
		t.Fatalf("append unique: %v", err)
	}

	reloaded, err := NewCatalog(store)
	if err != nil {
		t.Fatalf("reload catalog: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 entries after reload, got %d", reloaded.Len())
	}
	if reloaded.TotalWeight().Cmp(big.NewInt(53)) != 0 {
		t.Fatalf("expected total 53 after reload, got %s", reloaded.TotalWeight())
	}
	snap := reloaded.Snapshot()
	if snap.Entries[1].Kind != KindNonFungible || snap.Entries[1].UnitID.Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("unique entry not restored: %+v", snap.Entries[1])
	}
}

func TestCatalogSnapshotIsDetached(t *testing.T) {
	catalog, err := NewCatalog(newTestStore())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if _, err := catalog.Append(fungibleEntry(10, 100)); err != nil {
		t.Fatalf("append: %v", err)
	}
	snap := catalog.Snapshot()
	snap.Entries[0].Amount.SetInt64(999)
	snap.TotalWeight.SetInt64(0)
	if catalog.TotalWeight().Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("snapshot mutation leaked into catalog total")
	}
	fresh := catalog.Snapshot()
	if fresh.Entries[0].Amount.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("snapshot mutation leaked into catalog entry")
	}
}
