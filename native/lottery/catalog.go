package lottery

import (
	"fmt"
	"math/big"
)

var (
	catalogCountKey    = []byte("lottery/catalog/count")
	catalogEntryPrefix = []byte("lottery/catalog/entry/")
)

type storedRewardEntry struct {
	Kind   uint8
	Asset  [20]byte
	UnitID *big.Int
	Amount *big.Int
	Weight uint64
}

func toStoredEntry(e *RewardEntry) *storedRewardEntry {
	clone := e.Clone()
	return &storedRewardEntry{
		Kind:   uint8(clone.Kind),
		Asset:  clone.Asset,
		UnitID: clone.UnitID,
		Amount: clone.Amount,
		Weight: clone.Weight,
	}
}

func fromStoredEntry(s *storedRewardEntry) *RewardEntry {
	entry := &RewardEntry{
		Kind:   RewardKind(s.Kind),
		Asset:  s.Asset,
		Weight: s.Weight,
	}
	if s.UnitID != nil {
		entry.UnitID = new(big.Int).Set(s.UnitID)
	} else {
		entry.UnitID = big.NewInt(0)
	}
	if s.Amount != nil {
		entry.Amount = new(big.Int).Set(s.Amount)
	} else {
		entry.Amount = big.NewInt(0)
	}
	return entry
}

func catalogEntryKey(index uint64) []byte {
	return append(append([]byte(nil), catalogEntryPrefix...), []byte(fmt.Sprintf("%d", index))...)
}

// Catalog owns the ordered, append-only sequence of reward entries and their
// running total weight. Entries persist through the key-value store so the
// catalog survives a restart; the total is rebuilt once at load time and
// maintained incrementally afterwards.
type Catalog struct {
	store       Storage
	entries     []RewardEntry
	totalWeight *big.Int
}

// NewCatalog loads any persisted entries from the store and rebuilds the
// running weight total.
func NewCatalog(store Storage) (*Catalog, error) {
	if store == nil {
		return nil, fmt.Errorf("lottery: catalog store not configured")
	}
	c := &Catalog{store: store, totalWeight: big.NewInt(0)}
	var count uint64
	ok, err := store.KVGet(catalogCountKey, &count)
	if err != nil {
		return nil, err
	}
	if !ok {
		return c, nil
	}
	c.entries = make([]RewardEntry, 0, count)
	for i := uint64(0); i < count; i++ {
		var stored storedRewardEntry
		ok, err := store.KVGet(catalogEntryKey(i), &stored)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("lottery: catalog entry %d missing", i)
		}
		entry := fromStoredEntry(&stored)
		c.entries = append(c.entries, *entry)
		c.totalWeight.Add(c.totalWeight, new(big.Int).SetUint64(entry.Weight))
	}
	return c, nil
}

// Append sanitises the entry, persists it at the next index and updates the
// running total weight. It returns the index the entry was stored at.
func (c *Catalog) Append(entry *RewardEntry) (uint64, error) {
	if c == nil || c.store == nil {
		return 0, fmt.Errorf("lottery: catalog not initialised")
	}
	sanitized, err := SanitizeEntry(entry)
	if err != nil {
		return 0, err
	}
	index := uint64(len(c.entries))
	if err := c.store.KVPut(catalogEntryKey(index), toStoredEntry(sanitized)); err != nil {
		return 0, err
	}
	if err := c.store.KVPut(catalogCountKey, index+1); err != nil {
		return 0, err
	}
	c.entries = append(c.entries, *sanitized)
	c.totalWeight.Add(c.totalWeight, new(big.Int).SetUint64(sanitized.Weight))
	return index, nil
}

// Len returns the number of stored entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// TotalWeight returns a copy of the running weight total.
func (c *Catalog) TotalWeight() *big.Int {
	if c == nil || c.totalWeight == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(c.totalWeight)
}

// Snapshot captures the entry sequence and total weight as seen at call time.
// Selection consumes the snapshot so a concurrent append cannot shift the
// cumulative intervals mid-scan.
func (c *Catalog) Snapshot() Snapshot {
	snap := Snapshot{TotalWeight: c.TotalWeight()}
	if c == nil {
		return snap
	}
	snap.Entries = make([]RewardEntry, 0, len(c.entries))
	for i := range c.entries {
		snap.Entries = append(snap.Entries, *c.entries[i].Clone())
	}
	return snap
}

// Snapshot is an immutable view of the catalog used by the selection engine.
type Snapshot struct {
	Entries     []RewardEntry
	TotalWeight *big.Int
}
