package lottery

import "math/big"

// RewardKind tags the transfer convention used when a reward entry is paid
// out. None is the sentinel returned by selection over an empty catalog.
type RewardKind uint8

const (
	KindNone RewardKind = iota
	KindFungible
	KindNonFungible
	KindSemiFungible
)

// Valid reports whether the kind value is within the supported range.
func (k RewardKind) Valid() bool {
	switch k {
	case KindNone, KindFungible, KindNonFungible, KindSemiFungible:
		return true
	default:
		return false
	}
}

func (k RewardKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFungible:
		return "fungible"
	case KindNonFungible:
		return "nonfungible"
	case KindSemiFungible:
		return "semifungible"
	default:
		return "unknown"
	}
}

// RewardEntry describes one disbursable reward. UnitID is meaningful for
// NonFungible and SemiFungible kinds, Amount for Fungible and SemiFungible.
// Entries are append-only: once stored, neither the asset nor the weight is
// ever edited in place.
type RewardEntry struct {
	Kind   RewardKind
	Asset  [20]byte
	UnitID *big.Int
	Amount *big.Int
	Weight uint64
}

// Clone returns a deep copy so callers can safely mutate the copy without
// affecting the stored instance.
func (e *RewardEntry) Clone() *RewardEntry {
	if e == nil {
		return nil
	}
	clone := *e
	if e.UnitID != nil {
		clone.UnitID = new(big.Int).Set(e.UnitID)
	} else {
		clone.UnitID = big.NewInt(0)
	}
	if e.Amount != nil {
		clone.Amount = new(big.Int).Set(e.Amount)
	} else {
		clone.Amount = big.NewInt(0)
	}
	return &clone
}

// SanitizeEntry validates and normalises a reward entry, returning a cloned
// instance with non-nil numeric fields. The original value is not mutated.
func SanitizeEntry(e *RewardEntry) (*RewardEntry, error) {
	if e == nil {
		return nil, ErrInvalidEntry
	}
	if !e.Kind.Valid() || e.Kind == KindNone {
		return nil, ErrInvalidEntry
	}
	if e.Weight == 0 {
		return nil, ErrInvalidWeight
	}
	clone := e.Clone()
	if clone.UnitID.Sign() < 0 || clone.Amount.Sign() < 0 {
		return nil, ErrInvalidEntry
	}
	return clone, nil
}

// DrawStatus tracks the lifecycle of a single draw request. The transition
// Pending -> Fulfilled is terminal; there is no cancellation path.
type DrawStatus uint8

const (
	DrawPending DrawStatus = iota
	DrawFulfilled
)

// Valid reports whether the status value is within the supported range.
func (s DrawStatus) Valid() bool {
	switch s {
	case DrawPending, DrawFulfilled:
		return true
	default:
		return false
	}
}

func (s DrawStatus) String() string {
	switch s {
	case DrawPending:
		return "pending"
	case DrawFulfilled:
		return "fulfilled"
	default:
		return "unknown"
	}
}

// DrawRequest records one request-to-fulfilment cycle. RandomValue is nil
// until the oracle fulfils the draw. Reward snapshots the selected entry at
// fulfilment time so a failed distribution can be retried against the exact
// same outcome. Delivered reports whether the reward transfer completed.
type DrawRequest struct {
	ID          uint64
	Requester   [20]byte
	RandomValue *big.Int
	Status      DrawStatus
	Reward      *RewardEntry
	Delivered   bool
	CreatedAt   int64
	FulfilledAt int64
}

// Clone returns a deep copy of the draw request.
func (r *DrawRequest) Clone() *DrawRequest {
	if r == nil {
		return nil
	}
	clone := *r
	if r.RandomValue != nil {
		clone.RandomValue = new(big.Int).Set(r.RandomValue)
	}
	clone.Reward = r.Reward.Clone()
	return &clone
}
