package lottery

import (
	"fmt"
	"math/big"
	"time"
)

// Storage abstracts the subset of state manager functionality required by the
// lottery module.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVHas(key []byte) (bool, error)
}

var (
	requestCounterKey = []byte("lottery/requests/counter")
	requestPrefix     = []byte("lottery/request/")
)

func requestKey(id uint64) []byte {
	return append(append([]byte(nil), requestPrefix...), []byte(fmt.Sprintf("%d", id))...)
}

type storedDrawRequest struct {
	ID          uint64
	Requester   [20]byte
	RandomValue *big.Int
	Status      uint8
	Reward      storedRewardEntry
	Delivered   bool
	CreatedAt   uint64
	FulfilledAt uint64
}

func toStoredRequest(r *DrawRequest) *storedDrawRequest {
	stored := &storedDrawRequest{
		ID:        r.ID,
		Requester: r.Requester,
		Status:    uint8(r.Status),
		Delivered: r.Delivered,
	}
	if r.RandomValue != nil {
		stored.RandomValue = new(big.Int).Set(r.RandomValue)
	} else {
		stored.RandomValue = big.NewInt(0)
	}
	if r.Reward != nil {
		stored.Reward = *toStoredEntry(r.Reward)
	} else {
		stored.Reward = storedRewardEntry{UnitID: big.NewInt(0), Amount: big.NewInt(0)}
	}
	if r.CreatedAt > 0 {
		stored.CreatedAt = uint64(r.CreatedAt)
	}
	if r.FulfilledAt > 0 {
		stored.FulfilledAt = uint64(r.FulfilledAt)
	}
	return stored
}

func fromStoredRequest(s *storedDrawRequest) *DrawRequest {
	req := &DrawRequest{
		ID:          s.ID,
		Requester:   s.Requester,
		Status:      DrawStatus(s.Status),
		Delivered:   s.Delivered,
		CreatedAt:   int64(s.CreatedAt),
		FulfilledAt: int64(s.FulfilledAt),
	}
	if req.Status == DrawFulfilled {
		if s.RandomValue != nil {
			req.RandomValue = new(big.Int).Set(s.RandomValue)
		} else {
			req.RandomValue = big.NewInt(0)
		}
		req.Reward = fromStoredEntry(&s.Reward)
	}
	return req
}

// Ledger tracks the lifecycle of every draw request. Identifiers are
// allocated from a persisted monotonically increasing counter and are never
// reused. The Pending -> Fulfilled transition happens exactly once per id;
// callers serialise access (the engine holds its mutex across Fulfill).
type Ledger struct {
	store Storage
	clock func() time.Time
}

// NewLedger constructs a ledger bound to the provided storage backend.
func NewLedger(store Storage) *Ledger {
	return &Ledger{store: store, clock: time.Now}
}

// SetClock overrides the time source (primarily for deterministic testing).
func (l *Ledger) SetClock(clock func() time.Time) {
	if l == nil || clock == nil {
		return
	}
	l.clock = clock
}

// Count returns the number of requests created so far.
func (l *Ledger) Count() (uint64, error) {
	if l == nil || l.store == nil {
		return 0, fmt.Errorf("lottery: ledger not initialised")
	}
	var counter uint64
	if _, err := l.store.KVGet(requestCounterKey, &counter); err != nil {
		return 0, err
	}
	return counter, nil
}

// Create allocates the next request id and persists a pending draw request
// for the requester. The first id issued is 1.
func (l *Ledger) Create(requester [20]byte) (*DrawRequest, error) {
	if l == nil || l.store == nil {
		return nil, fmt.Errorf("lottery: ledger not initialised")
	}
	counter, err := l.Count()
	if err != nil {
		return nil, err
	}
	id := counter + 1
	req := &DrawRequest{
		ID:        id,
		Requester: requester,
		Status:    DrawPending,
		CreatedAt: l.clock().UTC().Unix(),
	}
	if err := l.store.KVPut(requestKey(id), toStoredRequest(req)); err != nil {
		return nil, err
	}
	if err := l.store.KVPut(requestCounterKey, id); err != nil {
		return nil, err
	}
	return req.Clone(), nil
}

// Get retrieves a draw request by id.
func (l *Ledger) Get(id uint64) (*DrawRequest, bool, error) {
	if l == nil || l.store == nil {
		return nil, false, fmt.Errorf("lottery: ledger not initialised")
	}
	var stored storedDrawRequest
	ok, err := l.store.KVGet(requestKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return fromStoredRequest(&stored), true, nil
}

// Fulfill stores the random value and flips the request to Fulfilled. It
// fails with ErrUnknownRequest for ids that were never created and with
// ErrAlreadyFulfilled when the transition already happened, which makes the
// check-then-set the linchpin of the exactly-once guarantee.
func (l *Ledger) Fulfill(id uint64, random *big.Int) (*DrawRequest, error) {
	if l == nil || l.store == nil {
		return nil, fmt.Errorf("lottery: ledger not initialised")
	}
	req, ok, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownRequest
	}
	if req.Status == DrawFulfilled {
		return nil, ErrAlreadyFulfilled
	}
	if random != nil {
		req.RandomValue = new(big.Int).Set(random)
	} else {
		req.RandomValue = big.NewInt(0)
	}
	req.Status = DrawFulfilled
	req.FulfilledAt = l.clock().UTC().Unix()
	if err := l.store.KVPut(requestKey(id), toStoredRequest(req)); err != nil {
		return nil, err
	}
	return req.Clone(), nil
}

// SetOutcome records the selected reward and delivery result for a fulfilled
// request. The fulfilled status itself is never rolled back: a failed
// distribution leaves Delivered false for administrative remediation.
func (l *Ledger) SetOutcome(id uint64, reward *RewardEntry, delivered bool) error {
	if l == nil || l.store == nil {
		return fmt.Errorf("lottery: ledger not initialised")
	}
	req, ok, err := l.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownRequest
	}
	if req.Status != DrawFulfilled {
		return ErrNotFulfilled
	}
	req.Reward = reward.Clone()
	req.Delivered = delivered
	return l.store.KVPut(requestKey(id), toStoredRequest(req))
}
