package lottery

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"prizevault/core/events"
)

var (
	paramPriceKey     = []byte("lottery/params/price")
	paramPausedKey    = []byte("lottery/params/paused")
	paramCollectedKey = []byte("lottery/params/collected")
)

// EngineConfig carries the identities fixed for the engine's lifetime. The
// owner gates administrative operations, the oracle is the only caller
// allowed to fulfil draws and the payment token denominates draw fees.
type EngineConfig struct {
	Owner            [20]byte
	Oracle           [20]byte
	PaymentToken     [20]byte
	Custody          [20]byte
	DefaultDrawPrice *big.Int
}

// Engine composes the catalog, ledger and distributor into the two public
// draw operations plus the administrative surface. Every externally visible
// operation serialises on one mutex: the source design relied on a
// single-writer execution environment for its exactly-once fulfilment, so an
// explicit lock takes that role here.
type Engine struct {
	mu sync.Mutex

	store       Storage
	catalog     *Catalog
	ledger      *Ledger
	assets      AssetTransfers
	distributor *Distributor
	emitter     events.Emitter

	owner        [20]byte
	oracle       [20]byte
	paymentToken [20]byte
	custody      [20]byte
	paused       bool
	drawPrice    *big.Int
	collected    *big.Int
}

// NewEngine loads the catalog and persisted parameters from the store. The
// configured default draw price applies until the owner persists a price of
// their own; paused state and the collected balance always come from the
// store once written.
func NewEngine(store Storage, cfg EngineConfig) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("lottery: engine store not configured")
	}
	catalog, err := NewCatalog(store)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		store:        store,
		catalog:      catalog,
		ledger:       NewLedger(store),
		emitter:      events.NoopEmitter{},
		owner:        cfg.Owner,
		oracle:       cfg.Oracle,
		paymentToken: cfg.PaymentToken,
		custody:      cfg.Custody,
		drawPrice:    cloneBigInt(cfg.DefaultDrawPrice),
		collected:    big.NewInt(0),
	}
	price := new(big.Int)
	ok, err := store.KVGet(paramPriceKey, price)
	if err != nil {
		return nil, err
	}
	if ok {
		e.drawPrice = price
	}
	var paused bool
	if _, err := store.KVGet(paramPausedKey, &paused); err != nil {
		return nil, err
	}
	e.paused = paused
	collected := new(big.Int)
	ok, err = store.KVGet(paramCollectedKey, collected)
	if err != nil {
		return nil, err
	}
	if ok {
		e.collected = collected
	}
	return e, nil
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetAssets wires the external asset registries used for reward payouts and
// fee withdrawal.
func (e *Engine) SetAssets(assets AssetTransfers) {
	e.assets = assets
	e.distributor = NewDistributor(assets, e.custody)
}

// SetClock overrides the ledger time source, primarily for tests.
func (e *Engine) SetClock(clock func() time.Time) {
	e.ledger.SetClock(clock)
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) requireOwner(caller [20]byte) error {
	if caller != e.owner {
		return ErrUnauthorized
	}
	return nil
}

func (e *Engine) requireOracle(caller [20]byte) error {
	if caller != e.oracle {
		return ErrUnauthorized
	}
	return nil
}

func (e *Engine) requireNotPaused() error {
	if e.paused {
		return ErrPaused
	}
	return nil
}

// AddReward appends a weighted reward entry to the catalog. Owner only.
func (e *Engine) AddReward(caller [20]byte, entry *RewardEntry) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireOwner(caller); err != nil {
		return 0, err
	}
	index, err := e.catalog.Append(entry)
	if err != nil {
		return 0, err
	}
	e.emit(newCatalogUpdatedEvent(index, entry, e.catalog.TotalWeight()))
	return index, nil
}

// SetDrawPrice persists a new minimum payment for opening a draw. Owner only.
func (e *Engine) SetDrawPrice(caller [20]byte, price *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if price == nil || price.Sign() < 0 {
		return fmt.Errorf("lottery: draw price must be non-negative")
	}
	if err := e.store.KVPut(paramPriceKey, price); err != nil {
		return err
	}
	old := e.drawPrice
	e.drawPrice = new(big.Int).Set(price)
	e.emit(newPriceUpdatedEvent(old, e.drawPrice))
	return nil
}

// SetPaused toggles the gate on new draws. Owner only. Fulfilments of
// already-open draws are unaffected by the pause state.
func (e *Engine) SetPaused(caller [20]byte, paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if err := e.store.KVPut(paramPausedKey, paused); err != nil {
		return err
	}
	e.paused = paused
	e.emit(newPauseToggledEvent(paused))
	return nil
}

// Withdraw transfers the entire collected payment balance to the owner and
// zeroes it. A failed transfer aborts the operation with the balance intact.
func (e *Engine) Withdraw(caller [20]byte) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireOwner(caller); err != nil {
		return nil, err
	}
	amount := new(big.Int).Set(e.collected)
	if amount.Sign() > 0 {
		if e.assets == nil {
			return nil, fmt.Errorf("lottery: asset registries not configured")
		}
		if err := e.assets.TransferFungible(e.paymentToken, e.owner, amount); err != nil {
			return nil, fmt.Errorf("lottery: withdraw transfer: %w", err)
		}
	}
	if err := e.store.KVPut(paramCollectedKey, big.NewInt(0)); err != nil {
		return nil, err
	}
	e.collected = big.NewInt(0)
	e.emit(newFundsWithdrawnEvent(e.owner, amount))
	return amount, nil
}

// OpenDraw collects the payment and registers a pending draw request. It
// returns immediately with the request id; the draw is settled later when
// the oracle fulfils it. Payments above the draw price are kept in full.
func (e *Engine) OpenDraw(requester [20]byte, payment *big.Int) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireNotPaused(); err != nil {
		return 0, err
	}
	amount := cloneBigInt(payment)
	if amount.Cmp(e.drawPrice) < 0 {
		return 0, ErrInsufficientPayment
	}
	if e.catalog.TotalWeight().Sign() == 0 {
		return 0, ErrNoRewardsConfigured
	}
	collected := new(big.Int).Add(e.collected, amount)
	if err := e.store.KVPut(paramCollectedKey, collected); err != nil {
		return 0, err
	}
	req, err := e.ledger.Create(requester)
	if err != nil {
		return 0, err
	}
	e.collected = collected
	e.emit(newDrawOpenedEvent(req, amount))
	return req.ID, nil
}

// FulfillDraw consumes the oracle-delivered random value for a pending
// request: it marks the request fulfilled, selects a reward against the
// catalog as it stands now and transfers it to the original requester. The
// fulfilled status is durable even when the transfer fails; the failure is
// reported for remediation, never retried here.
func (e *Engine) FulfillDraw(caller [20]byte, id uint64, random *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireOracle(caller); err != nil {
		return err
	}
	req, err := e.ledger.Fulfill(id, random)
	if err != nil {
		return err
	}
	entry, _ := Select(req.RandomValue, e.catalog.Snapshot())
	if err := e.distribute(req, &entry); err != nil {
		return err
	}
	return nil
}

// Redistribute re-attempts the reward transfer for a fulfilled request whose
// distribution previously failed. The reward snapshot stored at fulfilment
// time is reused so catalog growth since then cannot change the outcome.
// Owner only.
func (e *Engine) Redistribute(caller [20]byte, id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	req, ok, err := e.ledger.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownRequest
	}
	if req.Status != DrawFulfilled {
		return ErrNotFulfilled
	}
	if req.Delivered {
		return ErrAlreadyDelivered
	}
	return e.distribute(req, req.Reward)
}

func (e *Engine) distribute(req *DrawRequest, entry *RewardEntry) error {
	if e.distributor == nil {
		return fmt.Errorf("lottery: asset registries not configured")
	}
	transferErr := e.distributor.Distribute(req.Requester, entry)
	if err := e.ledger.SetOutcome(req.ID, entry, transferErr == nil); err != nil {
		return err
	}
	if transferErr != nil {
		e.emit(newDistributionFailedEvent(req, transferErr))
		return transferErr
	}
	e.emit(newRewardAssignedEvent(req, entry))
	return nil
}

// RequestStatus returns the current state of a draw request.
func (e *Engine) RequestStatus(id uint64) (*DrawRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	req, ok, err := e.ledger.Get(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownRequest
	}
	return req, nil
}

// CatalogSnapshot returns the entry sequence and total weight as stored.
func (e *Engine) CatalogSnapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Snapshot()
}

// DrawPrice returns the current minimum payment for opening a draw.
func (e *Engine) DrawPrice() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return new(big.Int).Set(e.drawPrice)
}

// Paused reports whether new draws are currently rejected.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Collected returns the payment balance accumulated since the last withdraw.
func (e *Engine) Collected() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return new(big.Int).Set(e.collected)
}

// Owner returns the privileged identity fixed at construction.
func (e *Engine) Owner() [20]byte { return e.owner }

// Oracle returns the configured randomness oracle identity.
func (e *Engine) Oracle() [20]byte { return e.oracle }
