package events

import (
	"math/big"
	"strconv"

	"prizevault/core/types"
)

const (
	TypeDrawOpened         = "lottery.draw.opened"
	TypeRewardAssigned     = "lottery.reward.assigned"
	TypeCatalogUpdated     = "lottery.catalog.updated"
	TypePriceUpdated       = "lottery.price.updated"
	TypePauseToggled       = "lottery.pause.toggled"
	TypeFundsWithdrawn     = "lottery.funds.withdrawn"
	TypeDistributionFailed = "lottery.distribution.failed"
)

// DrawOpened is emitted when a paid draw request has been registered.
type DrawOpened struct {
	RequestID uint64
	Requester [20]byte
	Payment   *big.Int
}

func (DrawOpened) EventType() string { return TypeDrawOpened }

func (e DrawOpened) Event() *types.Event {
	return &types.Event{
		Type: TypeDrawOpened,
		Attributes: map[string]string{
			"requestId": uintToString(e.RequestID),
			"requester": formatAddress(e.Requester),
			"payment":   formatAmount(e.Payment),
		},
	}
}

// RewardAssigned is emitted when a fulfilled draw has selected a reward. It
// carries the full entry description so observers can audit the assignment
// without replaying the selection.
type RewardAssigned struct {
	RequestID uint64
	Requester [20]byte
	Kind      string
	Asset     [20]byte
	UnitID    *big.Int
	Amount    *big.Int
}

func (RewardAssigned) EventType() string { return TypeRewardAssigned }

func (e RewardAssigned) Event() *types.Event {
	return &types.Event{
		Type: TypeRewardAssigned,
		Attributes: map[string]string{
			"requestId": uintToString(e.RequestID),
			"requester": formatAddress(e.Requester),
			"kind":      e.Kind,
			"asset":     formatAddress(e.Asset),
			"unitId":    formatAmount(e.UnitID),
			"amount":    formatAmount(e.Amount),
		},
	}
}

// CatalogUpdated is emitted for every reward appended to the catalog.
type CatalogUpdated struct {
	Index       uint64
	Kind        string
	Asset       [20]byte
	UnitID      *big.Int
	Amount      *big.Int
	Weight      uint64
	TotalWeight *big.Int
}

func (CatalogUpdated) EventType() string { return TypeCatalogUpdated }

func (e CatalogUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeCatalogUpdated,
		Attributes: map[string]string{
			"index":       uintToString(e.Index),
			"kind":        e.Kind,
			"asset":       formatAddress(e.Asset),
			"unitId":      formatAmount(e.UnitID),
			"amount":      formatAmount(e.Amount),
			"weight":      uintToString(e.Weight),
			"totalWeight": formatAmount(e.TotalWeight),
		},
	}
}

// PriceUpdated is emitted when the owner changes the draw price.
type PriceUpdated struct {
	OldPrice *big.Int
	NewPrice *big.Int
}

func (PriceUpdated) EventType() string { return TypePriceUpdated }

func (e PriceUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypePriceUpdated,
		Attributes: map[string]string{
			"oldPrice": formatAmount(e.OldPrice),
			"newPrice": formatAmount(e.NewPrice),
		},
	}
}

// PauseToggled is emitted when the owner flips the pause gate.
type PauseToggled struct {
	Paused bool
}

func (PauseToggled) EventType() string { return TypePauseToggled }

func (e PauseToggled) Event() *types.Event {
	return &types.Event{
		Type: TypePauseToggled,
		Attributes: map[string]string{
			"paused": strconv.FormatBool(e.Paused),
		},
	}
}

// FundsWithdrawn is emitted when the owner drains the collected payments.
type FundsWithdrawn struct {
	Owner  [20]byte
	Amount *big.Int
}

func (FundsWithdrawn) EventType() string { return TypeFundsWithdrawn }

func (e FundsWithdrawn) Event() *types.Event {
	return &types.Event{
		Type: TypeFundsWithdrawn,
		Attributes: map[string]string{
			"owner":  formatAddress(e.Owner),
			"amount": formatAmount(e.Amount),
		},
	}
}

// DistributionFailed is emitted when a selected reward could not be
// transferred. The draw stays fulfilled; the failure is surfaced for
// administrative remediation.
type DistributionFailed struct {
	RequestID uint64
	Requester [20]byte
	Reason    string
}

func (DistributionFailed) EventType() string { return TypeDistributionFailed }

func (e DistributionFailed) Event() *types.Event {
	return &types.Event{
		Type: TypeDistributionFailed,
		Attributes: map[string]string{
			"requestId": uintToString(e.RequestID),
			"requester": formatAddress(e.Requester),
			"reason":    e.Reason,
		},
	}
}
