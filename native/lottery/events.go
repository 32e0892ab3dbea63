package lottery

import (
	"math/big"

	"prizevault/core/events"
)

func newDrawOpenedEvent(req *DrawRequest, payment *big.Int) events.DrawOpened {
	evt := events.DrawOpened{Payment: cloneBigInt(payment)}
	if req != nil {
		evt.RequestID = req.ID
		evt.Requester = req.Requester
	}
	return evt
}

func newRewardAssignedEvent(req *DrawRequest, entry *RewardEntry) events.RewardAssigned {
	evt := events.RewardAssigned{Kind: KindNone.String()}
	if req != nil {
		evt.RequestID = req.ID
		evt.Requester = req.Requester
	}
	if entry != nil {
		evt.Kind = entry.Kind.String()
		evt.Asset = entry.Asset
		evt.UnitID = cloneBigInt(entry.UnitID)
		evt.Amount = cloneBigInt(entry.Amount)
	}
	return evt
}

func newCatalogUpdatedEvent(index uint64, entry *RewardEntry, totalWeight *big.Int) events.CatalogUpdated {
	evt := events.CatalogUpdated{Index: index, TotalWeight: cloneBigInt(totalWeight)}
	if entry != nil {
		evt.Kind = entry.Kind.String()
		evt.Asset = entry.Asset
		evt.UnitID = cloneBigInt(entry.UnitID)
		evt.Amount = cloneBigInt(entry.Amount)
		evt.Weight = entry.Weight
	}
	return evt
}

func newPriceUpdatedEvent(oldPrice, newPrice *big.Int) events.PriceUpdated {
	return events.PriceUpdated{
		OldPrice: cloneBigInt(oldPrice),
		NewPrice: cloneBigInt(newPrice),
	}
}

func newPauseToggledEvent(paused bool) events.PauseToggled {
	return events.PauseToggled{Paused: paused}
}

func newFundsWithdrawnEvent(owner [20]byte, amount *big.Int) events.FundsWithdrawn {
	return events.FundsWithdrawn{Owner: owner, Amount: cloneBigInt(amount)}
}

func newDistributionFailedEvent(req *DrawRequest, err error) events.DistributionFailed {
	evt := events.DistributionFailed{}
	if req != nil {
		evt.RequestID = req.ID
		evt.Requester = req.Requester
	}
	if err != nil {
		evt.Reason = err.Error()
	}
	return evt
}
