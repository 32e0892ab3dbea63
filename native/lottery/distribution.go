package lottery

import (
	"fmt"
	"math/big"
)

// AssetTransfers is the collaborator interface consumed when paying out
// rewards. Each method maps to a transfer convention owned by an external
// asset registry; the engine only holds custody and never implements the
// registries itself. Fungible transfers draw implicitly from engine custody,
// unique and multi-unit transfers name the custody account explicitly.
type AssetTransfers interface {
	TransferFungible(asset [20]byte, to [20]byte, amount *big.Int) error
	TransferUnique(asset [20]byte, from, to [20]byte, unitID *big.Int) error
	TransferUnits(asset [20]byte, from, to [20]byte, unitID, amount *big.Int) error
}

// Distributor moves a selected reward from engine custody to a recipient,
// dispatching on the reward kind. Inventory is never reserved at draw time,
// so a transfer can fail against custody that has since been drained; such
// failures are reported, never retried here.
type Distributor struct {
	assets  AssetTransfers
	custody [20]byte
}

// NewDistributor binds the distributor to the asset registries and the
// custody account backing reward transfers.
func NewDistributor(assets AssetTransfers, custody [20]byte) *Distributor {
	return &Distributor{assets: assets, custody: custody}
}

// Distribute transfers the reward entry to the recipient. A None entry is a
// no-op. Transfer failures are wrapped in ErrDistributionFailed so callers
// can distinguish them from engine-internal faults.
func (d *Distributor) Distribute(recipient [20]byte, entry *RewardEntry) error {
	if entry == nil || entry.Kind == KindNone {
		return nil
	}
	if d == nil || d.assets == nil {
		return fmt.Errorf("lottery: distributor not configured")
	}
	var err error
	switch entry.Kind {
	case KindFungible:
		err = d.assets.TransferFungible(entry.Asset, recipient, cloneBigInt(entry.Amount))
	case KindNonFungible:
		err = d.assets.TransferUnique(entry.Asset, d.custody, recipient, cloneBigInt(entry.UnitID))
	case KindSemiFungible:
		err = d.assets.TransferUnits(entry.Asset, d.custody, recipient, cloneBigInt(entry.UnitID), cloneBigInt(entry.Amount))
	default:
		return fmt.Errorf("lottery: unsupported reward kind %d", entry.Kind)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDistributionFailed, err)
	}
	return nil
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
