// Package assetbook is a state-backed implementation of the asset registry
// capabilities the lottery engine consumes. In a deployment where rewards
// live on external contracts this package is replaced by registry clients;
// the book keeps the same transfer semantics (balance checks, ownership
// checks, no implicit minting) so distribution failures behave identically.
package assetbook

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

// Storage abstracts the subset of state manager functionality required by the
// asset book.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

// Book tracks fungible balances, unique-asset ownership and per-unit
// balances for every registered asset. The custody account configured at
// construction is the implicit sender of fungible transfers, mirroring a
// token contract where the engine itself is the holder.
type Book struct {
	store   Storage
	custody [20]byte
}

// NewBook binds the book to the storage backend and the engine custody
// account.
func NewBook(store Storage, custody [20]byte) *Book {
	return &Book{store: store, custody: custody}
}

func fungibleKey(asset, holder [20]byte) []byte {
	return []byte(fmt.Sprintf("assets/fungible/%s/%s", hex.EncodeToString(asset[:]), hex.EncodeToString(holder[:])))
}

func uniqueKey(asset [20]byte, unitID *big.Int) []byte {
	return []byte(fmt.Sprintf("assets/unique/%s/%s", hex.EncodeToString(asset[:]), unitID.String()))
}

func unitsKey(asset [20]byte, unitID *big.Int, holder [20]byte) []byte {
	return []byte(fmt.Sprintf("assets/units/%s/%s/%s", hex.EncodeToString(asset[:]), unitID.String(), hex.EncodeToString(holder[:])))
}

func normalize(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func (b *Book) balance(key []byte) (*big.Int, error) {
	if b == nil || b.store == nil {
		return nil, fmt.Errorf("assetbook: not initialised")
	}
	value := new(big.Int)
	ok, err := b.store.KVGet(key, value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return value, nil
}

// FungibleBalance returns the holder's balance for the asset.
func (b *Book) FungibleBalance(asset, holder [20]byte) (*big.Int, error) {
	return b.balance(fungibleKey(asset, holder))
}

// UnitsBalance returns the holder's balance for one unit type of the asset.
func (b *Book) UnitsBalance(asset [20]byte, unitID *big.Int, holder [20]byte) (*big.Int, error) {
	return b.balance(unitsKey(asset, normalize(unitID), holder))
}

// UniqueOwner reports the current owner of the unit, if any.
func (b *Book) UniqueOwner(asset [20]byte, unitID *big.Int) ([20]byte, bool, error) {
	var owner [20]byte
	if b == nil || b.store == nil {
		return owner, false, fmt.Errorf("assetbook: not initialised")
	}
	ok, err := b.store.KVGet(uniqueKey(asset, normalize(unitID)), &owner)
	return owner, ok, err
}

// CreditFungible adds to the holder's balance. Used to fund custody.
func (b *Book) CreditFungible(asset, holder [20]byte, amount *big.Int) error {
	amt := normalize(amount)
	if amt.Sign() <= 0 {
		return fmt.Errorf("assetbook: credit amount must be positive")
	}
	current, err := b.FungibleBalance(asset, holder)
	if err != nil {
		return err
	}
	return b.store.KVPut(fungibleKey(asset, holder), new(big.Int).Add(current, amt))
}

// SetUniqueOwner assigns ownership of a unit. Used to deposit collectibles
// into custody.
func (b *Book) SetUniqueOwner(asset [20]byte, unitID *big.Int, holder [20]byte) error {
	if b == nil || b.store == nil {
		return fmt.Errorf("assetbook: not initialised")
	}
	return b.store.KVPut(uniqueKey(asset, normalize(unitID)), holder)
}

// CreditUnits adds to the holder's balance of one unit type.
func (b *Book) CreditUnits(asset [20]byte, unitID, amount *big.Int, holder [20]byte) error {
	amt := normalize(amount)
	if amt.Sign() <= 0 {
		return fmt.Errorf("assetbook: credit amount must be positive")
	}
	current, err := b.UnitsBalance(asset, unitID, holder)
	if err != nil {
		return err
	}
	return b.store.KVPut(unitsKey(asset, normalize(unitID), holder), new(big.Int).Add(current, amt))
}

// TransferFungible moves amount from the custody account to the recipient.
func (b *Book) TransferFungible(asset [20]byte, to [20]byte, amount *big.Int) error {
	amt := normalize(amount)
	if amt.Sign() < 0 {
		return fmt.Errorf("assetbook: negative transfer amount")
	}
	if amt.Sign() == 0 {
		return nil
	}
	fromBalance, err := b.FungibleBalance(asset, b.custody)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amt) < 0 {
		return fmt.Errorf("assetbook: insufficient fungible balance")
	}
	toBalance, err := b.FungibleBalance(asset, to)
	if err != nil {
		return err
	}
	if err := b.store.KVPut(fungibleKey(asset, b.custody), new(big.Int).Sub(fromBalance, amt)); err != nil {
		return err
	}
	return b.store.KVPut(fungibleKey(asset, to), new(big.Int).Add(toBalance, amt))
}

// TransferUnique moves ownership of a single unit from one holder to another.
func (b *Book) TransferUnique(asset [20]byte, from, to [20]byte, unitID *big.Int) error {
	owner, ok, err := b.UniqueOwner(asset, unitID)
	if err != nil {
		return err
	}
	if !ok || owner != from {
		return fmt.Errorf("assetbook: unit not held by sender")
	}
	return b.store.KVPut(uniqueKey(asset, normalize(unitID)), to)
}

// TransferUnits moves amount units of one unit type between holders.
func (b *Book) TransferUnits(asset [20]byte, from, to [20]byte, unitID, amount *big.Int) error {
	amt := normalize(amount)
	if amt.Sign() < 0 {
		return fmt.Errorf("assetbook: negative transfer amount")
	}
	if amt.Sign() == 0 {
		return nil
	}
	fromBalance, err := b.UnitsBalance(asset, unitID, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amt) < 0 {
		return fmt.Errorf("assetbook: insufficient unit balance")
	}
	toBalance, err := b.UnitsBalance(asset, unitID, to)
	if err != nil {
		return err
	}
	if err := b.store.KVPut(unitsKey(asset, normalize(unitID), from), new(big.Int).Sub(fromBalance, amt)); err != nil {
		return err
	}
	return b.store.KVPut(unitsKey(asset, normalize(unitID), to), new(big.Int).Add(toBalance, amt))
}
