package assetbook

import (
	"math/big"
	"testing"

	"prizevault/state"
	"prizevault/storage"
)

func testAddress(fill byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = fill
	}
	return addr
}

func newTestBook() *Book {
	return NewBook(state.NewManager(storage.NewMemDB()), testAddress(0xC0))
}

func mustBalance(t *testing.T, book *Book, asset, holder [20]byte) *big.Int {
	t.Helper()
	balance, err := book.FungibleBalance(asset, holder)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return balance
}

func TestFungibleTransferMovesCustodyBalance(t *testing.T) {
	book := newTestBook()
	asset := testAddress(0x10)
	custody := testAddress(0xC0)
	recipient := testAddress(0x0D)

	if err := book.CreditFungible(asset, custody, big.NewInt(100)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := book.TransferFungible(asset, recipient, big.NewInt(30)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := mustBalance(t, book, asset, custody); got.Cmp(big.NewInt(70)) != 0 {
		t.Fatalf("custody balance: expected 70, got %s", got)
	}
	if got := mustBalance(t, book, asset, recipient); got.Cmp(big.NewInt(30)) != 0 {
		t.Fatalf("recipient balance: expected 30, got %s", got)
	}
}

func TestFungibleTransferRejectsOverdraft(t *testing.T) {
	book := newTestBook()
	asset := testAddress(0x10)
	if err := book.CreditFungible(asset, testAddress(0xC0), big.NewInt(5)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := book.TransferFungible(asset, testAddress(0x0D), big.NewInt(6)); err == nil {
		t.Fatalf("expected overdraft rejection")
	}
	if got := mustBalance(t, book, asset, testAddress(0xC0)); got.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("failed transfer must not move funds, custody has %s", got)
	}
}

func TestFungibleZeroTransferIsNoop(t *testing.T) {
	book := newTestBook()
	if err := book.TransferFungible(testAddress(0x10), testAddress(0x0D), big.NewInt(0)); err != nil {
		t.Fatalf("zero transfer: %v", err)
	}
	if err := book.TransferFungible(testAddress(0x10), testAddress(0x0D), big.NewInt(-1)); err == nil {
		t.Fatalf("negative transfer must be rejected")
	}
}

func TestUniqueTransferChecksOwnership(t *testing.T) {
	book := newTestBook()
	asset := testAddress(0x11)
	custody := testAddress(0xC0)
	recipient := testAddress(0x0D)
	unit := big.NewInt(7)

	if err := book.TransferUnique(asset, custody, recipient, unit); err == nil {
		t.Fatalf("transfer of unowned unit must fail")
	}
	if err := book.SetUniqueOwner(asset, unit, custody); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := book.TransferUnique(asset, custody, recipient, unit); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	owner, ok, err := book.UniqueOwner(asset, unit)
	if err != nil || !ok {
		t.Fatalf("owner lookup: ok=%v err=%v", ok, err)
	}
	if owner != recipient {
		t.Fatalf("ownership not transferred")
	}
	if err := book.TransferUnique(asset, custody, recipient, unit); err == nil {
		t.Fatalf("second transfer from old holder must fail")
	}
}

func TestUnitsTransferMovesPerUnitBalance(t *testing.T) {
	book := newTestBook()
	asset := testAddress(0x12)
	custody := testAddress(0xC0)
	recipient := testAddress(0x0D)
	unit := big.NewInt(3)

	if err := book.CreditUnits(asset, unit, big.NewInt(10), custody); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := book.TransferUnits(asset, custody, recipient, unit, big.NewInt(4)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	balance, err := book.UnitsBalance(asset, unit, recipient)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Cmp(big.NewInt(4)) != 0 {
		t.Fatalf("recipient units: expected 4, got %s", balance)
	}
	if err := book.TransferUnits(asset, custody, recipient, unit, big.NewInt(7)); err == nil {
		t.Fatalf("expected overdraft rejection")
	}
}

func TestCreditRejectsNonPositiveAmounts(t *testing.T) {
	book := newTestBook()
	asset := testAddress(0x13)
	if err := book.CreditFungible(asset, testAddress(0xC0), big.NewInt(0)); err == nil {
		t.Fatalf("zero credit must be rejected")
	}
	if err := book.CreditUnits(asset, big.NewInt(1), big.NewInt(-2), testAddress(0xC0)); err == nil {
		t.Fatalf("negative unit credit must be rejected")
	}
}
