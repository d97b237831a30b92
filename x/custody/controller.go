package custody

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/x"
	"github.com/harvestnet/harvest/x/cash"
)

// Controller exposes the yield custody to other extensions.
type Controller interface {
	// BalanceHeld returns the total value held by the vault.
	BalanceHeld(db harvest.ReadOnlyKVStore) (uint64, error)
	// AccruedSurplus returns the value held above the principal.
	AccruedSurplus(db harvest.ReadOnlyKVStore) (uint64, error)
	// RealizeSurplus moves given amount of the surplus to the receiver.
	RealizeSurplus(ctx harvest.Context, db harvest.KVStore, amount uint64, receiver harvest.Address) error
}

// CashController is the subset of cash.Controller used by custody.
type CashController interface {
	Balance(db harvest.ReadOnlyKVStore, addr harvest.Address) (uint64, error)
	MoveCoins(ctx harvest.Context, db harvest.KVStore, src, dest harvest.Address, amount uint64) error
}

var _ CashController = (cash.Controller)(nil)

// BaseController keeps the vault funds in the cash ledger.
type BaseController struct {
	cash CashController
}

var _ Controller = BaseController{}

// NewController returns a controller holding funds with given cash
// controller.
func NewController(c CashController) BaseController {
	return BaseController{cash: c}
}

func (c BaseController) BalanceHeld(db harvest.ReadOnlyKVStore) (uint64, error) {
	return c.cash.Balance(db, VaultAddress)
}

func (c BaseController) AccruedSurplus(db harvest.ReadOnlyKVStore) (uint64, error) {
	held, err := c.BalanceHeld(db)
	if err != nil {
		return 0, err
	}
	vault, err := loadVault(db)
	if err != nil {
		return 0, err
	}
	if held <= vault.Principal {
		return 0, nil
	}
	return held - vault.Principal, nil
}

func (c BaseController) RealizeSurplus(ctx harvest.Context, db harvest.KVStore, amount uint64, receiver harvest.Address) error {
	surplus, err := c.AccruedSurplus(db)
	if err != nil {
		return err
	}
	if amount > surplus {
		return errors.Wrapf(errors.ErrInsufficientSurplus, "surplus %d, requested %d", surplus, amount)
	}
	if amount == 0 {
		return nil
	}
	if err := c.cash.MoveCoins(ctx, db, VaultAddress, receiver, amount); err != nil {
		return errors.Wrap(err, "move surplus")
	}
	harvest.GetLogger(ctx).With("module", "custody").Info("surplus realized", "amount", amount, "receiver", receiver)
	return nil
}

// deposit moves funds of the owner into the vault and increases the
// principal.
func (c BaseController) deposit(ctx harvest.Context, db harvest.KVStore, owner harvest.Address, amount uint64) error {
	if err := c.cash.MoveCoins(ctx, db, owner, VaultAddress, amount); err != nil {
		return errors.Wrap(err, "move to vault")
	}
	vault, err := loadVault(db)
	if err != nil {
		return err
	}
	if vault.Principal, err = x.AddUint64(vault.Principal, amount); err != nil {
		return errors.Wrap(err, "principal")
	}
	if err := saveVault(db, vault); err != nil {
		return err
	}

	deposits := NewDepositBucket()
	var d Deposit
	switch err := deposits.One(db, owner, &d); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		d = Deposit{Owner: owner}
	default:
		return errors.Wrap(err, "load deposit")
	}
	if d.Amount, err = x.AddUint64(d.Amount, amount); err != nil {
		return errors.Wrap(err, "deposit")
	}
	_, err = deposits.Put(db, owner, &d)
	return err
}

// withdraw returns principal of the owner from the vault.
func (c BaseController) withdraw(ctx harvest.Context, db harvest.KVStore, owner harvest.Address, amount uint64) error {
	deposits := NewDepositBucket()
	var d Deposit
	if err := deposits.One(db, owner, &d); err != nil {
		return errors.Wrap(err, "load deposit")
	}
	if d.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "deposited %d, requested %d", d.Amount, amount)
	}
	vault, err := loadVault(db)
	if err != nil {
		return err
	}
	if err := c.cash.MoveCoins(ctx, db, VaultAddress, owner, amount); err != nil {
		return errors.Wrap(err, "move from vault")
	}
	vault.Principal -= amount
	if err := saveVault(db, vault); err != nil {
		return err
	}

	d.Amount -= amount
	if d.Amount == 0 {
		return deposits.Delete(db, owner)
	}
	_, err = deposits.Put(db, owner, &d)
	return err
}
