package rpcclient

import (
	"context"
	"errors"

	"github.com/nexwallet/launchpad/internal/launchpad"
	"github.com/nexwallet/launchpad/internal/rpc"
	"github.com/nexwallet/launchpad/internal/token"
	"github.com/nexwallet/launchpad/pkg/tx"
	"github.com/nexwallet/launchpad/pkg/types"
)

// IsCode reports whether err is an RPC error with the given code.
func IsCode(err error, code int) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}

// Info calls ledger_getInfo.
func (c *Client) Info(ctx context.Context) (*rpc.LedgerInfoResult, error) {
	var res rpc.LedgerInfoResult
	if err := c.CallContext(ctx, "ledger_getInfo", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// TxStatus calls ledger_getTransaction.
func (c *Client) TxStatus(ctx context.Context, id types.Hash) (*rpc.TxStatusResult, error) {
	var res rpc.TxStatusResult
	if err := c.CallContext(ctx, "ledger_getTransaction", rpc.HashParam{Hash: id.String()}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Submit sends a signed transaction and returns its receipt.
func (c *Client) Submit(ctx context.Context, t *tx.Transaction) (*launchpad.Receipt, error) {
	var rc launchpad.Receipt
	if err := c.CallContext(ctx, "launchpad_submit", rpc.TxSubmitParam{Transaction: t}, &rc); err != nil {
		return nil, err
	}
	return &rc, nil
}

// Sale fetches a sale by mint and name.
func (c *Client) Sale(ctx context.Context, mint types.Address, name string) (*launchpad.SaleEntry, error) {
	return c.sale(ctx, rpc.SaleParam{Mint: mint.String(), Name: name})
}

// SaleAt fetches a sale by record address.
func (c *Client) SaleAt(ctx context.Context, addr types.Address) (*launchpad.SaleEntry, error) {
	return c.sale(ctx, rpc.SaleParam{Address: addr.String()})
}

func (c *Client) sale(ctx context.Context, p rpc.SaleParam) (*launchpad.SaleEntry, error) {
	var entry launchpad.SaleEntry
	if err := c.CallContext(ctx, "launchpad_get", p, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Sales lists every sale.
func (c *Client) Sales(ctx context.Context) ([]launchpad.SaleEntry, error) {
	var res rpc.SaleListResult
	if err := c.CallContext(ctx, "launchpad_list", nil, &res); err != nil {
		return nil, err
	}
	return res.Sales, nil
}

// Addresses derives the addresses admin's sale called name would use.
func (c *Client) Addresses(ctx context.Context, admin types.Address, name string) (*launchpad.Addresses, error) {
	var res launchpad.Addresses
	err := c.CallContext(ctx, "launchpad_addresses", rpc.AddressesParam{Admin: admin.String(), Name: name}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Balance returns owner's associated balance of mint. A zero mint means
// the reference token.
func (c *Client) Balance(ctx context.Context, owner, mint types.Address) (*rpc.BalanceResult, error) {
	p := rpc.BalanceParam{Owner: owner.String()}
	if !mint.IsZero() {
		p.Mint = mint.String()
	}
	var res rpc.BalanceResult
	if err := c.CallContext(ctx, "token_getBalance", p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Account fetches a token account.
func (c *Client) Account(ctx context.Context, addr types.Address) (*token.Account, error) {
	var acct token.Account
	if err := c.CallContext(ctx, "token_getAccount", rpc.AddressParam{Address: addr.String()}, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// AccountsByOwner lists every token account owner controls.
func (c *Client) AccountsByOwner(ctx context.Context, owner types.Address) ([]token.Account, error) {
	var res rpc.AccountListResult
	if err := c.CallContext(ctx, "token_getAccountsByOwner", rpc.AddressParam{Address: owner.String()}, &res); err != nil {
		return nil, err
	}
	return res.Accounts, nil
}

// Mint fetches a token mint.
func (c *Client) Mint(ctx context.Context, addr types.Address) (*token.Mint, error) {
	var m token.Mint
	if err := c.CallContext(ctx, "token_getMint", rpc.AddressParam{Address: addr.String()}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
