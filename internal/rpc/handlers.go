package rpc

import (
	"errors"
	"fmt"

	"github.com/nexwallet/launchpad/internal/launchpad"
	"github.com/nexwallet/launchpad/internal/ledger"
	"github.com/nexwallet/launchpad/internal/token"
	"github.com/nexwallet/launchpad/pkg/types"
)

// ── Ledger endpoints ────────────────────────────────────────────────────

func (s *Server) handleLedgerGetInfo(_ *Request) (interface{}, *Error) {
	count, err := s.ledger.TxCount()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	hash, err := s.genesis.Hash()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &LedgerInfoResult{
		LedgerID:          s.genesis.LedgerID,
		Name:              s.genesis.Name,
		GenesisHash:       hash.String(),
		ProgramID:         s.program.ID(),
		ReferenceMint:     s.program.ReferenceMint(),
		ReferenceSymbol:   s.genesis.Reference.Symbol,
		ReferenceDecimals: s.genesis.Reference.Decimals,
		TxCount:           count,
	}, nil
}

func (s *Server) handleLedgerGetTransaction(req *Request) (interface{}, *Error) {
	var params HashParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	hash, err := types.HexToHash(params.Hash)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid hash: %v", err)}
	}
	done, err := s.ledger.Processed(hash)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &TxStatusResult{Hash: hash.String(), Processed: done}, nil
}

// ── Launchpad endpoints ─────────────────────────────────────────────────

func (s *Server) handleLaunchpadSubmit(req *Request) (interface{}, *Error) {
	var params TxSubmitParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Transaction == nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "transaction is required"}
	}

	rc, err := s.program.Process(s.ledger, params.Transaction)
	if err != nil {
		return nil, engineError(err)
	}
	s.logger.Debug().
		Str("tx", rc.TxID.String()).
		Str("kind", string(rc.Kind)).
		Msg("transaction applied")
	return rc, nil
}

func (s *Server) handleLaunchpadGet(req *Request) (interface{}, *Error) {
	var params SaleParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	var (
		entry launchpad.SaleEntry
		err   error
	)
	switch {
	case params.Address != "":
		entry.Address, err = types.ParseAddress(params.Address)
		if err != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid address: %v", err)}
		}
	case params.Mint != "" && params.Name != "":
		mint, perr := types.ParseAddress(params.Mint)
		if perr != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid mint: %v", perr)}
		}
		addrs, aerr := s.program.SaleAddresses(mint, params.Name)
		if aerr != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: aerr.Error()}
		}
		entry.Address = addrs.State
	default:
		return nil, &Error{Code: CodeInvalidParams, Message: "address or mint and name are required"}
	}

	err = s.ledger.View(func(txn *ledger.Txn) error {
		st, err := s.program.SaleAt(txn, entry.Address)
		if err != nil {
			return err
		}
		entry.SaleState = *st
		return nil
	})
	if err != nil {
		return nil, engineError(err)
	}
	return &entry, nil
}

func (s *Server) handleLaunchpadList(_ *Request) (interface{}, *Error) {
	var sales []launchpad.SaleEntry
	err := s.ledger.View(func(txn *ledger.Txn) error {
		var err error
		sales, err = s.program.Sales(txn)
		return err
	})
	if err != nil {
		return nil, engineError(err)
	}
	return &SaleListResult{Sales: sales}, nil
}

func (s *Server) handleLaunchpadAddresses(req *Request) (interface{}, *Error) {
	var params AddressesParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	admin, err := types.ParseAddress(params.Admin)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid admin: %v", err)}
	}
	addrs, err := s.program.Addresses(admin, params.Name)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	return addrs, nil
}

// ── Token endpoints ─────────────────────────────────────────────────────

func (s *Server) handleTokenGetAccount(req *Request) (interface{}, *Error) {
	addr, rpcErr := addressParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var acct *token.Account
	err := s.ledger.View(func(txn *ledger.Txn) error {
		var err error
		acct, err = txn.Account(addr)
		return err
	})
	if err != nil {
		return nil, engineError(err)
	}
	return acct, nil
}

func (s *Server) handleTokenGetMint(req *Request) (interface{}, *Error) {
	addr, rpcErr := addressParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var m *token.Mint
	err := s.ledger.View(func(txn *ledger.Txn) error {
		var err error
		m, err = txn.Mint(addr)
		return err
	})
	if err != nil {
		return nil, engineError(err)
	}
	return m, nil
}

func (s *Server) handleTokenGetBalance(req *Request) (interface{}, *Error) {
	var params BalanceParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	owner, err := types.ParseAddress(params.Owner)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid owner: %v", err)}
	}
	mint := s.program.ReferenceMint()
	if params.Mint != "" {
		if mint, err = types.ParseAddress(params.Mint); err != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid mint: %v", err)}
		}
	}
	acct, _, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}

	res := &BalanceResult{Owner: owner, Mint: mint, Account: acct}
	err = s.ledger.View(func(txn *ledger.Txn) error {
		a, err := txn.Account(acct)
		if errors.Is(err, token.ErrAccountNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		res.Balance = a.Amount
		return nil
	})
	if err != nil {
		return nil, engineError(err)
	}
	return res, nil
}

func addressParam(req *Request) (types.Address, *Error) {
	var params AddressParam
	if err := parseParams(req, &params); err != nil {
		return types.Address{}, err
	}
	addr, err := types.ParseAddress(params.Address)
	if err != nil {
		return types.Address{}, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid address: %v", err)}
	}
	return addr, nil
}

func (s *Server) handleTokenGetAccountsByOwner(req *Request) (interface{}, *Error) {
	owner, rpcErr := addressParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var accts []token.Account
	err := s.ledger.View(func(txn *ledger.Txn) error {
		var err error
		accts, err = txn.AccountsByOwner(owner)
		return err
	})
	if err != nil {
		return nil, engineError(err)
	}
	return &AccountListResult{Owner: owner, Accounts: accts}, nil
}
