package rpc

import (
	"errors"

	"github.com/nexwallet/launchpad/internal/launchpad"
	"github.com/nexwallet/launchpad/internal/ledger"
	"github.com/nexwallet/launchpad/internal/pda"
	"github.com/nexwallet/launchpad/internal/token"
	"github.com/nexwallet/launchpad/pkg/tx"
)

// codeFor maps an engine error to an application error code.
func codeFor(err error) int {
	switch {
	case errors.Is(err, launchpad.ErrSaleNotFound):
		return CodeSaleNotFound
	case errors.Is(err, launchpad.ErrSaleNotActive):
		return CodeSaleNotActive
	case errors.Is(err, launchpad.ErrInsufficientTokens),
		errors.Is(err, token.ErrInsufficientFunds):
		return CodeInsufficient
	case errors.Is(err, launchpad.ErrMathOverflow),
		errors.Is(err, token.ErrBalanceOverflow),
		errors.Is(err, token.ErrSupplyOverflow):
		return CodeMathOverflow
	case errors.Is(err, launchpad.ErrUnauthorized),
		errors.Is(err, ledger.ErrUnauthorized),
		errors.Is(err, token.ErrUnauthorized),
		errors.Is(err, pda.ErrProofSpent),
		errors.Is(err, pda.ErrWrongProgram),
		errors.Is(err, pda.ErrProofInvalid):
		return CodeUnauthorized
	case errors.Is(err, ledger.ErrDuplicateTransaction):
		return CodeDuplicate
	case errors.Is(err, launchpad.ErrMintMismatch),
		errors.Is(err, token.ErrMintMismatch):
		return CodeMintMismatch
	case errors.Is(err, tx.ErrInvalidSig),
		errors.Is(err, tx.ErrMissingSignature),
		errors.Is(err, tx.ErrNoSignatures),
		errors.Is(err, tx.ErrTooManySignatures),
		errors.Is(err, tx.ErrDuplicateSigner),
		errors.Is(err, tx.ErrUnsupportedVersion),
		errors.Is(err, tx.ErrUnknownKind),
		errors.Is(err, tx.ErrMissingField),
		errors.Is(err, tx.ErrSaleNameLength):
		return CodeInvalidTx
	case errors.Is(err, token.ErrMintNotFound),
		errors.Is(err, token.ErrAccountNotFound),
		errors.Is(err, ledger.ErrRecordNotFound):
		return CodeNotFound
	default:
		return CodeRejected
	}
}

func engineError(err error) *Error {
	return &Error{Code: codeFor(err), Message: err.Error()}
}
