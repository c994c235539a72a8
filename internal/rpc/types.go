package rpc

import (
	"encoding/json"

	"github.com/nexwallet/launchpad/internal/launchpad"
	"github.com/nexwallet/launchpad/internal/token"
	"github.com/nexwallet/launchpad/pkg/tx"
	"github.com/nexwallet/launchpad/pkg/types"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// Application codes.
	CodeNotFound      = -32000
	CodeSaleNotFound  = -32001
	CodeSaleNotActive = -32002
	CodeInsufficient  = -32003
	CodeMathOverflow  = -32004
	CodeUnauthorized  = -32005
	CodeDuplicate     = -32006
	CodeInvalidTx     = -32007
	CodeMintMismatch  = -32008
	CodeRejected      = -32009
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param types ─────────────────────────────────────────────────────────

// HashParam is used by ledger_getTransaction.
type HashParam struct {
	Hash string `json:"hash"`
}

// TxSubmitParam is used by launchpad_submit.
type TxSubmitParam struct {
	Transaction *tx.Transaction `json:"transaction"`
}

// SaleParam identifies a sale by mint and name, or by record address.
type SaleParam struct {
	Mint    string `json:"mint,omitempty"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// AddressesParam is used by launchpad_addresses.
type AddressesParam struct {
	Admin string `json:"admin"`
	Name  string `json:"name"`
}

// AddressParam is used by token_getAccount and token_getMint.
type AddressParam struct {
	Address string `json:"address"`
}

// BalanceParam is used by token_getBalance. An empty mint means the
// reference mint.
type BalanceParam struct {
	Owner string `json:"owner"`
	Mint  string `json:"mint,omitempty"`
}

// ── Result types ────────────────────────────────────────────────────────

// LedgerInfoResult is returned by ledger_getInfo.
type LedgerInfoResult struct {
	LedgerID          string        `json:"ledger_id"`
	Name              string        `json:"name"`
	GenesisHash       string        `json:"genesis_hash"`
	ProgramID         types.Address `json:"program_id"`
	ReferenceMint     types.Address `json:"reference_mint"`
	ReferenceSymbol   string        `json:"reference_symbol"`
	ReferenceDecimals uint8         `json:"reference_decimals"`
	TxCount           uint64        `json:"tx_count"`
}

// TxStatusResult is returned by ledger_getTransaction.
type TxStatusResult struct {
	Hash      string `json:"hash"`
	Processed bool   `json:"processed"`
}

// SaleListResult is returned by launchpad_list.
type SaleListResult struct {
	Sales []launchpad.SaleEntry `json:"sales"`
}

// BalanceResult is returned by token_getBalance.
type BalanceResult struct {
	Owner   types.Address `json:"owner"`
	Mint    types.Address `json:"mint"`
	Account types.Address `json:"account"`
	Balance uint64        `json:"balance"`
}

// AccountListResult is returned by token_getAccountsByOwner.
type AccountListResult struct {
	Owner    types.Address   `json:"owner"`
	Accounts []token.Account `json:"accounts"`
}
