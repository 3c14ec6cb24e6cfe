package core

import "errors"

// Validation and replay errors. Messages are part of the external contract:
// RPC and façade callers match on Error() verbatim, so these are never
// wrapped with additional context.
var (
	ErrBadBlockIndex       = errors.New("Bad block index!")
	ErrBadPreviousHash     = errors.New("Bad previous hash!")
	ErrBlockNotSigned      = errors.New("Block is not correctly signed!")
	ErrChainIDMismatch     = errors.New("Chain-id mismatch!")
	ErrOnlyEIP1559         = errors.New("Only EIP-1559 is supported")
	ErrContractCreation    = errors.New("Contract creation is not supported")
	ErrContractCall        = errors.New("Contract calls are not supported")
	ErrUnknownTxInput      = errors.New("Unknown transaction input")
	ErrInsufficientBalance = errors.New("Insufficient balance")
	ErrInsufficientAllow   = errors.New("Insufficient allowance")
	ErrTxHashLength        = errors.New("Transaction hash must be 32 bytes")
	ErrTxAlreadyExists     = errors.New("Transaction already exists")
	ErrDepositAlreadyExists = errors.New("Deposit already exists")
	ErrInvalidCalldata     = errors.New("Invalid calldata")
	ErrBurnIDAlreadyUsed   = errors.New("Burn id already used")

	errAddressLength = errors.New("address must be 20 bytes")
)
