package wallet

import "errors"

var (
	ErrInvalidSalt    = errors.New("wallet: invalid salt")
	ErrInvalidAddress = errors.New("wallet: invalid address")
	ErrCallFailed     = errors.New("wallet: rpc call failed")
	ErrDecodeResult   = errors.New("wallet: cannot decode call result")
	ErrTimeout        = errors.New("wallet: rpc timeout")
)
