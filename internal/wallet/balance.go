package wallet

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const (
	EtherDecimals = 18
	USDCDecimals  = 6
)

// BalanceClient is the subset of ethclient.Client used for balance reads.
type BalanceClient interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// BalanceReader reads native balances at the latest block.
type BalanceReader struct {
	client  BalanceClient
	timeout time.Duration
}

func NewBalanceReader(client BalanceClient, timeout time.Duration) *BalanceReader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BalanceReader{client: client, timeout: timeout}
}

func (b *BalanceReader) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	bal, err := b.client.BalanceAt(callCtx, account, nil)
	if err != nil {
		if callCtx.Err() != nil {
			return nil, contextError(callCtx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrCallFailed, err)
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

// FormatUnits renders base units as a decimal string, e.g. wei -> ether.
func FormatUnits(v *big.Int, decimals int32) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -decimals).String()
}

// FormatUnitsFixed is FormatUnits padded to exactly `decimals` places.
func FormatUnitsFixed(v *big.Int, decimals int32) string {
	if v == nil {
		v = new(big.Int)
	}
	return decimal.NewFromBigInt(v, -decimals).StringFixed(decimals)
}
