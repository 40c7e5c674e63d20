package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
)

const computeWalletAddressMethod = "computeWalletAddress"

const factoryABIJSON = `[{
	"type": "function",
	"name": "computeWalletAddress",
	"stateMutability": "view",
	"inputs": [
		{"name": "salt", "type": "bytes32"},
		{"name": "owner", "type": "address"}
	],
	"outputs": [{"name": "", "type": "address"}]
}]`

var factoryABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(factoryABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// ContractCaller is the subset of ethclient.Client used for eth_call.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type ResolverConfig struct {
	Factory     common.Address
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// Resolver asks the factory contract for the counterfactual wallet address
// of (salt, owner). The derivation itself stays on chain.
type Resolver struct {
	caller      ContractCaller
	factory     common.Address
	timeout     time.Duration
	maxAttempts int
	retryDelay  time.Duration
	logger      zerolog.Logger
}

func NewResolver(caller ContractCaller, cfg ResolverConfig, logger zerolog.Logger) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 250 * time.Millisecond
	}
	return &Resolver{
		caller:      caller,
		factory:     cfg.Factory,
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		logger:      logger,
	}
}

func (r *Resolver) Factory() common.Address { return r.factory }

func (r *Resolver) Compute(ctx context.Context, owner common.Address, salt Salt) (common.Address, error) {
	data, err := factoryABI.Pack(computeWalletAddressMethod, [32]byte(salt), owner)
	if err != nil {
		return common.Address{}, fmt.Errorf("wallet: pack call: %w", err)
	}
	factory := r.factory
	out, err := r.call(ctx, ethereum.CallMsg{To: &factory, Data: data})
	if err != nil {
		return common.Address{}, err
	}
	return decodeAddress(out)
}

func (r *Resolver) call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		out, err := r.callOnce(ctx, msg)
		if err == nil {
			if attempt > 1 {
				r.logger.Info().Int("attempts", attempt).Msg("eth_call succeeded after retry")
			}
			return out, nil
		}
		lastErr = err
		if !retryable(err) || attempt == r.maxAttempts {
			break
		}
		delay := backoff(r.retryDelay, attempt)
		r.logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("eth_call failed, retrying")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, contextError(ctx.Err())
		}
	}
	return nil, lastErr
}

func (r *Resolver) callOnce(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	out, err := r.caller.CallContract(callCtx, msg, nil)
	if err != nil {
		if callCtx.Err() != nil {
			return nil, contextError(callCtx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrCallFailed, err)
	}
	return out, nil
}

// decodeAddress accepts only the ABI encoding of a single address: one
// 32-byte word whose first 12 bytes are zero.
func decodeAddress(out []byte) (common.Address, error) {
	if len(out) != 32 {
		return common.Address{}, fmt.Errorf("%w: want 32 bytes, got %d", ErrDecodeResult, len(out))
	}
	for _, b := range out[:12] {
		if b != 0 {
			return common.Address{}, fmt.Errorf("%w: non-zero padding", ErrDecodeResult)
		}
	}
	values, err := factoryABI.Unpack(computeWalletAddressMethod, out)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrDecodeResult, err)
	}
	if len(values) != 1 {
		return common.Address{}, fmt.Errorf("%w: unexpected output count %d", ErrDecodeResult, len(values))
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: unexpected output type %T", ErrDecodeResult, values[0])
	}
	return addr, nil
}

// retryable reports whether a failed call is worth repeating. Timeouts and
// JSON-RPC errors returned by the node (reverts, bad params) are final.
func retryable(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.Canceled) {
		return false
	}
	var rpcErr rpc.Error
	return !errors.As(err, &rpcErr)
}

func backoff(base time.Duration, attempt int) time.Duration {
	delay := base << (attempt - 1)
	if ceiling := 5 * time.Second; delay > ceiling || delay <= 0 {
		return ceiling
	}
	return delay
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
