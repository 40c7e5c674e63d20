package sweep

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/0xPexy/privatepay-backend/internal/store"
	"github.com/0xPexy/privatepay-backend/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const EventSweepCandidate = "sweep_candidate"

type Registry interface {
	WalletsToCheck(ctx context.Context, limit int) ([]store.AutoSweepWallet, error)
	TouchLastChecked(ctx context.Context, address string) error
}

type BalanceSource interface {
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
}

type Publisher interface {
	Publish(kind string, data any)
}

// Candidate is a registered wallet holding enough native balance to sweep.
type Candidate struct {
	Address    string `json:"address"`
	Owner      string `json:"owner"`
	Balance    string `json:"balance"`
	BalanceEth string `json:"balance_eth"`
}

type ScanResult struct {
	Checked    int
	Failed     int
	Candidates []Candidate
}

// Monitor periodically reads the balances of registered wallets and reports
// the ones worth sweeping. It never signs or sends transactions.
type Monitor struct {
	cfg       Config
	registry  Registry
	balances  BalanceSource
	publisher Publisher
	limiter   *rate.Limiter
	logger    zerolog.Logger
}

func NewMonitor(cfg Config, registry Registry, balances BalanceSource, publisher Publisher, logger zerolog.Logger) *Monitor {
	perSecond := cfg.checksPerSecond()
	return &Monitor{
		cfg:       cfg,
		registry:  registry,
		balances:  balances,
		publisher: publisher,
		limiter:   rate.NewLimiter(rate.Limit(perSecond), perSecond),
		logger:    logger,
	}
}

func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info().
		Dur("poll_interval", m.cfg.pollInterval()).
		Int("batch_size", m.cfg.batchSize()).
		Str("min_balance_wei", m.cfg.minBalance().String()).
		Msg("balance monitor starting")

	wait := m.cfg.pollInterval()
	for {
		res, err := m.Scan(ctx)
		switch {
		case err == nil:
			wait = m.cfg.pollInterval()
			if res.Checked > 0 {
				m.logger.Debug().Int("checked", res.Checked).Int("failed", res.Failed).
					Int("candidates", len(res.Candidates)).Msg("scan complete")
			}
		case errors.Is(err, context.Canceled) && ctx.Err() != nil:
			m.logger.Info().Msg("balance monitor stopped")
			return nil
		default:
			wait = min(wait*2, m.cfg.maxBackoff())
			m.logger.Error().Err(err).Dur("retry_in", wait).Msg("scan failed")
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.logger.Info().Msg("balance monitor stopped")
			return nil
		case <-timer.C:
		}
	}
}

// Scan checks one batch of wallets, least recently checked first. A wallet
// whose balance read fails keeps its last_checked so it is retried first.
func (m *Monitor) Scan(ctx context.Context) (ScanResult, error) {
	wallets, err := m.registry.WalletsToCheck(ctx, m.cfg.batchSize())
	if err != nil {
		return ScanResult{}, err
	}
	var (
		mu  sync.Mutex
		res ScanResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.workers())
	for _, w := range wallets {
		if err := m.limiter.Wait(gctx); err != nil {
			break
		}
		g.Go(func() error {
			cand, ok, err := m.check(gctx, w)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				return nil
			}
			res.Checked++
			if ok {
				res.Candidates = append(res.Candidates, cand)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func (m *Monitor) check(ctx context.Context, w store.AutoSweepWallet) (Candidate, bool, error) {
	log := m.logger.With().Str("wallet", w.Address).Logger()
	if !common.IsHexAddress(w.Address) {
		log.Warn().Msg("skipping malformed registration")
		return Candidate{}, false, wallet.ErrInvalidAddress
	}
	bal, err := m.balances.Balance(ctx, common.HexToAddress(w.Address))
	if err != nil {
		log.Warn().Err(err).Msg("balance read failed")
		return Candidate{}, false, err
	}
	if err := m.registry.TouchLastChecked(ctx, w.Address); err != nil {
		log.Warn().Err(err).Msg("update last_checked failed")
	}
	if bal.Cmp(m.cfg.minBalance()) < 0 {
		return Candidate{}, false, nil
	}
	cand := Candidate{
		Address:    w.Address,
		Owner:      w.Owner,
		Balance:    bal.String(),
		BalanceEth: wallet.FormatUnits(bal, wallet.EtherDecimals),
	}
	log.Info().Str("balance_eth", cand.BalanceEth).Msg("wallet ready to sweep")
	if m.publisher != nil {
		m.publisher.Publish(EventSweepCandidate, cand)
	}
	return cand, true, nil
}
