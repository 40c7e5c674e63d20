package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SweepStats struct {
	TotalWallets int64 `json:"totalWallets"`
	TotalSweeps  int64 `json:"totalSweeps"`
}

// EnableAutoSweep registers a wallet for sweeping. It reports created=false,
// without touching the stored row, when the address is already registered.
func (r *Repository) EnableAutoSweep(ctx context.Context, address, owner, salt string) (bool, error) {
	db, cancel := r.begin(ctx)
	defer cancel()
	w := AutoSweepWallet{
		Address:     NormalizeAddress(address),
		Owner:       NormalizeAddress(owner),
		Salt:        strings.ToLower(strings.TrimSpace(salt)),
		CreatedAt:   r.nowMillis(),
		LastChecked: 0,
	}
	if w.Address == "" {
		return false, ErrInvalidInput
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoNothing: true,
	}).Create(&w)
	if res.Error != nil {
		return false, wrapErr(db, "enable auto-sweep", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// DisableAutoSweep removes a registration; removing an unknown address is not an error.
func (r *Repository) DisableAutoSweep(ctx context.Context, address string) (bool, error) {
	db, cancel := r.begin(ctx)
	defer cancel()
	res := db.Where("address = ?", NormalizeAddress(address)).Delete(&AutoSweepWallet{})
	if res.Error != nil {
		return false, wrapErr(db, "disable auto-sweep", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) GetAutoSweepWallet(ctx context.Context, address string) (*AutoSweepWallet, error) {
	db, cancel := r.begin(ctx)
	defer cancel()
	var w AutoSweepWallet
	if err := db.Where("address = ?", NormalizeAddress(address)).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapErr(db, "get auto-sweep wallet", err)
	}
	return &w, nil
}

// RecordSweep appends to the sweep history and, when the wallet is still
// registered, bumps its sweep counter in the same transaction.
func (r *Repository) RecordSweep(ctx context.Context, walletAddress, txHash, amount, recipient string) (*SweepRecord, error) {
	db, cancel := r.begin(ctx)
	defer cancel()
	now := r.nowMillis()
	rec := SweepRecord{
		WalletAddress: NormalizeAddress(walletAddress),
		TxHash:        strings.ToLower(strings.TrimSpace(txHash)),
		Amount:        strings.TrimSpace(amount),
		Timestamp:     now,
		Recipient:     NormalizeAddress(recipient),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		return tx.Model(&AutoSweepWallet{}).
			Where("address = ?", rec.WalletAddress).
			UpdateColumns(map[string]any{
				"sweep_count":  gorm.Expr("sweep_count + 1"),
				"last_checked": now,
			}).Error
	})
	if err != nil {
		return nil, wrapErr(db, "record sweep", err)
	}
	return &rec, nil
}

// ListSweepHistory returns the newest sweeps first.
func (r *Repository) ListSweepHistory(ctx context.Context, address string, limit int) ([]SweepRecord, error) {
	db, cancel := r.begin(ctx)
	defer cancel()
	out := []SweepRecord{}
	err := db.Where("wallet_address = ?", NormalizeAddress(address)).
		Order("timestamp desc").
		Order("id desc").
		Limit(clampLimit(limit)).
		Find(&out).Error
	return out, wrapErr(db, "list sweep history", err)
}

// WalletsToCheck returns registrations in least-recently-checked order.
func (r *Repository) WalletsToCheck(ctx context.Context, limit int) ([]AutoSweepWallet, error) {
	db, cancel := r.begin(ctx)
	defer cancel()
	if limit <= 0 {
		limit = 100
	}
	out := []AutoSweepWallet{}
	err := db.Order("last_checked asc").Order("address asc").Limit(limit).Find(&out).Error
	return out, wrapErr(db, "wallets to check", err)
}

func (r *Repository) TouchLastChecked(ctx context.Context, address string) error {
	db, cancel := r.begin(ctx)
	defer cancel()
	err := db.Model(&AutoSweepWallet{}).
		Where("address = ?", NormalizeAddress(address)).
		UpdateColumn("last_checked", r.nowMillis()).Error
	return wrapErr(db, "touch last checked", err)
}

func (r *Repository) ListOwnerWallets(ctx context.Context, owner string, limit int) ([]AutoSweepWallet, error) {
	db, cancel := r.begin(ctx)
	defer cancel()
	out := []AutoSweepWallet{}
	err := db.Where("owner = ?", NormalizeAddress(owner)).
		Order("created_at desc").
		Order("address asc").
		Limit(clampLimit(limit)).
		Find(&out).Error
	return out, wrapErr(db, "list owner wallets", err)
}

func (r *Repository) Stats(ctx context.Context) (SweepStats, error) {
	db, cancel := r.begin(ctx)
	defer cancel()
	var stats SweepStats
	if err := db.Model(&AutoSweepWallet{}).Count(&stats.TotalWallets).Error; err != nil {
		return SweepStats{}, wrapErr(db, "count wallets", err)
	}
	if err := db.Model(&SweepRecord{}).Count(&stats.TotalSweeps).Error; err != nil {
		return SweepStats{}, wrapErr(db, "count sweeps", err)
	}
	return stats, nil
}
