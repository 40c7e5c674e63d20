package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	linkIDAttempts   = 5
	millisPerHour    = int64(3_600_000)
	defaultMaxClaims = int64(1)
	// MaxExpiresInHours caps link lifetimes at ten years.
	MaxExpiresInHours = int64(10 * 365 * 24)
)

type NewPaymentLink struct {
	CreatorAddress   string
	RecipientAddress *string
	Amount           *string
	Description      *string
	ExpiresInHours   *int64
	// nil defaults to a single claim; zero means unlimited
	MaxClaims *int64
}

type ClaimInput struct {
	LinkID       string
	PayerAddress string
	Amount       string
	TxHash       string
}

// CreatePaymentLink inserts a fresh link. Ids are never overwritten: a
// primary-key collision is retried with a new id a bounded number of times.
func (r *Repository) CreatePaymentLink(ctx context.Context, in NewPaymentLink) (*PaymentLink, error) {
	creator := NormalizeAddress(in.CreatorAddress)
	if creator == "" {
		return nil, ErrInvalidInput
	}
	maxClaims := defaultMaxClaims
	if in.MaxClaims != nil {
		maxClaims = *in.MaxClaims
	}
	if maxClaims < 0 {
		return nil, ErrInvalidInput
	}
	if in.ExpiresInHours != nil && (*in.ExpiresInHours < 0 || *in.ExpiresInHours > MaxExpiresInHours) {
		return nil, ErrInvalidInput
	}

	db, cancel := r.begin(ctx)
	defer cancel()

	now := r.nowMillis()
	link := PaymentLink{
		CreatorAddress:   creator,
		RecipientAddress: normalizeOptionalAddress(in.RecipientAddress),
		Amount:           trimOptional(in.Amount),
		Description:      in.Description,
		CreatedAt:        now,
		MaxClaims:        maxClaims,
		IsActive:         true,
	}
	if in.ExpiresInHours != nil {
		expires := now + *in.ExpiresInHours*millisPerHour
		link.ExpiresAt = &expires
	}

	for attempt := 0; attempt < linkIDAttempts; attempt++ {
		id, err := r.newLinkID()
		if err != nil {
			return nil, err
		}
		link.ID = id
		res := db.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
			Create(&link)
		if res.Error != nil {
			return nil, wrapErr(db, "create payment link", res.Error)
		}
		if res.RowsAffected == 1 {
			return &link, nil
		}
	}
	return nil, ErrIDExhausted
}

func (r *Repository) GetPaymentLink(ctx context.Context, id string) (*PaymentLink, error) {
	db, cancel := r.begin(ctx)
	defer cancel()
	link, err := findLink(db, id)
	if err != nil {
		return nil, wrapErr(db, "get payment link", err)
	}
	return link, nil
}

// ListUserPaymentLinks returns the creator's newest links first.
func (r *Repository) ListUserPaymentLinks(ctx context.Context, creator string, limit int) ([]PaymentLink, error) {
	db, cancel := r.begin(ctx)
	defer cancel()
	out := []PaymentLink{}
	err := db.Where("creator_address = ?", NormalizeAddress(creator)).
		Order("created_at desc").
		Order("id asc").
		Limit(clampLimit(limit)).
		Find(&out).Error
	return out, wrapErr(db, "list user payment links", err)
}

// ClaimPaymentLink bumps the claim counter with a single conditional update
// and appends the claim row in the same transaction. When the update matches
// nothing the link is re-read to report why.
func (r *Repository) ClaimPaymentLink(ctx context.Context, in ClaimInput) (*PaymentClaim, error) {
	db, cancel := r.begin(ctx)
	defer cancel()

	now := r.nowMillis()
	claim := PaymentClaim{
		ID:           uuid.NewString(),
		LinkID:       strings.TrimSpace(in.LinkID),
		PayerAddress: NormalizeAddress(in.PayerAddress),
		Amount:       strings.TrimSpace(in.Amount),
		TxHash:       strings.ToLower(strings.TrimSpace(in.TxHash)),
		ClaimedAt:    now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&PaymentLink{}).
			Where("id = ? AND is_active = ?", claim.LinkID, true).
			Where("(max_claims = 0 OR claim_count < max_claims)").
			Where("(expires_at IS NULL OR expires_at > ?)", now).
			UpdateColumn("claim_count", gorm.Expr("claim_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return claimRejection(tx, claim.LinkID, now)
		}
		return tx.Create(&claim).Error
	})
	if err != nil {
		return nil, wrapErr(db, "claim payment link", err)
	}
	return &claim, nil
}

// claimRejection classifies a claim whose conditional update matched no row.
func claimRejection(tx *gorm.DB, id string, now int64) error {
	link, err := findLink(tx, id)
	if err != nil {
		return err
	}
	switch link.StatusAt(now) {
	case LinkInactive:
		return ErrLinkInactive
	case LinkExhausted:
		return ErrLinkExhausted
	case LinkExpired:
		return ErrLinkExpired
	default:
		// the row changed between the update and the read; report it as contended
		return ErrLinkExhausted
	}
}

// ListLinkClaims returns the claims of one link, newest first.
func (r *Repository) ListLinkClaims(ctx context.Context, linkID string, limit int) ([]PaymentClaim, error) {
	db, cancel := r.begin(ctx)
	defer cancel()
	out := []PaymentClaim{}
	err := db.Where("link_id = ?", strings.TrimSpace(linkID)).
		Order("claimed_at desc").
		Order("id asc").
		Limit(clampLimit(limit)).
		Find(&out).Error
	return out, wrapErr(db, "list link claims", err)
}

func (r *Repository) CountClaims(ctx context.Context, linkID string) (int64, error) {
	db, cancel := r.begin(ctx)
	defer cancel()
	var n int64
	err := db.Model(&PaymentClaim{}).Where("link_id = ?", strings.TrimSpace(linkID)).Count(&n).Error
	return n, wrapErr(db, "count claims", err)
}

func findLink(db *gorm.DB, id string) (*PaymentLink, error) {
	var link PaymentLink
	if err := db.Where("id = ?", strings.TrimSpace(id)).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
