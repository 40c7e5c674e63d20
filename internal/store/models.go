package store

// Timestamps are unix milliseconds, matching what clients exchange.

type AutoSweepWallet struct {
	Address     string `gorm:"primaryKey;size:42" json:"address"`
	Owner       string `gorm:"size:42;not null;index:idx_owner" json:"owner"`
	Salt        string `gorm:"size:66;not null" json:"salt"`
	CreatedAt   int64  `gorm:"not null;autoCreateTime:milli" json:"createdAt"`
	LastChecked int64  `gorm:"not null;index:idx_last_checked" json:"lastChecked"`
	SweepCount  int64  `gorm:"not null;default:0" json:"sweepCount"`
}

func (AutoSweepWallet) TableName() string { return "auto_sweep_wallets" }

type SweepRecord struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	WalletAddress string `gorm:"size:42;not null;index:idx_wallet_address" json:"walletAddress"`
	TxHash        string `gorm:"size:66;not null" json:"txHash"`
	Amount        string `gorm:"size:78;not null" json:"amount"`
	Timestamp     int64  `gorm:"not null;index" json:"timestamp"`
	Recipient     string `gorm:"size:42;not null" json:"recipient"`
}

func (SweepRecord) TableName() string { return "sweep_history" }

type PaymentLink struct {
	ID               string         `gorm:"primaryKey;size:8" json:"id"`
	CreatorAddress   string         `gorm:"size:42;not null;index:idx_links_creator,priority:1" json:"creatorAddress"`
	RecipientAddress *string        `gorm:"size:42" json:"recipientAddress,omitempty"`
	Amount           *string        `gorm:"size:78" json:"amount,omitempty"`
	Description      *string        `gorm:"size:512" json:"description,omitempty"`
	CreatedAt        int64          `gorm:"not null;autoCreateTime:milli;index:idx_links_creator,priority:2" json:"createdAt"`
	ExpiresAt        *int64         `json:"expiresAt,omitempty"`
	ClaimCount       int64          `gorm:"not null;default:0" json:"claimCount"`
	MaxClaims        int64          `gorm:"not null" json:"maxClaims"`
	IsActive         bool           `gorm:"not null;default:true" json:"isActive"`
	Claims           []PaymentClaim `gorm:"foreignKey:LinkID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (PaymentLink) TableName() string { return "payment_links" }

type LinkStatus string

const (
	LinkActive    LinkStatus = "active"
	LinkInactive  LinkStatus = "inactive"
	LinkExhausted LinkStatus = "exhausted"
	LinkExpired   LinkStatus = "expired"
)

// StatusAt derives the lifecycle state from the stored counters; it is never
// persisted. A maxClaims of zero means unlimited claims.
func (l *PaymentLink) StatusAt(nowMillis int64) LinkStatus {
	switch {
	case !l.IsActive:
		return LinkInactive
	case l.MaxClaims > 0 && l.ClaimCount >= l.MaxClaims:
		return LinkExhausted
	case l.ExpiresAt != nil && nowMillis >= *l.ExpiresAt:
		return LinkExpired
	default:
		return LinkActive
	}
}

type PaymentClaim struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	LinkID       string `gorm:"size:8;not null;index" json:"linkId"`
	PayerAddress string `gorm:"size:42;not null" json:"payerAddress"`
	Amount       string `gorm:"size:78;not null" json:"amount"`
	TxHash       string `gorm:"size:66;not null" json:"txHash"`
	ClaimedAt    int64  `gorm:"not null" json:"claimedAt"`
}

func (PaymentClaim) TableName() string { return "payment_claims" }
