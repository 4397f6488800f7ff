package reservation

import (
	"time"

	"travelhub/internal/core/integrity"
	"travelhub/internal/core/user"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentTransaction is one payment attempt. It may exist before the
// reservation does, and it outlives the reservation for audit.
type PaymentTransaction struct {
	ID            uuid.UUID       `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID        uuid.UUID       `gorm:"type:char(36);not null;index" json:"user_id"`
	User          user.User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	ReservationID *uuid.UUID      `gorm:"type:char(36);uniqueIndex" json:"reservation_id"`
	Provider      string          `gorm:"type:varchar(30);not null;default:'TOSS_PAYMENTS'" json:"provider" validate:"required,max=30"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;default:'READY';index" json:"status" validate:"required,enum"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'KRW'" json:"currency" validate:"required,len=3"`
	OrderID       string          `gorm:"type:varchar(80);not null;index" json:"order_id" validate:"required,max=80"`
	PaymentKey    *string         `gorm:"type:varchar(120)" json:"payment_key,omitempty" validate:"omitempty,max=120"`
	FailCode      *string         `gorm:"type:varchar(80)" json:"fail_code,omitempty" validate:"omitempty,max=80"`
	FailMessage   *string         `gorm:"type:text" json:"fail_message,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentTransaction) TableName() string { return "payment_transactions" }

func (PaymentTransaction) DefaultOrder() string { return "created_at DESC" }

func (p *PaymentTransaction) Validate() error {
	if err := integrity.Check(p); err != nil {
		return err
	}
	if p.UserID == uuid.Nil {
		return integrity.Invalid("PaymentTransaction", "user_id", "required")
	}
	if p.Amount.IsNegative() {
		return integrity.Invalid("PaymentTransaction", "amount", "gte=0")
	}
	return nil
}

func (p *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV4())
	}
	if p.Provider == "" {
		p.Provider = DefaultPaymentProvider
	}
	if p.Status == "" {
		p.Status = PaymentReady
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	return p.Validate()
}

// Linked reports whether the payment is attached to a reservation yet.
func (p *PaymentTransaction) Linked() bool { return p.ReservationID != nil }
