package models

import "time"

// SubscriberStatus is toggled by admin deactivation.
type SubscriberStatus string

const (
	SubscriberActive   SubscriberStatus = "active"
	SubscriberInactive SubscriberStatus = "inactive"
)

// EmailStatus tracks address ownership verification.
type EmailStatus string

const (
	EmailPending  EmailStatus = "pending"
	EmailVerified EmailStatus = "verified"
)

// MaxBounceCount is the bounce threshold at which a subscriber stops receiving digests.
const MaxBounceCount = 3

// SubscriberModel is a digest subscriber.
type SubscriberModel struct {
	Base
	Name               string           `json:"name"                 gorm:"not null"`
	Email              string           `json:"email"                gorm:"uniqueIndex;not null"`
	Status             SubscriberStatus `json:"status"               gorm:"type:varchar(16);default:active;index"`
	EmailStatus        EmailStatus      `json:"email_status"         gorm:"type:varchar(16);default:pending;index"`
	NotifyNewQuotes    bool             `json:"notify_new_quotes"    gorm:"default:false"`
	NotifyWeeklyDigest bool             `json:"notify_weekly_digest" gorm:"not null"`
	NotifyWhatsApp     bool             `json:"notify_whatsapp"      gorm:"column:notify_whatsapp;default:false"`
	WhatsAppPhone      *string          `json:"whatsapp_phone"       gorm:"column:whatsapp_phone"`
	WhatsAppVerified   bool             `json:"whatsapp_verified"    gorm:"column:whatsapp_verified;default:false"`
	EmailBounceCount   int              `json:"email_bounce_count"   gorm:"default:0"`
}

func (SubscriberModel) TableName() string { return "subscribers" }

// VerificationTokenModel binds a single-use token to an email address.
// Rows are append-only: re-issuance adds a row and never touches older ones.
type VerificationTokenModel struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Email     string    `json:"email"      gorm:"index;not null"`
	Token     string    `json:"-"          gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (VerificationTokenModel) TableName() string { return "verification_tokens" }

// Valid reports whether the token is still redeemable at now.
func (t VerificationTokenModel) Valid(now time.Time) bool {
	return !now.After(t.ExpiresAt)
}
