package models

import "time"

// DigestRunModel is one production digest dispatch.
// RecipientCount holds successful sends only and is written once, after every batch settles.
type DigestRunModel struct {
	Base
	StartDate      time.Time  `json:"start_date"      gorm:"not null"`
	EndDate        time.Time  `json:"end_date"        gorm:"not null;index"`
	RecipientCount int        `json:"recipient_count" gorm:"default:0"`
	SentAt         *time.Time `json:"sent_at"`
}

func (DigestRunModel) TableName() string { return "digest_runs" }

// DeliveryStatus is the outcome of one send attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// DeliveryTypeWeeklyDigest tags delivery records written by the digest engine.
const DeliveryTypeWeeklyDigest = "weekly_digest"

// DeliveryRecordModel is the append-only audit row for one send attempt.
type DeliveryRecordModel struct {
	ID           string         `json:"id"             gorm:"type:char(36);primaryKey"`
	SubscriberID string         `json:"subscriber_id"  gorm:"type:char(36);index;not null"`
	DigestID     string         `json:"digest_id"      gorm:"type:char(36);index;not null"`
	Type         string         `json:"type"           gorm:"type:varchar(32);not null"`
	Status       DeliveryStatus `json:"status"         gorm:"type:varchar(16);not null"`
	ErrorMessage *string        `json:"error_message"  gorm:"type:text"`
	SentAt       time.Time      `json:"sent_at"        gorm:"not null"`
}

func (DeliveryRecordModel) TableName() string { return "delivery_records" }
