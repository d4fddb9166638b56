package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Subscription struct {
	ID              int                `gorm:"primary_key" json:"id"`
	CustomerId      int                `gorm:"index;not null" json:"customer_id"`
	Status          SubscriptionStatus `gorm:"type:enum('pending','active','on-hold','cancelled','expired','pending-cancel');default:'pending'" json:"status"`
	BillingPeriod   BillingPeriod      `gorm:"type:enum('day','week','month','year');not null;default:'month'" json:"billing_period"`
	BillingInterval int                `gorm:"not null;default:1" json:"billing_interval"`
	CurrencyCode    string             `gorm:"size:3;not null;default:'USD'" json:"currency_code"`
	Total           decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"total"`
	PaymentMethod   string             `gorm:"size:100" json:"payment_method"`
	PaymentTokenId  string             `gorm:"size:191" json:"payment_token_id"`
	ManualRenewal   *bool              `gorm:"default:false" json:"manual_renewal"`
	StartDate       *time.Time         `gorm:"default:null" json:"start_date"`
	TrialEndDate    *time.Time         `gorm:"default:null" json:"trial_end_date"`
	NextPaymentDate *time.Time         `gorm:"index;default:null" json:"next_payment_date"`
	LastPaymentDate *time.Time         `gorm:"default:null" json:"last_payment_date"`
	EndDate         *time.Time         `gorm:"default:null" json:"end_date"`
	CancelledDate   *time.Time         `gorm:"default:null" json:"cancelled_date"`
	Metadata        []SubscriptionMeta `json:"metadata"`
	CreatedAt       time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type SubscriptionMeta struct {
	ID             int    `gorm:"primary_key" json:"id"`
	SubscriptionId int    `gorm:"index;not null" json:"subscription_id"`
	MetaKey        string `gorm:"size:191;not null" json:"meta_key"`
	MetaValue      string `gorm:"type:text" json:"meta_value"`
}
