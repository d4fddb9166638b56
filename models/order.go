package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID             int             `gorm:"primary_key" json:"id"`
	SubscriptionId int             `gorm:"index;not null" json:"subscription_id"`
	Relation       OrderRelation   `gorm:"type:enum('parent','renewal','switch','resubscribe');not null;default:'renewal'" json:"relation"`
	Status         OrderStatus     `gorm:"type:enum('pending','processing','completed','failed','cancelled','refunded');default:'pending'" json:"status"`
	CurrencyCode   string          `gorm:"size:3;not null;default:'USD'" json:"currency_code"`
	Total          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	PaymentMethod  string          `gorm:"size:100" json:"payment_method"`
	PaidAt         *time.Time      `gorm:"default:null" json:"paid_at"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
