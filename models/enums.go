package models

// SubscriptionStatus mirrors the host system's subscription states.
type SubscriptionStatus string

const (
	SubscriptionStatusPending       SubscriptionStatus = "pending"
	SubscriptionStatusActive        SubscriptionStatus = "active"
	SubscriptionStatusOnHold        SubscriptionStatus = "on-hold"
	SubscriptionStatusCancelled     SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired       SubscriptionStatus = "expired"
	SubscriptionStatusPendingCancel SubscriptionStatus = "pending-cancel"
)

// BillingPeriod is the cadence unit column.
type BillingPeriod string

const (
	BillingPeriodDay   BillingPeriod = "day"
	BillingPeriodWeek  BillingPeriod = "week"
	BillingPeriodMonth BillingPeriod = "month"
	BillingPeriodYear  BillingPeriod = "year"
)

// OrderStatus mirrors the host system's order states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// OrderRelation ties an order to its subscription.
type OrderRelation string

const (
	OrderRelationParent      OrderRelation = "parent"
	OrderRelationRenewal     OrderRelation = "renewal"
	OrderRelationSwitch      OrderRelation = "switch"
	OrderRelationResubscribe OrderRelation = "resubscribe"
)

// ScheduledJobStatus mirrors the host's job store states.
type ScheduledJobStatus string

const (
	ScheduledJobStatusPending    ScheduledJobStatus = "pending"
	ScheduledJobStatusInProgress ScheduledJobStatus = "in-progress"
	ScheduledJobStatusComplete   ScheduledJobStatus = "complete"
	ScheduledJobStatusFailed     ScheduledJobStatus = "failed"
	ScheduledJobStatusCanceled   ScheduledJobStatus = "canceled"
)

// NoteEntityType is the polymorphic target of a note.
type NoteEntityType string

const (
	NoteEntityTypeSubscription NoteEntityType = "subscription"
	NoteEntityTypeOrder        NoteEntityType = "order"
)
