package diagnostics

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrSubscriptionNotFound is the only fatal error an analysis run surfaces:
// the subscription id does not resolve. Every other collaborator failure is
// recovered into an empty detector contribution.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// Subscription status values the detectors reason about. The store adapter
// maps whatever the host system uses onto these.
const (
	SubscriptionActive        = "active"
	SubscriptionOnHold        = "on-hold"
	SubscriptionCancelled     = "cancelled"
	SubscriptionExpired       = "expired"
	SubscriptionPendingCancel = "pending-cancel"
	SubscriptionPending       = "pending"
)

// Order relationship types relative to a subscription.
const (
	RelationParent      = "parent"
	RelationRenewal     = "renewal"
	RelationSwitch      = "switch"
	RelationResubscribe = "resubscribe"
	RelationAll         = "all"
)

// Order status values.
const (
	OrderCompleted  = "completed"
	OrderProcessing = "processing"
	OrderPending    = "pending"
	OrderFailed     = "failed"
	OrderCancelled  = "cancelled"
	OrderRefunded   = "refunded"
)

// Scheduled-job status values.
const (
	JobPending    = "pending"
	JobInProgress = "in-progress"
	JobComplete   = "complete"
	JobFailed     = "failed"
	JobCanceled   = "canceled"
)

// Subscription is the read-only snapshot of one recurring-billing agreement.
// Lifecycle dates are pointers: absence is meaningful and the detectors check
// it explicitly instead of treating zero values as real dates.
type Subscription struct {
	ID              int               `json:"id"`
	Status          string            `json:"status"`
	PeriodUnit      PeriodUnit        `json:"period_unit"`
	Interval        int               `json:"interval"`
	DateCreated     *time.Time        `json:"date_created,omitempty"`
	StartDate       *time.Time        `json:"start_date,omitempty"`
	TrialEndDate    *time.Time        `json:"trial_end_date,omitempty"`
	NextPaymentDate *time.Time        `json:"next_payment_date,omitempty"`
	LastPaymentDate *time.Time        `json:"last_payment_date,omitempty"`
	EndDate         *time.Time        `json:"end_date,omitempty"`
	CancelledDate   *time.Time        `json:"cancelled_date,omitempty"`
	PaymentMethod   string            `json:"payment_method,omitempty"`
	PaymentTokenID  string            `json:"payment_token_id,omitempty"`
	ManualRenewal   bool              `json:"manual_renewal"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Meta returns the metadata value for key, or "" when absent.
func (s *Subscription) Meta(key string) string {
	if s == nil || s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}

// OrderRef is one entry of a related-order listing.
type OrderRef struct {
	ID        int        `json:"id"`
	Relation  string     `json:"relation"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Order is the read-only snapshot of one billing transaction.
type Order struct {
	ID            int             `json:"id"`
	Relation      string          `json:"relation"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}

// PaymentInstant is the best available payment-evidence timestamp: the paid
// date when recorded, the creation date otherwise.
func (o *Order) PaymentInstant() time.Time {
	if o.PaidAt != nil {
		return NormalizeInstant(o.PaidAt)
	}
	return NormalizeInstant(o.CreatedAt)
}

// Note is one free-text audit entry attached to a subscription or order.
type Note struct {
	ID         int        `json:"id"`
	Content    string     `json:"content"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	AuthorType string     `json:"author_type,omitempty"`
}

// NoteEntity selects which record a GetNotes call targets.
type NoteEntity string

const (
	NoteEntitySubscription NoteEntity = "subscription"
	NoteEntityOrder        NoteEntity = "order"
)

// ScheduledJob is one deferred unit of work tracked by the host's job store.
type ScheduledJob struct {
	ID            int        `json:"id"`
	Hook          string     `json:"hook"`
	Status        string     `json:"status"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	RetryCount    int        `json:"retry_count"`
	Args          string     `json:"args,omitempty"`
}

// JobFilter narrows a scheduled-job query. Zero values mean "any".
type JobFilter struct {
	Hook           string
	ArgsContain    string
	SubscriptionID int
	Status         string
	Limit          int
}

// SubscriptionStore is the record-source collaborator contract. Every method
// is a blocking read against an external store; implementations must honor
// ctx cancellation.
type SubscriptionStore interface {
	GetSubscription(ctx context.Context, id int) (*Subscription, error)
	GetRelatedOrders(ctx context.Context, id int, relation string, limit int) ([]OrderRef, error)
	GetOrder(ctx context.Context, id int) (*Order, error)
	GetNotes(ctx context.Context, entity NoteEntity, entityID int, limit int, newestFirst bool) ([]Note, error)
}

// ScheduledJobStore is the deferred-work collaborator contract. It may be
// entirely absent on some hosts; the engine treats nil as "unavailable".
type ScheduledJobStore interface {
	QueryJobs(ctx context.Context, filter JobFilter) ([]ScheduledJob, error)
}

// EnvironmentProbe exposes host-environment signals that correlate with the
// detached-payment-method failure class.
type EnvironmentProbe interface {
	IsDuplicateSiteFlagActive(ctx context.Context) (bool, error)
	EnvironmentType(ctx context.Context) (string, error)
}
