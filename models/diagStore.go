package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/subscription_diagnostics/config"
	"bitbucket.org/mmdatafocus/subscription_diagnostics/diagnostics"
	"bitbucket.org/mmdatafocus/subscription_diagnostics/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// siteOptionCacheTTL bounds staleness of the Redis read-through cache for
// site options. Analysis results themselves are never cached.
const siteOptionCacheTTL = 5 * time.Minute

// DiagStore adapts the record tables to the engine's collaborator contracts
// (diagnostics.SubscriptionStore, ScheduledJobStore, EnvironmentProbe).
// All reads go through the injected *gorm.DB; the store never mutates.
type DiagStore struct {
	db     *gorm.DB
	logger *logrus.Logger
}

var (
	_ diagnostics.SubscriptionStore = (*DiagStore)(nil)
	_ diagnostics.ScheduledJobStore = (*DiagStore)(nil)
	_ diagnostics.EnvironmentProbe  = (*DiagStore)(nil)
)

func NewDiagStore(db *gorm.DB, logger *logrus.Logger) *DiagStore {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &DiagStore{db: db, logger: logger}
}

func (s *DiagStore) GetSubscription(ctx context.Context, id int) (*diagnostics.Subscription, error) {
	var sub Subscription
	err := s.db.WithContext(ctx).Preload("Metadata").First(&sub, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, diagnostics.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return toDiagSubscription(&sub), nil
}

func toDiagSubscription(sub *Subscription) *diagnostics.Subscription {
	meta := make(map[string]string, len(sub.Metadata))
	for _, m := range sub.Metadata {
		meta[m.MetaKey] = m.MetaValue
	}
	created := sub.CreatedAt
	return &diagnostics.Subscription{
		ID:              sub.ID,
		Status:          string(sub.Status),
		PeriodUnit:      diagnostics.PeriodUnit(sub.BillingPeriod),
		Interval:        sub.BillingInterval,
		DateCreated:     &created,
		StartDate:       sub.StartDate,
		TrialEndDate:    sub.TrialEndDate,
		NextPaymentDate: sub.NextPaymentDate,
		LastPaymentDate: sub.LastPaymentDate,
		EndDate:         sub.EndDate,
		CancelledDate:   sub.CancelledDate,
		PaymentMethod:   sub.PaymentMethod,
		PaymentTokenID:  sub.PaymentTokenId,
		ManualRenewal:   utils.DereferencePtr(sub.ManualRenewal),
		Metadata:        meta,
	}
}

func (s *DiagStore) GetRelatedOrders(ctx context.Context, id int, relation string, limit int) ([]diagnostics.OrderRef, error) {
	dbCtx := s.db.WithContext(ctx).Model(&Order{}).Where("subscription_id = ?", id)
	if relation != "" && relation != diagnostics.RelationAll {
		dbCtx = dbCtx.Where("relation = ?", relation)
	}
	if limit > 0 {
		dbCtx = dbCtx.Limit(limit)
	}
	var orders []Order
	if err := dbCtx.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	refs := make([]diagnostics.OrderRef, 0, len(orders))
	for _, o := range orders {
		created := o.CreatedAt
		refs = append(refs, diagnostics.OrderRef{
			ID:        o.ID,
			Relation:  string(o.Relation),
			CreatedAt: &created,
		})
	}
	return refs, nil
}

func (s *DiagStore) GetOrder(ctx context.Context, id int) (*diagnostics.Order, error) {
	var order Order
	err := s.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	created := order.CreatedAt
	return &diagnostics.Order{
		ID:            order.ID,
		Relation:      string(order.Relation),
		Status:        string(order.Status),
		Total:         order.Total,
		CreatedAt:     &created,
		PaidAt:        order.PaidAt,
		PaymentMethod: order.PaymentMethod,
	}, nil
}

func (s *DiagStore) GetNotes(ctx context.Context, entity diagnostics.NoteEntity, entityID int, limit int, newestFirst bool) ([]diagnostics.Note, error) {
	order := "created_at ASC, id ASC"
	if newestFirst {
		order = "created_at DESC, id DESC"
	}
	dbCtx := s.db.WithContext(ctx).Model(&Note{}).
		Where("entity_type = ? AND entity_id = ?", string(entity), entityID).
		Order(order)
	if limit > 0 {
		dbCtx = dbCtx.Limit(limit)
	}
	var notes []Note
	if err := dbCtx.Find(&notes).Error; err != nil {
		return nil, err
	}
	out := make([]diagnostics.Note, 0, len(notes))
	for _, n := range notes {
		created := n.CreatedAt
		out = append(out, diagnostics.Note{
			ID:         n.ID,
			Content:    n.Content,
			CreatedAt:  &created,
			AuthorType: n.AuthorType,
		})
	}
	return out, nil
}

// JobArgsNeedles returns the LIKE needles that find a subscription id inside
// a serialized job-args blob. Substring matching against a serialized form is
// a compatibility shim for the host's storage format; it lives here and
// nowhere else. Newer hosts store JSON, legacy ones a serialized array, so
// both encodings get a needle.
func JobArgsNeedles(subscriptionID int) []string {
	return []string{
		fmt.Sprintf(`"subscription_id":%d}`, subscriptionID),
		fmt.Sprintf(`"subscription_id":%d,`, subscriptionID),
		fmt.Sprintf(`s:15:"subscription_id";i:%d;`, subscriptionID),
	}
}

func (s *DiagStore) QueryJobs(ctx context.Context, filter diagnostics.JobFilter) ([]diagnostics.ScheduledJob, error) {
	dbCtx := s.db.WithContext(ctx).Model(&ScheduledJob{})
	if filter.Hook != "" {
		dbCtx = dbCtx.Where("hook = ?", filter.Hook)
	}
	if filter.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filter.Status)
	}
	if filter.SubscriptionID != 0 {
		needles := JobArgsNeedles(filter.SubscriptionID)
		clause := s.db.Where("args LIKE ?", "%"+needles[0]+"%")
		for _, needle := range needles[1:] {
			clause = clause.Or("args LIKE ?", "%"+needle+"%")
		}
		dbCtx = dbCtx.Where(clause)
	} else if filter.ArgsContain != "" {
		dbCtx = dbCtx.Where("args LIKE ?", "%"+filter.ArgsContain+"%")
	}
	if filter.Limit > 0 {
		dbCtx = dbCtx.Limit(filter.Limit)
	}
	var jobs []ScheduledJob
	if err := dbCtx.Order("scheduled_at DESC, id DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	out := make([]diagnostics.ScheduledJob, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, diagnostics.ScheduledJob{
			ID:            j.ID,
			Hook:          j.Hook,
			Status:        string(j.Status),
			ScheduledAt:   j.ScheduledAt,
			LastAttemptAt: j.LastAttemptAt,
			RetryCount:    j.RetryCount,
			Args:          j.Args,
		})
	}
	return out, nil
}

// siteOption reads one option through the Redis cache; a miss or disabled
// cache falls through to the database.
func (s *DiagStore) siteOption(ctx context.Context, key string) (string, error) {
	cacheKey := "siteOption:" + key
	if !config.SiteOptionCacheDisabled() {
		if val, ok, err := config.GetRedisValue(cacheKey); err == nil && ok {
			return val, nil
		}
	}

	var opt SiteOption
	err := s.db.WithContext(ctx).Where("option_key = ?", key).First(&opt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	if !config.SiteOptionCacheDisabled() {
		if err := config.SetRedisValue(cacheKey, opt.OptionValue, siteOptionCacheTTL); err != nil {
			config.LogError(s.logger, "models", "siteOption", "cache site option", key, err)
		}
	}
	return opt.OptionValue, nil
}

// IsDuplicateSiteFlagActive reports whether the live site URL no longer
// matches the URL the subscription system registered itself under — the
// classic signature of a cloned environment.
func (s *DiagStore) IsDuplicateSiteFlagActive(ctx context.Context) (bool, error) {
	current, err := s.siteOption(ctx, OptionKeySiteURL)
	if err != nil {
		return false, err
	}
	registered, err := s.siteOption(ctx, OptionKeyRegisteredURL)
	if err != nil {
		return false, err
	}
	current = strings.TrimRight(strings.TrimSpace(current), "/")
	registered = strings.TrimRight(strings.TrimSpace(registered), "/")
	return current != "" && registered != "" && !strings.EqualFold(current, registered), nil
}

// EnvironmentType returns the host's declared environment, defaulting to
// production when the option is unset.
func (s *DiagStore) EnvironmentType(ctx context.Context) (string, error) {
	envType, err := s.siteOption(ctx, OptionKeyEnvironmentType)
	if err != nil {
		return "", err
	}
	envType = strings.ToLower(strings.TrimSpace(envType))
	if envType == "" {
		envType = "production"
	}
	return envType, nil
}
