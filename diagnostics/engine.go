package diagnostics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/subscription_diagnostics/utils"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Settings carries the engine's tunables. The engine never reads ambient
// global state: everything it needs arrives through the constructor.
type Settings struct {
	// AnalysisTimeout bounds one run's wall clock. On exhaustion the run
	// returns whatever was computed so far instead of nothing.
	AnalysisTimeout time.Duration `validate:"gt=0"`
	// RelatedOrderCap bounds related-order traversal and job queries so a
	// subscription with years of history cannot blow up one run.
	RelatedOrderCap int `validate:"gte=1,lte=200"`
	// NoteScanLimit bounds how many recent notes the text-pattern detector
	// inspects.
	NoteScanLimit int `validate:"gte=1,lte=1000"`
	// OrderNoteLimit bounds notes fetched per related order.
	OrderNoteLimit int `validate:"gte=1,lte=200"`
	// CycleComparisonCap bounds pairwise completed-order comparisons in the
	// skipped-cycle scan.
	CycleComparisonCap int `validate:"gte=1,lte=100"`
	// DueSoonDays is the inclusive window for payment_due_soon.
	DueSoonDays int `validate:"gte=0,lte=30"`
	// EnvironmentSignals toggles the duplicate-site / environment-type
	// checks of the text-pattern detector.
	EnvironmentSignals bool
}

// DefaultSettings: 30s budget, last 24 orders, last 100 notes, 20 pairwise
// cycle comparisons.
func DefaultSettings() Settings {
	return Settings{
		AnalysisTimeout:    30 * time.Second,
		RelatedOrderCap:    24,
		NoteScanLimit:      100,
		OrderNoteLimit:     25,
		CycleComparisonCap: 20,
		DueSoonDays:        3,
		EnvironmentSignals: true,
	}
}

var settingsValidator = validator.New()

func (s Settings) Validate() error {
	return settingsValidator.Struct(s)
}

// Engine runs one-subscription, point-in-time diagnostic analyses over the
// collaborator stores. It is read-only and holds no mutable state across
// runs, so one Engine value may serve concurrent callers.
type Engine struct {
	store  SubscriptionStore
	jobs   ScheduledJobStore
	env    EnvironmentProbe
	opts   Settings
	logger *logrus.Logger

	// now is swapped out by tests; everything time-sensitive goes through it.
	now func() time.Time
}

// NewEngine builds an engine over the given collaborators. jobs and env may
// be nil when the host lacks a job store or environment signals; the affected
// detectors then contribute nothing instead of failing.
func NewEngine(store SubscriptionStore, jobs ScheduledJobStore, env EnvironmentProbe, opts Settings, logger *logrus.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("diagnostics: subscription store is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("diagnostics: invalid settings: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.ErrorLevel)
	}
	return &Engine{
		store:  store,
		jobs:   jobs,
		env:    env,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}, nil
}

// snapshot is the immutable per-run view every detector reads. It is built
// once up front; detectors never re-query collaborators, so they can run
// concurrently without coordination.
type snapshot struct {
	sub        *Subscription
	orders     []Order
	subNotes   []Note
	orderNotes map[int][]Note
	jobs       []ScheduledJob
	jobStoreOK bool
	envOK      bool
	dupSite    bool
	envType    string
	now        time.Time
}

// loadSnapshot gathers the per-run view. Only a missing subscription is
// fatal; every other collaborator failure is logged and leaves that source
// empty. The ctx deadline enforces the run budget during this I/O phase.
func (e *Engine) loadSnapshot(ctx context.Context, subscriptionID int) (*snapshot, error) {
	sub, err := e.store.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}

	snap := &snapshot{
		sub:        sub,
		orderNotes: make(map[int][]Note),
		now:        e.now().UTC(),
	}

	refs, err := e.store.GetRelatedOrders(ctx, subscriptionID, RelationAll, e.opts.RelatedOrderCap)
	if err != nil {
		e.logCollaboratorFailure(ctx, "GetRelatedOrders", subscriptionID, err)
		refs = nil
	}
	if len(refs) > e.opts.RelatedOrderCap {
		refs = refs[:e.opts.RelatedOrderCap]
	}
	for _, ref := range refs {
		if ctx.Err() != nil {
			break
		}
		order, oerr := e.store.GetOrder(ctx, ref.ID)
		if oerr != nil {
			e.logCollaboratorFailure(ctx, "GetOrder", subscriptionID, fmt.Errorf("order %d: %w", ref.ID, oerr))
			continue
		}
		if order == nil {
			continue
		}
		if order.Relation == "" {
			order.Relation = ref.Relation
		}
		snap.orders = append(snap.orders, *order)
	}

	notes, err := e.store.GetNotes(ctx, NoteEntitySubscription, subscriptionID, e.opts.NoteScanLimit, true)
	if err != nil {
		e.logCollaboratorFailure(ctx, "GetNotes", subscriptionID, err)
		notes = nil
	}
	snap.subNotes = notes

	for _, order := range snap.orders {
		if ctx.Err() != nil {
			break
		}
		orderNotes, nerr := e.store.GetNotes(ctx, NoteEntityOrder, order.ID, e.opts.OrderNoteLimit, true)
		if nerr != nil {
			e.logCollaboratorFailure(ctx, "GetNotes", subscriptionID, fmt.Errorf("order %d: %w", order.ID, nerr))
			continue
		}
		snap.orderNotes[order.ID] = orderNotes
	}

	if e.jobs != nil && ctx.Err() == nil {
		jobs, jerr := e.jobs.QueryJobs(ctx, JobFilter{
			SubscriptionID: subscriptionID,
			Limit:          e.opts.RelatedOrderCap,
		})
		if jerr != nil {
			e.logCollaboratorFailure(ctx, "QueryJobs", subscriptionID, jerr)
		} else {
			snap.jobs = jobs
			snap.jobStoreOK = true
		}
	}

	if e.env != nil && e.opts.EnvironmentSignals && ctx.Err() == nil {
		dup, derr := e.env.IsDuplicateSiteFlagActive(ctx)
		envType, terr := e.env.EnvironmentType(ctx)
		if derr != nil {
			e.logCollaboratorFailure(ctx, "IsDuplicateSiteFlagActive", subscriptionID, derr)
		}
		if terr != nil {
			e.logCollaboratorFailure(ctx, "EnvironmentType", subscriptionID, terr)
		}
		if derr == nil && terr == nil {
			snap.envOK = true
			snap.dupSite = dup
			snap.envType = envType
		}
	}

	return snap, nil
}

// Timeline is the BuildTimeline result.
type Timeline struct {
	Events          []TimelineEvent  `json:"events"`
	EventCount      int              `json:"event_count"`
	Summary         TimelineSummary  `json:"summary"`
	Discrepancies   []Discrepancy    `json:"discrepancies"`
	PatternAnalysis *PatternAnalysis `json:"pattern_analysis,omitempty"`
}

// BuildTimeline merges every source into one chronological sequence and runs
// the full detector battery plus the gateway text-pattern analysis.
func (e *Engine) BuildTimeline(ctx context.Context, subscriptionID int) (*Timeline, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.AnalysisTimeout)
	defer cancel()

	snap, err := e.loadSnapshot(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	events := e.collectEvents(snap)
	merged, summary := mergeEvents(events)
	pattern := e.analyzeGatewayPattern(snap)

	return &Timeline{
		Events:          merged,
		EventCount:      len(merged),
		Summary:         summary,
		Discrepancies:   e.runDetectors(ctx, snap),
		PatternAnalysis: pattern,
	}, nil
}

// AnalyzeDiscrepancies runs the five detector families and returns their
// findings sorted by severity.
func (e *Engine) AnalyzeDiscrepancies(ctx context.Context, subscriptionID int) ([]Discrepancy, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.AnalysisTimeout)
	defer cancel()

	snap, err := e.loadSnapshot(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	return e.runDetectors(ctx, snap), nil
}

// runDetectors evaluates the detector families concurrently over the frozen
// snapshot. Each detector failure is contained: a panic is logged and that
// family contributes nothing.
func (e *Engine) runDetectors(ctx context.Context, snap *snapshot) []Discrepancy {
	detectors := []struct {
		name string
		fn   func(*snapshot) []Discrepancy
	}{
		{"skipped_cycle", e.detectSkippedCycles},
		{"status_consistency", e.detectStatusConsistency},
		{"scheduler_audit", e.detectSchedulerIssues},
		{"payment_timing", e.detectPaymentTiming},
		{"gateway_detachment", e.detectGatewayDetachment},
	}

	results := make([][]Discrepancy, len(detectors))
	var wg sync.WaitGroup
	for i, det := range detectors {
		wg.Add(1)
		go func(i int, name string, fn func(*snapshot) []Discrepancy) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					e.logger.WithFields(runFields(ctx, logrus.Fields{
						"module":         "diagnostics",
						"detector":       name,
						"subscriptionId": snap.sub.ID,
					})).Errorf("detector panicked: %v", r)
				}
			}()
			results[i] = fn(snap)
		}(i, det.name, det.fn)
	}
	wg.Wait()

	var all []Discrepancy
	for _, r := range results {
		all = append(all, r...)
	}
	sortBySeverity(all)
	return all
}

// AssembleReport aggregates detector findings into the ranked report.
// Exposed separately so hosts that collect discrepancies through other paths
// can still reuse the ranking and rollup rules.
func (e *Engine) AssembleReport(discrepancies []Discrepancy) *AnalysisReport {
	return AssembleReport(discrepancies)
}

func (e *Engine) logCollaboratorFailure(ctx context.Context, funcName string, subscriptionID int, err error) {
	if err == nil {
		return
	}
	e.logger.WithFields(runFields(ctx, logrus.Fields{
		"module":         "diagnostics",
		"funcName":       funcName,
		"subscriptionId": subscriptionID,
	})).Warn(err.Error())
}

// runFields decorates log fields with the caller's correlation id and actor
// when the context carries them, so one analysis run's log lines can be
// grepped together across the engine and the host adapter.
func runFields(ctx context.Context, fields logrus.Fields) logrus.Fields {
	if ctx == nil {
		return fields
	}
	if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
		fields["correlationId"] = v
	}
	if v, ok := utils.GetActorFromContext(ctx); ok && v != "" {
		fields["actor"] = v
	}
	return fields
}
