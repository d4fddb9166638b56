package diagnostics

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

func testEngine() *Engine {
	lg := logrus.New()
	lg.SetOutput(io.Discard)
	return &Engine{
		opts:   DefaultSettings(),
		logger: lg,
		now:    time.Now,
	}
}

func tp(t time.Time) *time.Time { return &t }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ofType(list []Discrepancy, typ string) []Discrepancy {
	var out []Discrepancy
	for _, d := range list {
		if d.Type == typ {
			out = append(out, d)
		}
	}
	return out
}

// fakeStore is an in-memory SubscriptionStore for engine-level tests.
type fakeStore struct {
	sub        *Subscription
	orders     []Order
	subNotes   []Note
	orderNotes map[int][]Note
	notesErr   error
}

func (f *fakeStore) GetSubscription(ctx context.Context, id int) (*Subscription, error) {
	if f.sub == nil || f.sub.ID != id {
		return nil, ErrSubscriptionNotFound
	}
	cp := *f.sub
	return &cp, nil
}

func (f *fakeStore) GetRelatedOrders(ctx context.Context, id int, relation string, limit int) ([]OrderRef, error) {
	var refs []OrderRef
	for _, o := range f.orders {
		if relation != RelationAll && relation != "" && o.Relation != relation {
			continue
		}
		refs = append(refs, OrderRef{ID: o.ID, Relation: o.Relation, CreatedAt: o.CreatedAt})
		if limit > 0 && len(refs) == limit {
			break
		}
	}
	return refs, nil
}

func (f *fakeStore) GetOrder(ctx context.Context, id int) (*Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

func (f *fakeStore) GetNotes(ctx context.Context, entity NoteEntity, entityID int, limit int, newestFirst bool) ([]Note, error) {
	if f.notesErr != nil {
		return nil, f.notesErr
	}
	if entity == NoteEntitySubscription {
		return f.subNotes, nil
	}
	return f.orderNotes[entityID], nil
}

type fakeJobs struct {
	jobs []ScheduledJob
	err  error
}

func (f *fakeJobs) QueryJobs(ctx context.Context, filter JobFilter) ([]ScheduledJob, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.jobs, nil
}

type fakeEnv struct {
	dup     bool
	envType string
	err     error
}

func (f *fakeEnv) IsDuplicateSiteFlagActive(ctx context.Context) (bool, error) {
	return f.dup, f.err
}

func (f *fakeEnv) EnvironmentType(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.envType == "" {
		return "production", nil
	}
	return f.envType, nil
}
