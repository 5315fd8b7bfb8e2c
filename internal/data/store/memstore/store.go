// Package memstore is the process-resident Storage backend. Every operation
// holds the store mutex for its whole read-modify-write, so conditional
// mutations such as stock reservation are atomic. Records handed out are copies.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/data/store/seed"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

var _ store.Storage = (*Store)(nil)

type Store struct {
	mu  sync.RWMutex
	log *logger.Logger
	now func() time.Time

	products     *table[domain.Product]
	cart         *table[domain.CartItem]
	projects     *table[domain.CommunityProject]
	liveUpdates  *table[domain.LiveImpactUpdate]
	milestones   *table[domain.ImpactMilestone]
	preferences  *table[domain.UserPreferences]
	results      *table[domain.RecommendationResults]
	users        *table[domain.User]
	orders       *table[domain.Order]
	orderItems   *table[domain.OrderItem]
	inventory    *table[domain.Inventory] // keyed by product id
	movements    *table[domain.InventoryMovement]
	modules      *table[domain.LearningModule]
	progress     *table[domain.UserLearningProgress] // keyed by user|module
	badges       *table[domain.Badge]
	userBadges   *table[domain.UserBadge] // keyed by user|badge
	stages       *table[domain.JourneyStage]
	journeys     *table[domain.UserJourneyProgress] // keyed by user id
	globalPlants *table[domain.GlobalIndigenousPlant]
}

type Option func(*options)

type options struct {
	seed bool
	now  func() time.Time
	log  *logger.Logger
}

// WithoutSeed starts with empty tables.
func WithoutSeed() Option { return func(o *options) { o.seed = false } }

func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

func WithLogger(l *logger.Logger) Option { return func(o *options) { o.log = l } }

func New(opts ...Option) (*Store, error) {
	o := options{seed: true, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	s := &Store{
		log:          o.log.With("store", "memstore"),
		now:          o.now,
		products:     newTable(cloneProduct),
		cart:         newTable(shallow[domain.CartItem]),
		projects:     newTable(cloneProject),
		liveUpdates:  newTable(cloneLiveUpdate),
		milestones:   newTable(cloneMilestone),
		preferences:  newTable(clonePreferences),
		results:      newTable(cloneResults),
		users:        newTable(shallow[domain.User]),
		orders:       newTable(shallow[domain.Order]),
		orderItems:   newTable(shallow[domain.OrderItem]),
		inventory:    newTable(shallow[domain.Inventory]),
		movements:    newTable(cloneMovement),
		modules:      newTable(cloneModule),
		progress:     newTable(cloneLearningProgress),
		badges:       newTable(cloneBadge),
		userBadges:   newTable(shallow[domain.UserBadge]),
		stages:       newTable(cloneStage),
		journeys:     newTable(cloneJourney),
		globalPlants: newTable(clonePlant),
	}
	if o.seed {
		if err := s.load(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) load() error {
	fx, err := seed.Load(s.now())
	if err != nil {
		return fmt.Errorf("seed memstore: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range fx.Products {
		s.products.put(p.ID, p)
	}
	for _, inv := range fx.Inventory {
		s.inventory.put(inv.ProductID, inv)
	}
	for _, p := range fx.CommunityProjects {
		s.projects.put(p.ID, p)
	}
	for _, u := range fx.LiveUpdates {
		s.liveUpdates.put(u.ID, u)
	}
	for _, m := range fx.Milestones {
		s.milestones.put(m.ID, m)
	}
	for _, m := range fx.LearningModules {
		s.modules.put(m.ID, m)
	}
	for _, b := range fx.Badges {
		s.badges.put(b.ID, b)
	}
	for _, st := range fx.JourneyStages {
		s.stages.put(st.ID, st)
	}
	for _, p := range fx.GlobalPlants {
		s.globalPlants.put(p.ID, p)
	}
	for _, u := range fx.Users {
		s.users.put(u.ID, u)
	}
	s.log.Debug("Seeded memstore", "products", len(fx.Products), "projects", len(fx.CommunityProjects))
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

func pairKey(a, b string) string { return a + "|" + b }

// table is an insertion-ordered map holding private copies of its rows.
type table[T any] struct {
	order []string
	rows  map[string]*T
	cp    func(*T) *T
}

func newTable[T any](cp func(*T) *T) *table[T] {
	return &table[T]{rows: map[string]*T{}, cp: cp}
}

// put stores a copy of v under id, keeping the original insertion position on replace.
func (t *table[T]) put(id string, v *T) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = t.cp(v)
}

// ref returns the stored row itself for in-place mutation under the write lock.
func (t *table[T]) ref(id string) (*T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

// get returns a copy.
func (t *table[T]) get(id string) *T {
	v, ok := t.rows[id]
	if !ok {
		return nil
	}
	return t.cp(v)
}

func (t *table[T]) del(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, k := range t.order {
		if k == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) len() int { return len(t.rows) }

// list returns copies of the rows keep accepts, in insertion order.
func (t *table[T]) list(keep func(*T) bool) []*T {
	out := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		v := t.rows[id]
		if keep == nil || keep(v) {
			out = append(out, t.cp(v))
		}
	}
	return out
}

// newest is list in reverse insertion order.
func (t *table[T]) newest(keep func(*T) bool, limit int) []*T {
	out := make([]*T, 0)
	for i := len(t.order) - 1; i >= 0; i-- {
		v := t.rows[t.order[i]]
		if keep != nil && !keep(v) {
			continue
		}
		out = append(out, t.cp(v))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// find returns the first stored row keep accepts, without copying.
func (t *table[T]) find(keep func(*T) bool) *T {
	for _, id := range t.order {
		if v := t.rows[id]; keep(v) {
			return v
		}
	}
	return nil
}
