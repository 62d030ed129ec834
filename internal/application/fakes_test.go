package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/common/auth"
	"github.com/outdoor-rental/service-rental/internal/common/domain"
	"github.com/outdoor-rental/service-rental/internal/common/kafka"
	blogDomain "github.com/outdoor-rental/service-rental/internal/domain/blog"
	bookingDomain "github.com/outdoor-rental/service-rental/internal/domain/booking"
	productDomain "github.com/outdoor-rental/service-rental/internal/domain/product"
	settingsDomain "github.com/outdoor-rental/service-rental/internal/domain/settings"
	userDomain "github.com/outdoor-rental/service-rental/internal/domain/user"
)

// --- products ---

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*productDomain.Product
	lookups  map[uuid.UUID]int
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{
		products: make(map[uuid.UUID]*productDomain.Product),
		lookups:  make(map[uuid.UUID]int),
	}
}

func (r *memProductRepo) add(name string, price int64, stock int, images ...string) *productDomain.Product {
	p, err := productDomain.NewProduct(productDomain.Attributes{
		Name:        name,
		Category:    "camping",
		PricePerDay: decimal.NewFromInt(price),
		Stock:       stock,
		Images:      images,
	})
	if err != nil {
		panic(err)
	}
	r.mu.Lock()
	r.products[p.ID()] = p
	r.mu.Unlock()
	return p
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*productDomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[id]++
	p, ok := r.products[id]
	if !ok {
		return nil, domain.NewNotFoundError("Product", id.String())
	}
	return p, nil
}

func (r *memProductRepo) List(_ context.Context, f productDomain.Filter) ([]*productDomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*productDomain.Product
	for _, p := range r.products {
		if f.Category != "" && p.Category() != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name()+" "+p.Description()), strings.ToLower(f.Search)) {
			continue
		}
		if f.MinPrice != nil && p.PricePerDay().LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.PricePerDay().GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memProductRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func (r *memProductRepo) Save(_ context.Context, p *productDomain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID()] = p
	return nil
}

func (r *memProductRepo) Update(_ context.Context, p *productDomain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID()]; !ok {
		return domain.NewNotFoundError("Product", p.ID().String())
	}
	r.products[p.ID()] = p
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.NewNotFoundError("Product", id.String())
	}
	delete(r.products, id)
	return nil
}

// --- users ---

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*userDomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*userDomain.User)}
}

func (r *memUserRepo) add(email, name string, role auth.Role) *userDomain.User {
	u, err := userDomain.NewUser(email, "secret123", name, "0812", role)
	if err != nil {
		panic(err)
	}
	r.mu.Lock()
	r.users[u.ID()] = u
	r.mu.Unlock()
	return u
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = userDomain.NormalizeEmail(email)
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("User", email)
}

func (r *memUserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email() == u.Email() {
			return domain.NewConflictError("email already registered")
		}
	}
	r.users[u.ID()] = u
	return nil
}

func (r *memUserRepo) UpdateIdentityDocument(_ context.Context, id uuid.UUID, blob string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.NewNotFoundError("User", id.String())
	}
	return u.SetIdentityDocument(blob)
}

func (r *memUserRepo) CountByRole(_ context.Context, role auth.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Role() == role {
			n++
		}
	}
	return n, nil
}

// --- bookings ---

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
	writes   int
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

// copyOf returns a detached copy so in-memory mutations only land on Save/Update.
func copyOf(bk *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		bk.ID(), bk.Renter(), append([]bookingDomain.Item(nil), bk.Items()...),
		bk.Period().Start(), bk.Period().End(), bk.TotalPrice(), bk.Status(),
		bk.PaymentProof(), bk.Note(), bk.CreatedAt(), bk.UpdatedAt(),
	)
}

func (r *memBookingRepo) get(id uuid.UUID) *bookingDomain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id]
}

func (r *memBookingRepo) sorted(filter func(*bookingDomain.Booking) bool) []*bookingDomain.Booking {
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if filter == nil || filter(bk) {
			out = append(out, copyOf(bk))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return copyOf(bk), nil
}

func (r *memBookingRepo) FindByIDForUser(_ context.Context, id, userID uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok || bk.UserID() != userID {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return copyOf(bk), nil
}

func (r *memBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(bk *bookingDomain.Booking) bool { return bk.UserID() == userID }), nil
}

func (r *memBookingRepo) ListAll(context.Context) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(nil), nil
}

func (r *memBookingRepo) ListRecent(_ context.Context, limit int) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(nil)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memBookingRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.bookings)), nil
}

func (r *memBookingRepo) CountByStatus(context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int64)
	for _, bk := range r.bookings {
		out[bk.Status().String()]++
	}
	return out, nil
}

func (r *memBookingRepo) SumTotalByStatus(_ context.Context, statuses []bookingDomain.BookingStatus) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, bk := range r.bookings {
		for _, s := range statuses {
			if bk.Status() == s {
				total = total.Add(bk.TotalPrice())
			}
		}
	}
	return total, nil
}

func (r *memBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = copyOf(bk)
	r.writes++
	return nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = copyOf(bk)
	r.writes++
	return nil
}

func (r *memBookingRepo) UpdatePaymentProof(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[bk.ID()]
	if !ok || stored.UserID() != bk.UserID() {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = copyOf(bk)
	r.writes++
	return nil
}

// insertAt stores a booking with a fixed creation time.
func (r *memBookingRepo) insertAt(bk *bookingDomain.Booking, createdAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = bookingDomain.ReconstructBooking(
		bk.ID(), bk.Renter(), bk.Items(), bk.Period().Start(), bk.Period().End(),
		bk.TotalPrice(), bk.Status(), bk.PaymentProof(), bk.Note(), createdAt, createdAt,
	)
}

// --- events ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	keys   []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _, key string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// --- blog, settings, activity ---

type memPostRepo struct {
	posts []*blogDomain.Post
}

func (r *memPostRepo) List(_ context.Context, category string) ([]*blogDomain.Post, error) {
	var out []*blogDomain.Post
	for i := len(r.posts) - 1; i >= 0; i-- {
		if category == "" || r.posts[i].Category == category {
			out = append(out, r.posts[i])
		}
	}
	return out, nil
}

func (r *memPostRepo) FindByID(_ context.Context, id uuid.UUID) (*blogDomain.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("Blog post", id.String())
}

func (r *memPostRepo) Save(_ context.Context, p *blogDomain.Post) error {
	r.posts = append(r.posts, p)
	return nil
}

type memSettingsRepo struct {
	stored *settingsDomain.Settings
}

func (r *memSettingsRepo) Get(context.Context) (settingsDomain.Settings, bool, error) {
	if r.stored == nil {
		return settingsDomain.Settings{}, false, nil
	}
	return *r.stored, true, nil
}

func (r *memSettingsRepo) Replace(_ context.Context, s settingsDomain.Settings) error {
	r.stored = &s
	return nil
}

type memActivityRepo struct {
	byEvent map[string]*bookingDomain.Activity
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{byEvent: make(map[string]*bookingDomain.Activity)}
}

func (r *memActivityRepo) Save(_ context.Context, a *bookingDomain.Activity) error {
	if _, ok := r.byEvent[a.EventID]; ok {
		return nil
	}
	r.byEvent[a.EventID] = a
	return nil
}

func (r *memActivityRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*bookingDomain.Activity, error) {
	var out []*bookingDomain.Activity
	for _, a := range r.byEvent {
		if a.BookingID == bookingID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

// --- wiring ---

type bookingFixture struct {
	products  *memProductRepo
	users     *memUserRepo
	bookings  *memBookingRepo
	publisher *recordingPublisher
	service   *BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		products:  newMemProductRepo(),
		users:     newMemUserRepo(),
		bookings:  newMemBookingRepo(),
		publisher: &recordingPublisher{},
	}
	f.service = NewBookingService(
		f.bookings,
		f.products,
		f.users,
		bookingDomain.NewDailyRatePricing(f.products),
		f.publisher,
		"rental.booking.events",
		zap.NewNop(),
	)
	return f
}
