package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/GopinathBalasubramanian/eduactivity/internal/events"
	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

// memStore is an in-memory Repository. Getters return shallow copies with the
// same associations the postgres repositories preload.
type memStore struct {
	mu sync.Mutex

	users         map[uuid.UUID]*models.User
	providers     map[uuid.UUID]*models.Provider
	services      map[uuid.UUID]*models.Service
	pricings      map[uuid.UUID]*models.Pricing
	bookings      map[uuid.UUID]*models.Booking
	reviews       map[uuid.UUID]*models.Review
	categories    map[uuid.UUID]*models.Category
	notifications map[uuid.UUID]*models.Notification
	chats         map[uuid.UUID]*models.Chat
	subscriptions map[uuid.UUID]*models.Subscription
	alerts        map[uuid.UUID]*models.SearchAlert
	photos        []*models.ProviderPhoto
	certificates  []*models.ProviderCertificate

	viewIncrements int
	dashboard      *stubDashboard
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uuid.UUID]*models.User{},
		providers:     map[uuid.UUID]*models.Provider{},
		services:      map[uuid.UUID]*models.Service{},
		pricings:      map[uuid.UUID]*models.Pricing{},
		bookings:      map[uuid.UUID]*models.Booking{},
		reviews:       map[uuid.UUID]*models.Review{},
		categories:    map[uuid.UUID]*models.Category{},
		notifications: map[uuid.UUID]*models.Notification{},
		chats:         map[uuid.UUID]*models.Chat{},
		subscriptions: map[uuid.UUID]*models.Subscription{},
		alerts:        map[uuid.UUID]*models.SearchAlert{},
		dashboard:     &stubDashboard{},
	}
}

func (m *memStore) User() repositories.UserRepository                 { return memUsers{m} }
func (m *memStore) Provider() repositories.ProviderRepository         { return memProviders{m} }
func (m *memStore) Service() repositories.ServiceRepository           { return memServices{m} }
func (m *memStore) Pricing() repositories.PricingRepository           { return memPricings{m} }
func (m *memStore) Booking() repositories.BookingRepository           { return memBookings{m} }
func (m *memStore) Subscription() repositories.SubscriptionRepository { return memSubscriptions{m} }
func (m *memStore) Review() repositories.ReviewRepository             { return memReviews{m} }
func (m *memStore) Category() repositories.CategoryRepository         { return memCategories{m} }
func (m *memStore) Notification() repositories.NotificationRepository { return memNotifications{m} }
func (m *memStore) Chat() repositories.ChatRepository                 { return memChats{m} }
func (m *memStore) SearchAlert() repositories.SearchAlertRepository   { return memAlerts{m} }
func (m *memStore) Dashboard() repositories.DashboardRepository       { return m.dashboard }

func (m *memStore) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *memStore) Ping(ctx context.Context) error { return nil }
func (m *memStore) Close() error                   { return nil }

// ===== SEED HELPERS =====

func (m *memStore) addUser(role models.UserRole, email string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.Split(email, "@")[0],
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addProvider(owner *models.User, approved bool) *models.Provider {
	p := models.NewDefaultProvider(owner)
	p.ID = uuid.New()
	p.IsApproved = approved
	p.CreatedAt = time.Now()
	m.providers[p.ID] = p
	return p
}

func (m *memStore) addService(p *models.Provider, name string) *models.Service {
	s := &models.Service{
		ID:              uuid.New(),
		ProviderID:      p.ID,
		Name:            name,
		ServiceType:     models.ServiceIndividual,
		DurationHours:   1,
		MaxParticipants: 1,
		IsActive:        true,
	}
	m.services[s.ID] = s
	return s
}

func (m *memStore) addPricing(s *models.Service, kind models.PricingType, price float64) *models.Pricing {
	p := &models.Pricing{
		ID:          uuid.New(),
		ServiceID:   s.ID,
		PricingType: kind,
		Price:       price,
		Currency:    "EUR",
		MinSessions: 1,
		IsActive:    true,
	}
	m.pricings[p.ID] = p
	return p
}

func touch(id *uuid.UUID, created *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if created != nil && created.IsZero() {
		*created = time.Now()
	}
}

// ===== USERS =====

type memUsers struct{ m *memStore }

func (r memUsers) Create(ctx context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	touch(&user.ID, &user.CreatedAt)
	c := *user
	r.m.users[user.ID] = &c
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r memUsers) Update(ctx context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *user
	r.m.users[user.ID] = &c
	return nil
}

func (r memUsers) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r memUsers) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.LastLogin = &at
	return nil
}

func (r memUsers) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.User
	for _, u := range r.m.users {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

// ===== PROVIDERS =====

type memProviders struct{ m *memStore }

func (r memProviders) Create(ctx context.Context, provider *models.Provider) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.providers {
		if p.UserID == provider.UserID {
			return repositories.ErrDuplicate
		}
	}
	touch(&provider.ID, &provider.CreatedAt)
	if provider.SubscriptionStatus == "" {
		provider.SubscriptionStatus = models.SubscriptionInactive
	}
	c := *provider
	r.m.providers[provider.ID] = &c
	return nil
}

func (r memProviders) GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.providers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r memProviders) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, ph := range r.m.photos {
		if ph.ProviderID == id {
			p.Photos = append(p.Photos, *ph)
		}
	}
	for _, s := range r.m.services {
		if s.ProviderID == id {
			p.Services = append(p.Services, *s)
		}
	}
	return p, nil
}

func (r memProviders) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Provider, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.providers {
		if p.UserID == userID {
			c := *p
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r memProviders) Update(ctx context.Context, provider *models.Provider) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.providers[provider.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *provider
	r.m.providers[provider.ID] = &c
	return nil
}

func (r memProviders) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.providers[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.providers, id)
	return nil
}

func (r memProviders) IncrementViews(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.providers[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.ProfileViews++
	r.m.viewIncrements++
	return nil
}

func (r memProviders) List(ctx context.Context, filters repositories.ProviderFilters) ([]*models.Provider, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Provider
	for _, p := range r.m.providers {
		if filters.ApprovedOnly && !p.IsApproved {
			continue
		}
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		if filters.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filters.Query)) {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProfileViews > out[j].ProfileViews })
	return out, int64(len(out)), nil
}

func (r memProviders) ListForAdmin(ctx context.Context) ([]*models.ProviderAdminItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.ProviderAdminItem
	for _, p := range r.m.providers {
		item := &models.ProviderAdminItem{
			ID:                 p.ID,
			Name:               p.Name,
			Category:           p.Category,
			Address:            p.Address,
			IsApproved:         p.IsApproved,
			SubscriptionStatus: p.SubscriptionStatus,
			CreatedAt:          p.CreatedAt,
		}
		if u, ok := r.m.users[p.UserID]; ok {
			item.UserEmail = u.Email
			item.UserName = u.FullName()
		}
		out = append(out, item)
	}
	return out, nil
}

func (r memProviders) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.providers[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.IsApproved = approved
	return nil
}

func (r memProviders) SetSubscriptionStatus(ctx context.Context, id uuid.UUID, status models.SubscriptionStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.providers[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.SubscriptionStatus = status
	return nil
}

func (r memProviders) AddPhoto(ctx context.Context, photo *models.ProviderPhoto) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	touch(&photo.ID, &photo.UploadedAt)
	r.m.photos = append(r.m.photos, photo)
	return nil
}

func (r memProviders) AddCertificate(ctx context.Context, certificate *models.ProviderCertificate) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	touch(&certificate.ID, &certificate.UploadedAt)
	r.m.certificates = append(r.m.certificates, certificate)
	return nil
}

// ===== CATALOG =====

type memServices struct{ m *memStore }

func (r memServices) Create(ctx context.Context, service *models.Service) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	touch(&service.ID, &service.CreatedAt)
	c := *service
	c.Provider = nil
	r.m.services[service.ID] = &c
	return nil
}

func (r memServices) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.serviceWithProvider(id)
}

func (m *memStore) serviceWithProvider(id uuid.UUID) (*models.Service, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *s
	if p, ok := m.providers[s.ProviderID]; ok {
		pc := *p
		c.Provider = &pc
	}
	return &c, nil
}

func (r memServices) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*models.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Service
	for _, s := range r.m.services {
		if s.ProviderID == providerID {
			c := *s
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r memServices) Update(ctx context.Context, service *models.Service) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.services[service.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *service
	c.Provider = nil
	r.m.services[service.ID] = &c
	return nil
}

func (r memServices) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.services[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.services, id)
	return nil
}

type memPricings struct{ m *memStore }

func (r memPricings) Create(ctx context.Context, pricing *models.Pricing) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	touch(&pricing.ID, &pricing.CreatedAt)
	c := *pricing
	c.Service = nil
	r.m.pricings[pricing.ID] = &c
	return nil
}

func (r memPricings) GetByID(ctx context.Context, id uuid.UUID) (*models.Pricing, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.pricings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *p
	if s, err := r.m.serviceWithProvider(p.ServiceID); err == nil {
		c.Service = s
	}
	return &c, nil
}

func (r memPricings) ListByService(ctx context.Context, serviceID uuid.UUID) ([]*models.Pricing, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Pricing
	for _, p := range r.m.pricings {
		if p.ServiceID == serviceID {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r memPricings) Update(ctx context.Context, pricing *models.Pricing) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.pricings[pricing.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *pricing
	c.Service = nil
	r.m.pricings[pricing.ID] = &c
	return nil
}

func (r memPricings) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.pricings[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.pricings, id)
	return nil
}

// ===== BOOKINGS =====

type memBookings struct{ m *memStore }

func (r memBookings) Create(ctx context.Context, booking *models.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	touch(&booking.ID, &booking.CreatedAt)
	c := *booking
	c.User, c.Service, c.Pricing = nil, nil, nil
	r.m.bookings[booking.ID] = &c
	return nil
}

func (r memBookings) load(b *models.Booking) *models.Booking {
	c := *b
	if u, ok := r.m.users[b.UserID]; ok {
		uc := *u
		c.User = &uc
	}
	if s, err := r.m.serviceWithProvider(b.ServiceID); err == nil {
		c.Service = s
	}
	if b.PricingID != nil {
		if p, ok := r.m.pricings[*b.PricingID]; ok {
			pc := *p
			c.Pricing = &pc
		}
	}
	return &c
}

func (r memBookings) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.load(b), nil
}

func (r memBookings) List(ctx context.Context, filters repositories.BookingFilters) ([]*models.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Booking
	for _, b := range r.m.bookings {
		if filters.UserID != nil && b.UserID != *filters.UserID {
			continue
		}
		if filters.ProviderID != nil {
			s, ok := r.m.services[b.ServiceID]
			if !ok || s.ProviderID != *filters.ProviderID {
				continue
			}
		}
		if filters.Status != nil && b.Status != *filters.Status {
			continue
		}
		out = append(out, r.load(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memBookings) Update(ctx context.Context, booking *models.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.bookings[booking.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *booking
	c.User, c.Service, c.Pricing = nil, nil, nil
	r.m.bookings[booking.ID] = &c
	return nil
}

func (r memBookings) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.bookings[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.bookings, id)
	return nil
}

// ===== SUBSCRIPTIONS =====

type memSubscriptions struct{ m *memStore }

func (r memSubscriptions) Create(ctx context.Context, subscription *models.Subscription) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	touch(&subscription.ID, &subscription.CreatedAt)
	c := *subscription
	c.Provider = nil
	r.m.subscriptions[subscription.ID] = &c
	return nil
}

func (r memSubscriptions) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.subscriptions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *s
	if p, ok := r.m.providers[s.ProviderID]; ok {
		pc := *p
		c.Provider = &pc
	}
	return &c, nil
}

func (r memSubscriptions) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*models.Subscription, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Subscription
	for _, s := range r.m.subscriptions {
		if s.ProviderID == providerID {
			c := *s
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r memSubscriptions) Update(ctx context.Context, subscription *models.Subscription) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.subscriptions[subscription.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *subscription
	c.Provider = nil
	r.m.subscriptions[subscription.ID] = &c
	return nil
}

func (r memSubscriptions) ListLapsed(ctx context.Context, day time.Time) ([]*models.Subscription, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Subscription
	for _, s := range r.m.subscriptions {
		if s.Status == models.PlanActive && time.Time(s.EndDate).Before(models.TruncateDate(day)) {
			c := *s
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r memSubscriptions) CountActive(ctx context.Context, providerID uuid.UUID, day time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, s := range r.m.subscriptions {
		if s.ProviderID == providerID && s.IsActive(day) {
			n++
		}
	}
	return n, nil
}

// ===== COMMUNITY =====

type memReviews struct{ m *memStore }

func (r memReviews) Create(ctx context.Context, review *models.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.reviews {
		if existing.UserID == review.UserID && existing.ProviderID == review.ProviderID {
			return repositories.ErrDuplicate
		}
	}
	touch(&review.ID, &review.CreatedAt)
	c := *review
	c.User = nil
	r.m.reviews[review.ID] = &c
	return nil
}

func (r memReviews) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rv, ok := r.m.reviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *rv
	if u, ok := r.m.users[rv.UserID]; ok {
		uc := *u
		c.User = &uc
	}
	return &c, nil
}

func (r memReviews) ListByProvider(ctx context.Context, providerID uuid.UUID, filters repositories.ReviewFilters) ([]*models.Review, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Review
	for _, rv := range r.m.reviews {
		if rv.ProviderID == providerID {
			c := *rv
			out = append(out, &c)
		}
	}
	return out, int64(len(out)), nil
}

func (r memReviews) Update(ctx context.Context, review *models.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.reviews[review.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *review
	c.User = nil
	r.m.reviews[review.ID] = &c
	return nil
}

func (r memReviews) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.reviews, id)
	return nil
}

type memCategories struct{ m *memStore }

func (r memCategories) Create(ctx context.Context, category *models.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.categories {
		if c.Name == category.Name {
			return repositories.ErrDuplicate
		}
	}
	touch(&category.ID, &category.CreatedAt)
	c := *category
	r.m.categories[category.ID] = &c
	return nil
}

func (r memCategories) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func (r memCategories) List(ctx context.Context) ([]*models.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.Category, 0, len(r.m.categories))
	for _, c := range r.m.categories {
		cc := *c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memCategories) Update(ctx context.Context, category *models.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.categories[category.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *category
	r.m.categories[category.ID] = &c
	return nil
}

func (r memCategories) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.categories[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.categories, id)
	return nil
}

type memNotifications struct{ m *memStore }

func (r memNotifications) Create(ctx context.Context, n *models.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	touch(&n.ID, &n.CreatedAt)
	c := *n
	r.m.notifications[n.ID] = &c
	return nil
}

func (r memNotifications) ListByUser(ctx context.Context, userID uuid.UUID, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.m.notifications {
		if n.UserID != userID || (filters.UnreadOnly && n.IsRead) {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	return out, int64(len(out)), nil
}

func (r memNotifications) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n, ok := r.m.notifications[id]
	if !ok || n.UserID != userID {
		return repositories.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (r memNotifications) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, item := range r.m.notifications {
		if item.UserID == userID && !item.IsRead {
			item.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r memNotifications) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	list, _, err := r.ListByUser(ctx, userID, repositories.NotificationFilters{UnreadOnly: true})
	return int64(len(list)), err
}

type memChats struct{ m *memStore }

func (r memChats) Create(ctx context.Context, chat *models.Chat) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	touch(&chat.ID, &chat.CreatedAt)
	c := *chat
	r.m.chats[chat.ID] = &c
	return nil
}

func (r memChats) GetByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.chats[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func (r memChats) ListForUser(ctx context.Context, userID uuid.UUID, filters repositories.ChatFilters) ([]*models.Chat, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Chat
	for _, c := range r.m.chats {
		if c.SenderID == userID || c.ReceiverID == userID {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, int64(len(out)), nil
}

func (r memChats) ListConversation(ctx context.Context, userID, otherID, providerID uuid.UUID) ([]*models.Chat, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Chat
	for _, c := range r.m.chats {
		if c.ProviderID != providerID {
			continue
		}
		if (c.SenderID == userID && c.ReceiverID == otherID) || (c.SenderID == otherID && c.ReceiverID == userID) {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r memChats) MarkRead(ctx context.Context, id, receiverID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.chats[id]
	if !ok || c.ReceiverID != receiverID {
		return repositories.ErrNotFound
	}
	c.IsRead = true
	return nil
}

type memAlerts struct{ m *memStore }

func (r memAlerts) Create(ctx context.Context, alert *models.SearchAlert) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	touch(&alert.ID, &alert.CreatedAt)
	c := *alert
	r.m.alerts[alert.ID] = &c
	return nil
}

func (r memAlerts) GetByID(ctx context.Context, id uuid.UUID) (*models.SearchAlert, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.alerts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (r memAlerts) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SearchAlert, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.SearchAlert
	for _, a := range r.m.alerts {
		if a.UserID == userID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r memAlerts) Update(ctx context.Context, alert *models.SearchAlert) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.alerts[alert.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *alert
	r.m.alerts[alert.ID] = &c
	return nil
}

func (r memAlerts) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.alerts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.alerts, id)
	return nil
}

// ===== DASHBOARD =====

// stubDashboard returns canned aggregates and counts how often it was queried
type stubDashboard struct {
	users, providers, approved, bookings, reviews int64
	byStatus                                      []repositories.StatusCountData
	trendErr                                      error
	calls                                         int
}

func (d *stubDashboard) CountUsers(ctx context.Context) (int64, error) {
	d.calls++
	return d.users, nil
}

func (d *stubDashboard) CountProviders(ctx context.Context, approvedOnly bool) (int64, error) {
	if approvedOnly {
		return d.approved, nil
	}
	return d.providers, nil
}

func (d *stubDashboard) CountBookings(ctx context.Context) (int64, error) { return d.bookings, nil }
func (d *stubDashboard) CountReviews(ctx context.Context) (int64, error)  { return d.reviews, nil }

func (d *stubDashboard) BookingsByStatus(ctx context.Context) ([]repositories.StatusCountData, error) {
	return d.byStatus, nil
}

func (d *stubDashboard) GetTrendChange(ctx context.Context, entity string, days int, now time.Time) (float64, error) {
	if d.trendErr != nil {
		return 0, d.trendErr
	}
	return 12.345, nil
}

func (d *stubDashboard) GetBookingActivity(ctx context.Context, period string, now time.Time) ([]repositories.ActivityTrendData, error) {
	return []repositories.ActivityTrendData{{Period: "W1", Bookings: 3, Users: 2, Revenue: 99.999}}, nil
}

// ===== SHARED FIXTURES =====

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testValidator() *validator.Validator {
	return validator.New()
}

func testPublisher() *events.MockEventPublisher {
	return events.NewMockEventPublisher(testLogger())
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
