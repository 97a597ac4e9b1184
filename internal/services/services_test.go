package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"shopadmin/internal/audit"
	"shopadmin/internal/auth"
	"shopadmin/internal/config"
	"shopadmin/internal/domain"
	"shopadmin/internal/domain/models"
	"shopadmin/internal/repositories"
	"shopadmin/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func (p *capturePublisher) Publish(_ context.Context, ev audit.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Action+":"+ev.Entity)
	}
	return out
}

// memStore is a map-backed cache.Store that counts reads.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	m.hits++
	return true, json.Unmarshal(raw, dest)
}

func (m *memStore) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type fixture struct {
	db         *gorm.DB
	pub        *capturePublisher
	cache      *memStore
	auth       AuthService
	users      UserService
	categories CategoryService
	products   ProductService
	carts      CartService
	invoices   InvoiceService
}

func setup(t *testing.T) fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	log := utils.Discard()
	pub := &capturePublisher{}
	rec := audit.NewRecorder(pub, log)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	store := newMemStore()

	userRepo := repositories.UserRepository{DB: db}
	catRepo := repositories.CategoryRepository{DB: db}
	prodRepo := repositories.ProductRepository{DB: db}
	cartRepo := repositories.CartRepository{DB: db}

	carts := CartService{Carts: cartRepo, Products: prodRepo, Users: userRepo, Audit: rec, Log: log}
	return fixture{
		db:    db,
		pub:   pub,
		cache: store,
		auth: AuthService{
			Users:  userRepo,
			Hasher: hasher,
			Tokens: auth.NewTokenManager(auth.TokenConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "test"}),
			Audit:  rec,
			Log:    log,
		},
		users:      UserService{Users: userRepo, Hasher: hasher, Audit: rec, Log: log},
		categories: CategoryService{Categories: catRepo, Products: prodRepo, Audit: rec, Log: log},
		products: ProductService{
			Products:   prodRepo,
			Categories: catRepo,
			Cache:      store,
			Flight:     &singleflight.Group{},
			Audit:      rec,
			Log:        log,
		},
		carts: carts,
		invoices: InvoiceService{
			Carts: carts,
			Log:   log,
			Now:   func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
		},
	}
}

var admin = domain.RequestContext{UserID: 900, Role: domain.RoleAdmin, RequestID: "req-admin"}

func (f fixture) product(t *testing.T, title, price string) models.Product {
	t.Helper()
	ctx := context.Background()
	var cat models.Category
	if err := f.db.Where("name = ?", "General").First(&cat).Error; err != nil {
		cat, err = f.categories.Create(ctx, admin, CategoryInput{Name: "General"})
		require.NoError(t, err)
	}
	p, err := f.products.Create(ctx, admin, ProductInput{
		Title:      title,
		Price:      decimal.RequireFromString(price),
		Stock:      10,
		CategoryID: cat.ID,
	})
	require.NoError(t, err)
	return p
}
