package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Desorr/dropshipping-store/internal/models"
	"github.com/Desorr/dropshipping-store/internal/repo"
	"github.com/Desorr/dropshipping-store/internal/service"
)

type fakePublisher struct {
	events []map[string]any
}

func (f *fakePublisher) PublishEvent(ctx context.Context, topic, key string, event interface{}) error {
	if m, ok := event.(map[string]any); ok {
		f.events = append(f.events, m)
	}
	return nil
}

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	DB      *gorm.DB
	Cart    *CartHandler
	Balance *BalanceHandler
	Auth    *AuthHandler
	Pub     *fakePublisher
	Tokens  *service.TokenService
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)
	r := repo.NewGormRepo(db)
	pub := &fakePublisher{}
	tokens := &service.TokenService{
		DB:            db,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}

	return &testEnv{
		T:       t,
		E:       echo.New(),
		DB:      db,
		Cart:    &CartHandler{Shop: &service.ShopService{Repo: r}, Producer: pub},
		Balance: &BalanceHandler{Balance: &service.BalanceService{Repo: r}, Producer: pub},
		Auth:    &AuthHandler{DB: db, Tokens: tokens, Producer: pub},
		Pub:     pub,
		Tokens:  tokens,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) asUser(c echo.Context, userID uint) {
	c.Set("userID", userID)
	c.Set("role", "user")
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (env *testEnv) createProduct(name, price string) models.Product {
	p := models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
	}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return p
}
