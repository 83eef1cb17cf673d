package factory

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/config"
	"github.com/djasnowski/myrefell-sub008/internal/dependencies/mocks"
	"github.com/djasnowski/myrefell-sub008/internal/seed"
	"github.com/djasnowski/myrefell-sub008/internal/services/auth"
	"github.com/djasnowski/myrefell-sub008/internal/storage/memory"
)

// TestStart is the time the mock clock of a TestApp starts at
var TestStart = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
}

// NewTestApp creates an App on memory storage with mocked dependencies and
// the default realm seeded
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(TestStart)
	mockIDs := mocks.NewMockIDs()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	balance := config.DefaultBalance()
	authCfg := auth.DefaultConfig()
	authCfg.NewPlayer = balance.NewPlayer

	app := newWithDependencies(store, mockClock, mockIDs, balance, catalog.MustDefault(), authCfg, logger)

	realm, err := seed.Default()
	if err != nil {
		panic(err)
	}
	if err := seed.Apply(context.Background(), store, realm, logger); err != nil {
		panic(err)
	}

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}
