package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portfolio-tracker/config"
	"portfolio-tracker/internal/dto"
	"portfolio-tracker/pkg/cache"
	"portfolio-tracker/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuoteRepo struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  []string
}

func (r *fakeQuoteRepo) GetLastPrice(ctx context.Context, ticker string) (*dto.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ticker)
	price, ok := r.prices[ticker]
	if !ok {
		return nil, errors.New("no data returned for symbol: " + ticker)
	}
	return &dto.Quote{TickerSymbol: ticker, Price: price}, nil
}

func newPriceRefreshFixture(t *testing.T, quotes map[string]float64) (*memStore, *fakeQuoteRepo, SecurityService, PriceRefreshService) {
	t.Helper()
	store := newMemStore()
	cfg := &config.Config{
		Cache:     config.Cache{SecurityListing: time.Minute},
		PriceFeed: config.PriceFeed{MaxConcurrency: 2},
	}
	uow := &fakeUnitOfWork{store: store}
	securityRepo := &fakeSecurityRepo{store}
	quoteRepo := &fakeQuoteRepo{prices: quotes}
	securitySvc := NewSecurityService(cfg, logger.NewNop(), cache.NewCache(time.Minute, time.Minute), securityRepo, uow)
	refresh := NewPriceRefreshService(cfg, logger.NewNop(), securityRepo, quoteRepo, uow, securitySvc)
	return store, quoteRepo, securitySvc, refresh
}

func TestPriceRefreshService_Refresh(t *testing.T) {
	store, quotes, securitySvc, refresh := newPriceRefreshFixture(t, map[string]float64{
		"TCS":  3600.5,
		"INFY": 1490,
	})
	ctx := context.Background()
	tcs := store.addSecurity("TCS", 3500)
	infy := store.addSecurity("INFY", 1500)
	wipro := store.addSecurity("WIPRO", 400)
	old := store.addSecurity("OLD", 10)
	sec := store.securities[old]
	sec.IsActive = false
	store.securities[old] = sec

	listed, err := securitySvc.ListSecurities(ctx, "TCS")
	require.NoError(t, err)
	assert.Equal(t, 3500.0, listed[0].CurrentPrice)

	result, err := refresh.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, []string{"WIPRO"}, result.Failed)

	assert.Equal(t, 3600.5, store.securities[tcs].CurrentPrice)
	assert.Equal(t, 1490.0, store.securities[infy].CurrentPrice)
	assert.Equal(t, 400.0, store.securities[wipro].CurrentPrice)
	assert.Nil(t, store.securities[tcs].UpdatedBy)
	assert.NotContains(t, quotes.calls, "OLD")

	listed, err = securitySvc.ListSecurities(ctx, "TCS")
	require.NoError(t, err)
	assert.Equal(t, 3600.5, listed[0].CurrentPrice)
}

func TestPriceRefreshService_Refresh_NothingToDo(t *testing.T) {
	_, _, _, refresh := newPriceRefreshFixture(t, nil)

	result, err := refresh.Refresh(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Updated)
	assert.Empty(t, result.Failed)
}

func TestPriceRefreshService_Refresh_StoreFailure(t *testing.T) {
	store, _, _, refresh := newPriceRefreshFixture(t, map[string]float64{"TCS": 1})
	id := store.addSecurity("TCS", 5)
	store.fail["security.update"] = errors.New("read-only transaction")

	_, err := refresh.Refresh(context.Background())
	assert.ErrorIs(t, err, dto.ErrTransactionFailed)
	assert.Equal(t, 5.0, store.securities[id].CurrentPrice)
}
