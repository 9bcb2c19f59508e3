package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"portfolio-tracker/internal/dto"
	"portfolio-tracker/internal/model"
	"portfolio-tracker/pkg/utils"
)

var errNotFound = errors.New("record not found")

// memStore backs the fake repositories. The fake unit of work snapshots it
// before fn runs and restores the snapshot when fn fails.
type memStore struct {
	mu         sync.Mutex
	positions  map[uint]model.Position
	trades     map[uint]model.Trade
	securities map[uint]model.Security
	users      map[uint]model.User
	nextID     uint
	clock      time.Time
	fail       map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		positions:  map[uint]model.Position{},
		trades:     map[uint]model.Trade{},
		securities: map[uint]model.Security{},
		users:      map[uint]model.User{},
		clock:      time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		fail:       map[string]error{},
	}
}

type memSnapshot struct {
	positions  map[uint]model.Position
	trades     map[uint]model.Trade
	securities map[uint]model.Security
	users      map[uint]model.User
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		positions:  copyMap(s.positions),
		trades:     copyMap(s.trades),
		securities: copyMap(s.securities),
		users:      copyMap(s.users),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = snap.positions
	s.trades = snap.trades
	s.securities = snap.securities
	s.users = snap.users
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

// failure must be called with mu held.
func (s *memStore) failure(op string) error {
	return s.fail[op]
}

func (s *memStore) addSecurity(ticker string, price float64) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.securities[id] = model.Security{ID: id, Name: ticker + " LTD", TickerSymbol: ticker, CurrentPrice: price, IsActive: true}
	return id
}

func (s *memStore) position(id uint) model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positions[id]
}

func (s *memStore) positionFor(userID, securityID uint) (model.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.positions {
		if p.UserID == userID && p.SecurityID == securityID {
			return p, true
		}
	}
	return model.Position{}, false
}

func (s *memStore) tradesOf(positionID uint) []model.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tradesOfLocked(positionID)
}

func (s *memStore) tradesOfLocked(positionID uint) []model.Trade {
	var out []model.Trade
	for _, t := range s.trades {
		if t.PositionID == positionID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type fakeUnitOfWork struct {
	store *memStore
	runs  int
}

func (u *fakeUnitOfWork) Run(ctx context.Context, fn func(opts ...utils.DBOption) error) error {
	u.runs++
	snap := u.store.snapshot()
	if err := fn(); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

type fakePositionRepo struct{ store *memStore }

func (r *fakePositionRepo) Create(ctx context.Context, position *model.Position, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("position.create"); err != nil {
		return err
	}
	position.ID = r.store.id()
	r.store.positions[position.ID] = *position
	return nil
}

func (r *fakePositionRepo) Update(ctx context.Context, id uint, state dto.PositionState, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("position.update"); err != nil {
		return err
	}
	p, ok := r.store.positions[id]
	if !ok {
		return errNotFound
	}
	p.Quantity = state.Quantity
	p.AverageBuyPrice = state.AveragePrice
	r.store.positions[id] = p
	return nil
}

func (r *fakePositionRepo) GetByID(ctx context.Context, id, userID uint, opts ...utils.DBOption) (*model.Position, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("position.get"); err != nil {
		return nil, err
	}
	p, ok := r.store.positions[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePositionRepo) GetByUserAndSecurity(ctx context.Context, userID, securityID uint, opts ...utils.DBOption) (*model.Position, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("position.get"); err != nil {
		return nil, err
	}
	for _, p := range r.store.positions {
		if p.UserID == userID && p.SecurityID == securityID {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePositionRepo) GetAll(ctx context.Context, userID uint, opts ...utils.DBOption) ([]model.Position, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("position.list"); err != nil {
		return nil, err
	}
	var out []model.Position
	for _, p := range r.store.positions {
		if p.UserID == userID {
			p.Security = r.store.securities[p.SecurityID]
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeTradeRepo struct{ store *memStore }

func (r *fakeTradeRepo) Append(ctx context.Context, trade *model.Trade, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("trade.append"); err != nil {
		return err
	}
	trade.ID = r.store.id()
	r.store.clock = r.store.clock.Add(time.Minute)
	trade.CreatedAt = r.store.clock
	r.store.trades[trade.ID] = *trade
	return nil
}

func (r *fakeTradeRepo) GetLast(ctx context.Context, positionID uint, opts ...utils.DBOption) (*model.Trade, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	trades := r.store.tradesOfLocked(positionID)
	if len(trades) == 0 {
		return nil, nil
	}
	last := trades[len(trades)-1]
	return &last, nil
}

func (r *fakeTradeRepo) ReplaceLast(ctx context.Context, tradeID uint, param dto.ReplaceTradeParam, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("trade.replace"); err != nil {
		return err
	}
	t, ok := r.store.trades[tradeID]
	if !ok {
		return errNotFound
	}
	t.PositionID = param.PositionID
	t.Type = param.Type
	t.Amount = param.Amount
	t.Quantity = param.Quantity
	r.store.trades[tradeID] = t
	return nil
}

func (r *fakeTradeRepo) Remove(ctx context.Context, tradeID uint, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("trade.remove"); err != nil {
		return err
	}
	if _, ok := r.store.trades[tradeID]; !ok {
		return errNotFound
	}
	delete(r.store.trades, tradeID)
	return nil
}

func (r *fakeTradeRepo) ListForPosition(ctx context.Context, positionID uint, opts ...utils.DBOption) ([]model.Trade, error) {
	return r.store.tradesOf(positionID), nil
}

func (r *fakeTradeRepo) ListForUser(ctx context.Context, userID uint, opts ...utils.DBOption) ([]model.TradeWithTicker, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("trade.list"); err != nil {
		return nil, err
	}
	var out []model.TradeWithTicker
	for _, t := range r.store.trades {
		p := r.store.positions[t.PositionID]
		if p.UserID != userID {
			continue
		}
		out = append(out, model.TradeWithTicker{Trade: t, TickerSymbol: r.store.securities[p.SecurityID].TickerSymbol})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeSecurityRepo struct{ store *memStore }

func (r *fakeSecurityRepo) Get(ctx context.Context, param model.GetSecurityParam, opts ...utils.DBOption) ([]model.Security, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("security.get"); err != nil {
		return nil, err
	}
	var out []model.Security
	for _, sec := range r.store.securities {
		if param.IsActive != nil && sec.IsActive != *param.IsActive {
			continue
		}
		if len(param.TickerSymbols) > 0 && !utils.ContainsString(param.TickerSymbols, sec.TickerSymbol) {
			continue
		}
		out = append(out, sec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TickerSymbol < out[j].TickerSymbol })
	return out, nil
}

func (r *fakeSecurityRepo) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Security, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sec, ok := r.store.securities[id]
	if !ok {
		return nil, nil
	}
	return &sec, nil
}

func (r *fakeSecurityRepo) FindExistingTickers(ctx context.Context, tickers []string, opts ...utils.DBOption) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []string
	for _, sec := range r.store.securities {
		if utils.ContainsString(tickers, sec.TickerSymbol) {
			out = append(out, sec.TickerSymbol)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeSecurityRepo) CreateBatch(ctx context.Context, securities []model.Security, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("security.create"); err != nil {
		return err
	}
	for i := range securities {
		securities[i].ID = r.store.id()
		r.store.securities[securities[i].ID] = securities[i]
	}
	return nil
}

func (r *fakeSecurityRepo) UpdatePrices(ctx context.Context, prices []dto.SecurityPrice, updatedBy *uint, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("security.update"); err != nil {
		return err
	}
	for _, p := range prices {
		sec, ok := r.store.securities[p.ID]
		if !ok {
			return dto.ErrSecurityNotFound
		}
		sec.CurrentPrice = p.CurrentPrice
		sec.UpdatedBy = updatedBy
		r.store.securities[p.ID] = sec
	}
	return nil
}

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) GetUserByExternalID(ctx context.Context, externalID string, opts ...utils.DBOption) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.ExternalID == externalID {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *model.User, opts ...utils.DBOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.failure("user.create"); err != nil {
		return err
	}
	user.ID = r.store.id()
	r.store.users[user.ID] = *user
	return nil
}
