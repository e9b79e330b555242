package v1_test

import (
	"context"
	"time"

	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/server/middleware"
	"github.com/kinsu128-art/it-hub/internal/store/redis"
)

// ---------------------------------------------------------------------------
// Context helpers — inject session identity into context for DoCtx
// ---------------------------------------------------------------------------

func roleCtx(userID int64, role domain.UserRole) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, role)
	ctx = context.WithValue(ctx, middleware.ContextKeySessionID, "test-session")
	ctx = context.WithValue(ctx, middleware.ContextKeyClientIP, "203.0.113.9")
	ctx = context.WithValue(ctx, middleware.ContextKeyUserAgent, "dashboard/1.0")
	return ctx
}

func writerCtx() context.Context { return roleCtx(7, domain.RoleUser) }
func adminCtx() context.Context  { return roleCtx(1, domain.RoleAdmin) }
func viewerCtx() context.Context { return roleCtx(9, domain.RoleViewer) }

// ---------------------------------------------------------------------------
// Mock Store
// ---------------------------------------------------------------------------

type mockStore struct {
	users    domain.UserRepository
	pcs      domain.PCRepository
	servers  domain.ServerRepository
	networks domain.NetworkIPRepository
	printers domain.PrinterRepository
	software domain.SoftwareRepository
	history  domain.HistoryRepository

	inTxErr error
}

func (m *mockStore) Users() domain.UserRepository           { return m.users }
func (m *mockStore) PCs() domain.PCRepository               { return m.pcs }
func (m *mockStore) Servers() domain.ServerRepository       { return m.servers }
func (m *mockStore) NetworkIPs() domain.NetworkIPRepository { return m.networks }
func (m *mockStore) Printers() domain.PrinterRepository     { return m.printers }
func (m *mockStore) Software() domain.SoftwareRepository    { return m.software }
func (m *mockStore) History() domain.HistoryRepository      { return m.history }

func (m *mockStore) InTx(_ context.Context, fn func(domain.Store) error) error {
	if m.inTxErr != nil {
		return m.inTxErr
	}
	return fn(m)
}

// ---------------------------------------------------------------------------
// Mock PCRepository
// ---------------------------------------------------------------------------

type mockPCRepo struct {
	createFunc           func(ctx context.Context, p *domain.PC) error
	getByIDFunc          func(ctx context.Context, id int64) (*domain.PC, error)
	getByAssetNumberFunc func(ctx context.Context, assetNumber string) (*domain.PC, error)
	updateFunc           func(ctx context.Context, p *domain.PC) error
	disposeFunc          func(ctx context.Context, id, userID int64) error
	listFunc             func(ctx context.Context, f domain.PCFilter) ([]*domain.PC, int64, error)
}

func (m *mockPCRepo) Create(ctx context.Context, p *domain.PC) error {
	return m.createFunc(ctx, p)
}

func (m *mockPCRepo) GetByID(ctx context.Context, id int64) (*domain.PC, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockPCRepo) GetByAssetNumber(ctx context.Context, assetNumber string) (*domain.PC, error) {
	return m.getByAssetNumberFunc(ctx, assetNumber)
}

func (m *mockPCRepo) Update(ctx context.Context, p *domain.PC) error {
	return m.updateFunc(ctx, p)
}

func (m *mockPCRepo) Dispose(ctx context.Context, id, userID int64) error {
	return m.disposeFunc(ctx, id, userID)
}

func (m *mockPCRepo) List(ctx context.Context, f domain.PCFilter) ([]*domain.PC, int64, error) {
	return m.listFunc(ctx, f)
}

// ---------------------------------------------------------------------------
// Mock ServerRepository
// ---------------------------------------------------------------------------

type mockServerRepo struct {
	createFunc           func(ctx context.Context, s *domain.Server) error
	getByIDFunc          func(ctx context.Context, id int64) (*domain.Server, error)
	getByAssetNumberFunc func(ctx context.Context, assetNumber string) (*domain.Server, error)
	updateFunc           func(ctx context.Context, s *domain.Server) error
	disposeFunc          func(ctx context.Context, id, userID int64) error
	listFunc             func(ctx context.Context, f domain.ServerFilter) ([]*domain.Server, int64, error)
}

func (m *mockServerRepo) Create(ctx context.Context, s *domain.Server) error {
	return m.createFunc(ctx, s)
}

func (m *mockServerRepo) GetByID(ctx context.Context, id int64) (*domain.Server, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockServerRepo) GetByAssetNumber(ctx context.Context, assetNumber string) (*domain.Server, error) {
	return m.getByAssetNumberFunc(ctx, assetNumber)
}

func (m *mockServerRepo) Update(ctx context.Context, s *domain.Server) error {
	return m.updateFunc(ctx, s)
}

func (m *mockServerRepo) Dispose(ctx context.Context, id, userID int64) error {
	return m.disposeFunc(ctx, id, userID)
}

func (m *mockServerRepo) List(ctx context.Context, f domain.ServerFilter) ([]*domain.Server, int64, error) {
	return m.listFunc(ctx, f)
}

// ---------------------------------------------------------------------------
// Mock NetworkIPRepository
// ---------------------------------------------------------------------------

type mockNetworkIPRepo struct {
	createFunc              func(ctx context.Context, n *domain.NetworkIP) error
	getByIDFunc             func(ctx context.Context, id int64) (*domain.NetworkIP, error)
	updateFunc              func(ctx context.Context, n *domain.NetworkIP) error
	deleteFunc              func(ctx context.Context, id int64) error
	listFunc                func(ctx context.Context, f domain.NetworkIPFilter) ([]*domain.NetworkIP, int64, error)
	findActiveByAddressFunc func(ctx context.Context, ipAddress string, excludeID int64) (*domain.NetworkIP, error)
}

func (m *mockNetworkIPRepo) Create(ctx context.Context, n *domain.NetworkIP) error {
	return m.createFunc(ctx, n)
}

func (m *mockNetworkIPRepo) GetByID(ctx context.Context, id int64) (*domain.NetworkIP, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockNetworkIPRepo) Update(ctx context.Context, n *domain.NetworkIP) error {
	return m.updateFunc(ctx, n)
}

func (m *mockNetworkIPRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockNetworkIPRepo) List(ctx context.Context, f domain.NetworkIPFilter) ([]*domain.NetworkIP, int64, error) {
	return m.listFunc(ctx, f)
}

func (m *mockNetworkIPRepo) FindActiveByAddress(ctx context.Context, ipAddress string, excludeID int64) (*domain.NetworkIP, error) {
	return m.findActiveByAddressFunc(ctx, ipAddress, excludeID)
}

// ---------------------------------------------------------------------------
// Mock PrinterRepository
// ---------------------------------------------------------------------------

type mockPrinterRepo struct {
	createFunc           func(ctx context.Context, p *domain.Printer) error
	getByIDFunc          func(ctx context.Context, id int64) (*domain.Printer, error)
	getByAssetNumberFunc func(ctx context.Context, assetNumber string) (*domain.Printer, error)
	updateFunc           func(ctx context.Context, p *domain.Printer) error
	disposeFunc          func(ctx context.Context, id, userID int64) error
	listFunc             func(ctx context.Context, f domain.PrinterFilter) ([]*domain.Printer, int64, error)
}

func (m *mockPrinterRepo) Create(ctx context.Context, p *domain.Printer) error {
	return m.createFunc(ctx, p)
}

func (m *mockPrinterRepo) GetByID(ctx context.Context, id int64) (*domain.Printer, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockPrinterRepo) GetByAssetNumber(ctx context.Context, assetNumber string) (*domain.Printer, error) {
	return m.getByAssetNumberFunc(ctx, assetNumber)
}

func (m *mockPrinterRepo) Update(ctx context.Context, p *domain.Printer) error {
	return m.updateFunc(ctx, p)
}

func (m *mockPrinterRepo) Dispose(ctx context.Context, id, userID int64) error {
	return m.disposeFunc(ctx, id, userID)
}

func (m *mockPrinterRepo) List(ctx context.Context, f domain.PrinterFilter) ([]*domain.Printer, int64, error) {
	return m.listFunc(ctx, f)
}

// ---------------------------------------------------------------------------
// Mock SoftwareRepository
// ---------------------------------------------------------------------------

type mockSoftwareRepo struct {
	createFunc             func(ctx context.Context, s *domain.Software) error
	getByIDFunc            func(ctx context.Context, id int64) (*domain.Software, error)
	updateFunc             func(ctx context.Context, s *domain.Software) error
	disposeFunc            func(ctx context.Context, id, userID int64) error
	listFunc               func(ctx context.Context, f domain.SoftwareFilter) ([]*domain.Software, int64, error)
	listExpiringWithinFunc func(ctx context.Context, days int) ([]*domain.Software, error)
}

func (m *mockSoftwareRepo) Create(ctx context.Context, s *domain.Software) error {
	return m.createFunc(ctx, s)
}

func (m *mockSoftwareRepo) GetByID(ctx context.Context, id int64) (*domain.Software, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockSoftwareRepo) Update(ctx context.Context, s *domain.Software) error {
	return m.updateFunc(ctx, s)
}

func (m *mockSoftwareRepo) Dispose(ctx context.Context, id, userID int64) error {
	return m.disposeFunc(ctx, id, userID)
}

func (m *mockSoftwareRepo) List(ctx context.Context, f domain.SoftwareFilter) ([]*domain.Software, int64, error) {
	return m.listFunc(ctx, f)
}

func (m *mockSoftwareRepo) ListExpiringWithin(ctx context.Context, days int) ([]*domain.Software, error) {
	return m.listExpiringWithinFunc(ctx, days)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc        func(ctx context.Context, u *domain.User) error
	getByIDFunc       func(ctx context.Context, id int64) (*domain.User, error)
	getByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	listFunc          func(ctx context.Context) ([]*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.getByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return m.listFunc(ctx)
}

// ---------------------------------------------------------------------------
// Recording HistoryRepository — captures audit inserts for assertions
// ---------------------------------------------------------------------------

type recordingHistoryRepo struct {
	rows      []*domain.AssetHistoryRecord
	insertErr error
	readErr   error
}

func (r *recordingHistoryRepo) Insert(_ context.Context, rec *domain.AssetHistoryRecord) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	stored := *rec
	r.rows = append(r.rows, &stored)
	return nil
}

func (r *recordingHistoryRepo) ListByAsset(_ context.Context, assetType domain.AssetType, assetID int64, limit int) ([]*domain.AssetHistoryRecord, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	var out []*domain.AssetHistoryRecord
	for _, rec := range r.rows {
		if rec.AssetType == assetType && rec.AssetID == assetID {
			out = append(out, rec)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *recordingHistoryRepo) ListByWindow(_ context.Context, _, _ time.Time, limit int) ([]*domain.AssetHistoryRecord, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	out := r.rows
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *recordingHistoryRepo) CountByAction(_ context.Context, _, _ time.Time) ([]*domain.ActionCount, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	counts := map[domain.Action]int64{}
	for _, rec := range r.rows {
		counts[rec.Action]++
	}
	var out []*domain.ActionCount
	for a, n := range counts {
		out = append(out, &domain.ActionCount{Action: a, Count: n})
	}
	return out, nil
}

func (r *recordingHistoryRepo) CountByAssetType(_ context.Context, _, _ time.Time) ([]*domain.AssetTypeCount, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	counts := map[domain.AssetType]int64{}
	for _, rec := range r.rows {
		counts[rec.AssetType]++
	}
	var out []*domain.AssetTypeCount
	for at, n := range counts {
		out = append(out, &domain.AssetTypeCount{AssetType: at, Count: n})
	}
	return out, nil
}

func (r *recordingHistoryRepo) CountByDay(_ context.Context, _, _ time.Time) ([]*domain.DayCount, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	if len(r.rows) == 0 {
		return nil, nil
	}
	return []*domain.DayCount{{Date: time.Now().Format("2006-01-02"), Count: int64(len(r.rows))}}, nil
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	loginFunc      func(ctx context.Context, username, password string) (*redis.Session, *domain.User, error)
	logoutFunc     func(ctx context.Context, sessionID string) error
	createUserFunc func(ctx context.Context, username, password, name, email string, role domain.UserRole) (*domain.User, error)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*redis.Session, *domain.User, error) {
	return m.loginFunc(ctx, username, password)
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.logoutFunc(ctx, sessionID)
}

func (m *mockAuthService) CreateUser(ctx context.Context, username, password, name, email string, role domain.UserRole) (*domain.User, error) {
	return m.createUserFunc(ctx, username, password, name, email, role)
}
