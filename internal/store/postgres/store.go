package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/kinsu128-art/it-hub/internal/domain"
)

// DB is the query surface shared by *pgxpool.Pool and pgx.Tx, so every
// repository works identically inside and outside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store bundles all PostgreSQL repositories over one connection pool.
// It satisfies domain.Store.
type Store struct {
	pool *pgxpool.Pool // nil for a transaction-bound view
	db   DB

	users      *UserRepo
	pcs        *PCRepo
	servers    *ServerRepo
	networkIPs *NetworkIPRepo
	printers   *PrinterRepo
	software   *SoftwareRepo
	history    *HistoryRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	s := newStore(pool)
	s.pool = pool

	return s, nil
}

func newStore(db DB) *Store {
	return &Store{
		db:         db,
		users:      NewUserRepo(db),
		pcs:        NewPCRepo(db),
		servers:    NewServerRepo(db),
		networkIPs: NewNetworkIPRepo(db),
		printers:   NewPrinterRepo(db),
		software:   NewSoftwareRepo(db),
		history:    NewHistoryRepo(db),
	}
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Users() domain.UserRepository           { return s.users }
func (s *Store) PCs() domain.PCRepository               { return s.pcs }
func (s *Store) Servers() domain.ServerRepository       { return s.servers }
func (s *Store) NetworkIPs() domain.NetworkIPRepository { return s.networkIPs }
func (s *Store) Printers() domain.PrinterRepository     { return s.printers }
func (s *Store) Software() domain.SoftwareRepository    { return s.software }
func (s *Store) History() domain.HistoryRepository      { return s.history }

// InTx runs fn against a store view bound to one transaction. Nested calls
// open savepoints, so a batch inside an outer unit of work still rolls back
// as a whole.
func (s *Store) InTx(ctx context.Context, fn func(domain.Store) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres.InTx: begin: %w", err)
	}

	if err := fn(newStore(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Warn().Err(rbErr).Msg("postgres: rollback failed")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres.InTx: commit: %w", err)
	}

	return nil
}

// --- Shared helpers ---

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfZero(n int64) *int64 {
	if n == 0 {
		return nil
	}
	return &n
}

func nilIfZeroInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func derefInt(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
