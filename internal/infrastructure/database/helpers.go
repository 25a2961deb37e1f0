package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-backend/pkg/logger"

	pgx "github.com/jackc/pgx/v5"
)

// Close đóng pool. Gọi nhiều lần vẫn an toàn.
func (db *PostgresDB) Close() {
	if db.Pool == nil {
		return
	}
	db.Pool.Close()
	db.Pool = nil
}

// ============================================================
// TRANSACTIONS
// ============================================================

// TxIsoLevel là isolation level của transaction
type TxIsoLevel string

const (
	ReadCommitted  TxIsoLevel = "read committed"
	RepeatableRead TxIsoLevel = "repeatable read"
	Serializable   TxIsoLevel = "serializable"
)

type TxOptions struct {
	IsoLevel TxIsoLevel
	ReadOnly bool
}

// BeginTx starts một transaction. Caller phải commit hoặc rollback.
func (db *PostgresDB) BeginTx(ctx context.Context, opts *TxOptions) (pgx.Tx, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	pgxOpts := pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	}
	if opts != nil {
		switch opts.IsoLevel {
		case RepeatableRead:
			pgxOpts.IsoLevel = pgx.RepeatableRead
		case Serializable:
			pgxOpts.IsoLevel = pgx.Serializable
		}
		if opts.ReadOnly {
			pgxOpts.AccessMode = pgx.ReadOnly
		}
	}

	tx, err := db.Pool.BeginTx(ctx, pgxOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// ExecuteInTransaction chạy fn trong transaction: fn trả error => rollback,
// ngược lại commit. Error của fn được trả nguyên (không wrap) để caller
// còn so errors.Is với domain error.
func (db *PostgresDB) ExecuteInTransaction(ctx context.Context, opts *TxOptions, fn func(pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Error("[DATABASE] transaction rollback error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// ============================================================
// POOL MONITORING
// ============================================================

// MonitorPoolHealth log cảnh báo khi pool gần cạn. Chạy trong goroutine riêng,
// dừng khi ctx bị cancel.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if db.Pool == nil {
				return
			}
			stats := db.Pool.Stat()
			if stats.MaxConns() == 0 {
				continue
			}

			utilization := float64(stats.AcquiredConns()) / float64(stats.MaxConns()) * 100
			if utilization > 80 {
				logger.Warn("[MONITOR] high pool utilization", map[string]interface{}{
					"utilization_pct": utilization,
					"acquired":        stats.AcquiredConns(),
					"max":             stats.MaxConns(),
				})
			}

			if stats.AcquireCount() > 0 {
				avg := stats.AcquireDuration() / time.Duration(stats.AcquireCount())
				if avg > 100*time.Millisecond {
					logger.Warn("[MONITOR] high acquire latency", map[string]interface{}{
						"avg": avg.String(),
					})
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
