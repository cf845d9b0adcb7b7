package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"costbook/internal/core/apperror"
)

const idempotencyTable = "sys_idempotency"

// staleAfter is how long a pending key may stay unfinished before another
// request may reclaim it.
const staleAfter = time.Minute

// IdempotencyStatus represents the state of an idempotent operation.
type IdempotencyStatus string

const (
	IdempotencyStatusPending IdempotencyStatus = "pending"
	IdempotencyStatusSuccess IdempotencyStatus = "success"
	IdempotencyStatusFailed  IdempotencyStatus = "failed"
)

// IdempotencyRecord stores the outcome of a posting request keyed by the
// client's Idempotency-Key, so a retried movement is replayed, not re-posted.
type IdempotencyRecord struct {
	Key         string            `db:"idempotency_key"`
	UserID      string            `db:"user_id"`
	Operation   string            `db:"operation"`
	Status      IdempotencyStatus `db:"status"`
	RequestHash string            `db:"request_hash"`
	Response    []byte            `db:"response"`
	StatusCode  int               `db:"response_status"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"`
	ExpiresAt   time.Time         `db:"expires_at"`
}

// IdempotencyReplay is the cached HTTP response for replay.
type IdempotencyReplay struct {
	StatusCode int
	Body       []byte
}

// IdempotencyStore manages idempotency keys.
type IdempotencyStore struct {
	records Table[IdempotencyRecord]
	ttl     time.Duration
}

// NewIdempotencyStore creates a new idempotency store.
func NewIdempotencyStore(txManager *TxManager, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		records: NewTable[IdempotencyRecord](txManager, idempotencyTable, "idempotency_key"),
		ttl:     ttl,
	}
}

// AcquireKey claims key for the request. It returns (nil, nil) when the caller
// owns the key, a replay when the operation already finished, and CONFLICT when
// the key is in flight or was used for a different request.
func (s *IdempotencyStore) AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*IdempotencyReplay, error) {
	now := time.Now().UTC()
	rec := IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Operation:   operation,
		Status:      IdempotencyStatusPending,
		RequestHash: requestHash,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	claimed, err := s.claim(ctx, &rec)
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, nil
	}

	existing, err := s.records.Get(ctx, s.records.Select().Where(squirrel.Eq{"idempotency_key": key}), key)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, existing, &rec)
}

func (s *IdempotencyStore) claim(ctx context.Context, rec *IdempotencyRecord) (bool, error) {
	sql, args, err := Builder().
		Insert(idempotencyTable).
		SetMap(StructToMap(rec)).
		Suffix("ON CONFLICT (idempotency_key) DO NOTHING RETURNING idempotency_key").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build claim: %w", err)
	}

	var got string
	err = s.records.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("acquire idempotency key: %w", err)
	}
	return true, nil
}

func (s *IdempotencyStore) resolve(ctx context.Context, existing, req *IdempotencyRecord) (*IdempotencyReplay, error) {
	if existing.UserID != req.UserID || existing.Operation != req.Operation || existing.RequestHash != req.RequestHash {
		return nil, apperror.NewConflict("idempotency key was used for a different request").
			WithDetail("idempotency_key", existing.Key).
			WithDetail("stored_operation", existing.Operation)
	}

	switch existing.Status {
	case IdempotencyStatusSuccess, IdempotencyStatusFailed:
		return &IdempotencyReplay{StatusCode: replayStatus(existing.StatusCode), Body: existing.Response}, nil
	}

	if time.Since(existing.UpdatedAt) <= staleAfter {
		return nil, apperror.NewConflict("request with this idempotency key is in progress").
			WithDetail("idempotency_key", existing.Key)
	}

	q := Builder().
		Update(idempotencyTable).
		Set("updated_at", req.UpdatedAt).
		Where(squirrel.Eq{"idempotency_key": existing.Key, "status": IdempotencyStatusPending}).
		Where(squirrel.Eq{"updated_at": existing.UpdatedAt})
	n, err := s.records.Exec(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("reclaim stale key: %w", err)
	}
	if n == 0 {
		return nil, apperror.NewConflict("request with this idempotency key is in progress").
			WithDetail("idempotency_key", existing.Key)
	}
	return nil, nil
}

// CompleteKey stores the response of a finished request.
func (s *IdempotencyStore) CompleteKey(ctx context.Context, key string, statusCode int, body []byte) error {
	status := IdempotencyStatusSuccess
	if statusCode >= 400 {
		status = IdempotencyStatusFailed
	}

	q := Builder().
		Update(idempotencyTable).
		Set("status", status).
		Set("response", body).
		Set("response_status", statusCode).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"idempotency_key": key})

	if _, err := s.records.Exec(ctx, q); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// ReleaseKey forgets a pending key so the client may retry, used when the
// request failed before a response worth replaying.
func (s *IdempotencyStore) ReleaseKey(ctx context.Context, key string) error {
	q := Builder().
		Delete(idempotencyTable).
		Where(squirrel.Eq{"idempotency_key": key, "status": IdempotencyStatusPending})
	if _, err := s.records.Exec(ctx, q); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

// CleanupExpired removes expired idempotency records.
func (s *IdempotencyStore) CleanupExpired(ctx context.Context) (int64, error) {
	q := Builder().Delete(idempotencyTable).Where(squirrel.Lt{"expires_at": time.Now().UTC()})
	n, err := s.records.Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("cleanup idempotency keys: %w", err)
	}
	return n, nil
}

func replayStatus(status int) int {
	if status == 0 {
		return 200
	}
	return status
}
