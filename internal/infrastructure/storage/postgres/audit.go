package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	appctx "costbook/internal/core/context"
	"costbook/internal/core/id"
	"costbook/internal/domain/audit"
)

const auditTable = "sys_audit"

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditRecord is a persisted audit entry.
type AuditRecord struct {
	ID                id.ID           `db:"id" json:"id"`
	EntityType        string          `db:"entity_type" json:"entityType"`
	EntityID          id.ID           `db:"entity_id" json:"entityId"`
	Action            audit.Action    `db:"action" json:"action"`
	UserID            string          `db:"user_id" json:"userId,omitempty"`
	Changes           json.RawMessage `db:"changes" json:"changes,omitempty"`
	ChangesCompressed []byte          `db:"changes_compressed" json:"-"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo" json:"-"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
}

// AuditRecorder implements audit.Recorder on the sys_audit table.
// Change sets above the threshold are stored zstd-compressed.
type AuditRecorder struct {
	table             Table[AuditRecord]
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditRecorder creates a new audit recorder.
func NewAuditRecorder(txManager *TxManager) (*AuditRecorder, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditRecorder{
		table:             NewTable[AuditRecord](txManager, auditTable, "audit_record"),
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Record implements audit.Recorder.
func (s *AuditRecorder) Record(ctx context.Context, entry audit.Entry) error {
	rec, err := s.newRecord(ctx, entry)
	if err != nil {
		return err
	}
	return s.table.Insert(ctx, rec)
}

func (s *AuditRecorder) newRecord(ctx context.Context, entry audit.Entry) (*AuditRecord, error) {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return nil, fmt.Errorf("marshal changes: %w", err)
	}

	rec := &AuditRecord{
		ID:              id.New(),
		EntityType:      entry.EntityType,
		EntityID:        entry.EntityID,
		Action:          entry.Action,
		UserID:          appctx.GetActorID(ctx),
		Changes:         changes,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}
	if len(changes) > s.compressThreshold {
		rec.ChangesCompressed = s.encoder.EncodeAll(changes, nil)
		rec.Changes = nil
		rec.CompressionAlgo = CompressionZstd
	}
	return rec, nil
}

// History returns the audit trail of an entity, newest first, with change sets decompressed.
func (s *AuditRecorder) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]AuditRecord, error) {
	q := s.table.Select().
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []AuditRecord
	if err := pgxscan.Select(ctx, s.table.Querier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	for i := range records {
		if err := s.inflate(&records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *AuditRecorder) inflate(rec *AuditRecord) error {
	if rec.CompressionAlgo != CompressionZstd || len(rec.ChangesCompressed) == 0 {
		return nil
	}
	raw, err := s.decoder.DecodeAll(rec.ChangesCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress changes: %w", err)
	}
	rec.Changes = raw
	rec.ChangesCompressed = nil
	return nil
}
