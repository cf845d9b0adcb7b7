// Package sla provides the subledger accounting engine that posts draft
// distributions to the general ledger.
package sla

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/lock"
	"costbook/internal/core/tx"
	"costbook/internal/domain/distribution"
	"costbook/internal/domain/gl"
	"costbook/pkg/logger"
)

var tracer = otel.Tracer("costbook/sla")

// OffsetBuilder generates the balancing credit of a single-leg WIP debit.
type OffsetBuilder interface {
	BuildOffset(ctx context.Context, debit *distribution.Distribution) (distribution.Distribution, error)
}

// Dependencies are the collaborators of the engine.
type Dependencies struct {
	Distributions distribution.Repository
	Offsets       OffsetBuilder
	Ledger        gl.Repository
	Locker        lock.Locker
	TxManager     tx.Manager

	// Now defaults to time.Now.
	Now func() time.Time
}

// Engine groups unaccounted distributions per source transaction and posts
// each balanced group as general ledger entries.
type Engine struct {
	distributions distribution.Repository
	offsets       OffsetBuilder
	ledger        gl.Repository
	locker        lock.Locker
	txManager     tx.Manager
	now           func() time.Time
}

// NewEngine creates a new accounting engine.
func NewEngine(deps Dependencies) *Engine {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		distributions: deps.Distributions,
		offsets:       deps.Offsets,
		ledger:        deps.Ledger,
		locker:        deps.Locker,
		txManager:     deps.TxManager,
		now:           now,
	}
}

// BatchResult reports a CreateAccountingBatch run.
type BatchResult struct {
	BatchID        id.ID `json:"batchId"`
	OrganizationID id.ID `json:"organizationId"`
	Posted         int   `json:"posted"`
	Skipped        int   `json:"skipped"`
	Failed         int   `json:"failed"`
	Entries        int   `json:"entries"`
}

type outcome int

const (
	outcomePosted outcome = iota
	outcomeSkipped
)

// CreateAccountingBatch posts every complete group of unaccounted distributions
// of an organization. Each group is posted in its own transaction; a failing
// group is logged and counted without stopping the batch. Runs are serialized
// per organization through the batch lock.
func (e *Engine) CreateAccountingBatch(ctx context.Context, orgID id.ID) (*BatchResult, error) {
	ctx, span := tracer.Start(ctx, "sla.create_accounting_batch",
		trace.WithAttributes(attribute.String("organization.id", orgID.String())))
	defer span.End()

	release, err := e.locker.Acquire(ctx, lock.Key("sla", orgID))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "release accounting lock failed", "error", err)
		}
	}()

	rows, err := e.distributions.ListUnaccounted(ctx, orgID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list unaccounted")
		return nil, fmt.Errorf("list unaccounted distributions: %w", err)
	}

	result := &BatchResult{BatchID: id.New(), OrganizationID: orgID}
	ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With("batch_id", result.BatchID))

	for _, group := range groupByTransaction(rows) {
		var entries int
		err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			out, n, err := e.postGroup(ctx, result.BatchID, group)
			if err != nil {
				return err
			}
			if out == outcomeSkipped {
				result.Skipped++
				return nil
			}
			entries = n
			return nil
		})
		if err != nil {
			result.Failed++
			logger.Error(ctx, "accounting group failed",
				"source_type", group[0].SourceType,
				"transaction_id", group[0].TransactionID,
				"error", err)
			continue
		}
		if entries > 0 {
			result.Posted++
			result.Entries += entries
		}
	}

	span.SetAttributes(
		attribute.Int("sla.posted", result.Posted),
		attribute.Int("sla.skipped", result.Skipped),
		attribute.Int("sla.failed", result.Failed),
	)
	logger.Info(ctx, "accounting batch completed",
		"organization_id", orgID,
		"posted", result.Posted,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"entries", result.Entries)

	return result, nil
}

// postGroup posts one transaction's distributions. It returns the number of
// entries written, or outcomeSkipped when the group is not balanced.
func (e *Engine) postGroup(ctx context.Context, batchID id.ID, group []distribution.Distribution) (outcome, int, error) {
	if distribution.NeedsOffset(group) {
		offset, err := e.offsets.BuildOffset(ctx, &group[0])
		if err != nil {
			return 0, 0, err
		}
		if err := e.distributions.Insert(ctx, []distribution.Distribution{offset}); err != nil {
			return 0, 0, fmt.Errorf("insert offset: %w", err)
		}
		group = append(group, offset)
	}

	debits, credits := split(group)
	if !balanced(debits, credits) {
		logger.Warn(ctx, "skipping unbalanced distribution group",
			"source_type", group[0].SourceType,
			"transaction_id", group[0].TransactionID,
			"debits", len(debits),
			"credits", len(credits))
		return outcomeSkipped, 0, nil
	}

	postedAt := e.now().UTC()
	entries := make([]gl.Entry, 0, len(debits))
	for i := range debits {
		entries = append(entries, gl.NewEntry(batchID, &debits[i], &credits[i], postedAt))
	}
	if err := e.ledger.Insert(ctx, entries); err != nil {
		return 0, 0, fmt.Errorf("insert gl entries: %w", err)
	}

	ids := make([]id.ID, 0, len(group))
	for _, d := range group {
		ids = append(ids, d.ID)
	}
	n, err := e.distributions.MarkAccounted(ctx, ids)
	if err != nil {
		return 0, 0, fmt.Errorf("mark accounted: %w", err)
	}
	if n != int64(len(ids)) {
		return 0, 0, apperror.NewConcurrentModification("distribution", group[0].TransactionID).
			WithDetail("expected", len(ids)).
			WithDetail("updated", n)
	}

	return outcomePosted, len(entries), nil
}

// groupByTransaction groups rows by source transaction, keeping first-seen order.
func groupByTransaction(rows []distribution.Distribution) [][]distribution.Distribution {
	index := make(map[distribution.GroupKey]int)
	var groups [][]distribution.Distribution
	for _, d := range rows {
		k := d.Key()
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], d)
	}
	return groups
}

func split(group []distribution.Distribution) (debits, credits []distribution.Distribution) {
	for _, d := range group {
		switch d.LegRole {
		case distribution.RoleDebit:
			debits = append(debits, d)
		case distribution.RoleCredit:
			credits = append(credits, d)
		}
	}
	return debits, credits
}

// balanced reports whether the i-th debit matches the i-th credit for every i.
func balanced(debits, credits []distribution.Distribution) bool {
	if len(debits) == 0 || len(debits) != len(credits) {
		return false
	}
	for i := range debits {
		if !debits[i].Amount.Equal(credits[i].Amount) {
			return false
		}
	}
	return true
}
