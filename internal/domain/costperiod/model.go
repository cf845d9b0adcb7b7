// Package costperiod provides the cost period calendar and the posting gate.
package costperiod

import (
	"context"
	"strings"
	"time"

	"costbook/internal/core/apperror"
	"costbook/internal/core/entity"
	"costbook/internal/core/id"
)

// Status is the posting state of a cost period.
type Status string

const (
	StatusFutureEntry   Status = "FUTURE_ENTRY"
	StatusOpen          Status = "OPEN"
	StatusClosed        Status = "CLOSED"
	StatusForeverClosed Status = "FOREVER_CLOSED"
)

// transitions lists the allowed source statuses per target status.
var transitions = map[Status][]Status{
	StatusOpen:          {StatusFutureEntry, StatusClosed},
	StatusClosed:        {StatusOpen},
	StatusForeverClosed: {StatusClosed},
}

// CanTransition reports whether from -> to is an allowed admin action.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// Period is a window of a cost organization's calendar.
// The window covers [StartDate, EndDate] inclusive at day granularity (UTC).
type Period struct {
	entity.Tracked

	CostOrganizationID id.ID     `db:"cost_organization_id" json:"costOrganizationId"`
	Name               string    `db:"name" json:"name"`
	StartDate          time.Time `db:"start_date" json:"startDate"`
	EndDate            time.Time `db:"end_date" json:"endDate"`
	Status             Status    `db:"status" json:"status"`
}

// NewPeriod creates a period in Future Entry status.
func NewPeriod(costOrgID id.ID, name string, start, end time.Time, actor string) *Period {
	return &Period{
		Tracked:            entity.NewTracked(actor),
		CostOrganizationID: costOrgID,
		Name:               name,
		StartDate:          Day(start),
		EndDate:            Day(end),
		Status:             StatusFutureEntry,
	}
}

// Validate implements entity.Validatable interface.
func (p *Period) Validate(_ context.Context) error {
	if id.IsNil(p.CostOrganizationID) {
		return apperror.NewValidation("cost organization is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("period name is required")
	}
	if p.EndDate.Before(p.StartDate) {
		return apperror.NewValidation("period end date is before start date").
			WithDetail("start_date", p.StartDate).
			WithDetail("end_date", p.EndDate)
	}
	return nil
}

// Covers reports whether date falls inside the period.
func (p *Period) Covers(date time.Time) bool {
	d := Day(date)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// Overlaps reports whether the period shares a day with [start, end].
func (p *Period) Overlaps(start, end time.Time) bool {
	return !Day(start).After(p.EndDate) && !Day(end).Before(p.StartDate)
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
