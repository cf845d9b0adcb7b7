package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
	"costbook/internal/core/lock"
	"costbook/internal/core/tx"
	"costbook/internal/core/types"
	"costbook/internal/domain/approval"
	"costbook/internal/domain/audit"
	"costbook/internal/domain/catalogs/item"
	"costbook/internal/domain/catalogs/organization"
	"costbook/internal/domain/catalogs/subinventory"
	"costbook/internal/domain/costing"
	"costbook/internal/domain/costperiod"
	"costbook/internal/domain/distribution"
	"costbook/internal/domain/documents/material"
	"costbook/internal/domain/registers/itemcost"
	"costbook/internal/domain/registers/onhand"
	"costbook/internal/domain/scenario"
	"costbook/internal/infrastructure/http/v1/middleware"
	"costbook/internal/infrastructure/storage/postgres"
	"costbook/pkg/logger"
)

type fakePool struct{ err error }

func (p fakePool) Ping(context.Context) error { return p.err }

func (p fakePool) Stats() postgres.PoolStats { return postgres.PoolStats{MaxConns: 25} }

type memoryKeys struct {
	stored   map[string]*postgres.IdempotencyReplay
	released []string
}

func (m *memoryKeys) AcquireKey(_ context.Context, key, _, _, _ string) (*postgres.IdempotencyReplay, error) {
	return m.stored[key], nil
}

func (m *memoryKeys) CompleteKey(_ context.Context, key string, statusCode int, body []byte) error {
	m.stored[key] = &postgres.IdempotencyReplay{StatusCode: statusCode, Body: append([]byte(nil), body...)}
	return nil
}

func (m *memoryKeys) ReleaseKey(_ context.Context, key string) error {
	m.released = append(m.released, key)
	return nil
}

type api struct {
	router *gin.Engine
	keys   *memoryKeys
	orgs   *organization.Service
	setup  *organization.Setup
	itemID id.ID
	subID  id.ID
	ledger *material.MemoryRepository
}

var day = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func newAPI(t *testing.T) *api {
	t.Helper()
	ctx := context.Background()

	a := &api{
		keys:   &memoryKeys{stored: map[string]*postgres.IdempotencyReplay{}},
		itemID: id.New(),
		subID:  id.New(),
		ledger: material.NewMemoryRepository(),
	}
	a.orgs = organization.NewService(organization.NewMemoryRepository(), tx.Passthrough{})
	setup, err := a.orgs.Onboard(ctx, "P1", "Plant 1")
	require.NoError(t, err)
	a.setup = setup
	org := setup.Inventory.ID

	items := item.NewMemoryRepository()
	subs := subinventory.NewMemoryRepository()
	require.NoError(t, items.Create(ctx, &item.Item{ID: a.itemID, OrganizationID: org, Code: "BOLT"}))
	require.NoError(t, subs.Create(ctx, &subinventory.Subinventory{ID: a.subID, OrganizationID: org, Code: "MAIN"}))

	periods := costperiod.NewService(costperiod.NewMemoryRepository(), a.orgs, tx.Passthrough{})
	period, err := periods.CreatePeriod(ctx, setup.Cost.ID, "2026-06", day.AddDate(0, 0, -14), day.AddDate(0, 0, 15))
	require.NoError(t, err)
	_, err = periods.OpenPeriod(ctx, period.ID)
	require.NoError(t, err)

	dists := distribution.NewMemoryRepository()
	a.ledger.HasDistributions = dists.HasDistributions
	generator := distribution.NewGenerator(dists, distribution.Chart{
		distribution.LineInventoryValuation:  "1400",
		distribution.LineReceivingAccrual:    "2100",
		distribution.LineInventoryAdjustment: "5300",
		distribution.LineCOGS:                "5000",
	}, "USD")

	costs := itemcost.NewMemoryRepository()
	coster := costing.NewService(costing.Dependencies{
		Costs:         costs,
		Books:         a.orgs,
		Ledger:        a.ledger,
		Items:         items,
		Distributions: generator,
		Locker:        lock.NewLocal(),
		TxManager:     tx.Passthrough{},
	})
	transactions := material.NewService(material.Dependencies{
		Repo:           a.ledger,
		Items:          items,
		Subinventories: subs,
		Balances:       onhand.NewService(onhand.NewMemoryRepository()),
		Gate:           periods,
		Coster:         coster,
		Distributions:  generator,
		TxManager:      tx.Passthrough{},
	})

	recorder := &audit.Memory{}
	registry := approval.NewRegistry()
	approvals := approval.NewService(approval.NewMemoryRepository(), registry, recorder, tx.Passthrough{})
	scenarios := scenario.NewService(scenario.Dependencies{
		Repo:          scenario.NewMemoryRepository(),
		Organizations: a.orgs,
		Costs:         costs,
		Approvals:     approvals,
		Audit:         recorder,
		TxManager:     tx.Passthrough{},
	})
	registry.Register(approval.EntityCostScenario, scenarios)

	a.router = NewRouter(RouterConfig{
		Logger:        logger.Nop(),
		Pool:          fakePool{},
		Version:       "test",
		Idempotency:   a.keys,
		Organizations: a.orgs,
		Transactions:  transactions,
		Costing:       coster,
		Periods:       periods,
		Scenarios:     scenarios,
		Approvals:     approvals,
	})
	return a
}

func (a *api) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (a *api) receipt(qty, unitCost string) map[string]any {
	return map[string]any{
		"itemId":          a.itemID.String(),
		"type":            material.TypeMiscReceipt,
		"quantity":        qty,
		"transactionDate": day,
		"subinventoryId":  a.subID.String(),
		"unitCost":        unitCost,
	}
}

func TestRouter_Health(t *testing.T) {
	a := newAPI(t)

	w := a.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	w = a.do(t, http.MethodGet, "/health/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "costbook", decode(t, w)["app"])
}

func TestRouter_OnboardAndListOrganizations(t *testing.T) {
	a := newAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/organizations", map[string]any{"code": "P2", "name": "Plant 2"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/v1/organizations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]any)
	assert.Len(t, items, 2)
}

func TestRouter_ExecuteTransaction(t *testing.T) {
	a := newAPI(t)
	path := "/api/v1/organizations/" + a.setup.Inventory.ID.String() + "/transactions"

	w := a.do(t, http.MethodPost, path, a.receipt("10", "4.50"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	booked := types.MustMoney(body["bookedUnitCost"].(string))
	assert.True(t, booked.Equal(types.MustMoney("4.50")), booked.String())

	txn := body["transaction"].(map[string]any)
	w = a.do(t, http.MethodGet, "/api/v1/transactions/"+txn["id"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(material.TypeMiscReceipt), decode(t, w)["type"])

	w = a.do(t, http.MethodGet, path+"?page=1&pageSize=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.Len(t, list["data"].([]any), 1)
	assert.EqualValues(t, 1, list["pagination"].(map[string]any)["totalItems"])
}

func TestRouter_ErrorsAreRenderedAsJSON(t *testing.T) {
	a := newAPI(t)

	w := a.do(t, http.MethodGet, "/api/v1/transactions/not-an-id", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, decode(t, w)["code"])

	w = a.do(t, http.MethodGet, "/api/v1/transactions/"+id.New().String(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, decode(t, w)["code"])

	path := "/api/v1/organizations/" + a.setup.Inventory.ID.String() + "/transactions"
	req := a.receipt("10", "4.50")
	req["transactionDate"] = day.AddDate(0, 2, 0)
	w = a.do(t, http.MethodPost, path, req)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestRouter_ClosedPeriodRejectsTransactions(t *testing.T) {
	a := newAPI(t)

	w := a.do(t, http.MethodGet, "/api/v1/cost-organizations/"+a.setup.Cost.ID.String()+"/periods", nil)
	require.Equal(t, http.StatusOK, w.Code)
	periods := decode(t, w)["items"].([]any)
	require.Len(t, periods, 1)
	periodID := periods[0].(map[string]any)["id"].(string)

	w = a.do(t, http.MethodPost, "/api/v1/periods/"+periodID+"/close", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, string(costperiod.StatusClosed), decode(t, w)["status"])

	path := "/api/v1/organizations/" + a.setup.Inventory.ID.String() + "/transactions"
	w = a.do(t, http.MethodPost, path, a.receipt("10", "4.50"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, apperror.CodePeriodClosed, decode(t, w)["code"])
}

func TestRouter_IdempotentPostIsReplayed(t *testing.T) {
	a := newAPI(t)
	path := "/api/v1/organizations/" + a.setup.Inventory.ID.String() + "/transactions"

	first := a.do(t, http.MethodPost, path, a.receipt("5", "2.00"), middleware.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := a.do(t, http.MethodPost, path, a.receipt("5", "2.00"), middleware.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Len(t, a.ledger.All(), 1)
}

func TestRouter_FailedIdempotentPostReleasesKey(t *testing.T) {
	a := newAPI(t)
	path := "/api/v1/organizations/" + a.setup.Inventory.ID.String() + "/transactions"

	req := a.receipt("5", "2.00")
	req["subinventoryId"] = id.New().String()
	w := a.do(t, http.MethodPost, path, req, middleware.HeaderIdempotencyKey, "k-2")
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	assert.Equal(t, []string{"k-2"}, a.keys.released)
	assert.NotContains(t, a.keys.stored, "k-2")
}

func TestRouter_ScenarioApprovalFlow(t *testing.T) {
	a := newAPI(t)
	costOrg := a.setup.Cost.ID.String()

	w := a.do(t, http.MethodPost, "/api/v1/cost-organizations/"+costOrg+"/scenarios", map[string]any{"name": "FY27"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	scenarioID := decode(t, w)["id"].(string)

	w = a.do(t, http.MethodPost, "/api/v1/scenarios/"+scenarioID+"/costs", map[string]any{
		"itemId":      a.itemID.String(),
		"costElement": scenario.ElementMaterial,
		"unitCost":    "3.25",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/v1/scenarios/"+scenarioID+"/publish", nil, middleware.HeaderUserID, "planner")
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	request := decode(t, w)
	assert.Equal(t, "planner", request["requestedBy"])

	w = a.do(t, http.MethodGet, "/api/v1/approvals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"].([]any), 1)

	w = a.do(t, http.MethodPost, "/api/v1/approvals/"+request["id"].(string)+"/approve", nil, middleware.HeaderUserID, "controller")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	approved := decode(t, w)
	assert.Equal(t, string(approval.StatusApproved), approved["status"])
	assert.Equal(t, "controller", approved["decidedBy"])

	w = a.do(t, http.MethodGet, "/api/v1/scenarios/"+scenarioID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(scenario.TypeCurrent), decode(t, w)["type"])

	w = a.do(t, http.MethodGet, "/api/v1/scenarios/"+scenarioID+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["items"])
}
