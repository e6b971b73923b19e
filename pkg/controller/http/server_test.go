package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/opsdesk/demandflow/pkg/controller/http"
	"github.com/opsdesk/demandflow/pkg/domain/types"
	"github.com/opsdesk/demandflow/pkg/repository/memory"
	"github.com/opsdesk/demandflow/pkg/usecase"
)

func newServer(t *testing.T) (*memory.Memory, *httpctrl.Server) {
	t.Helper()
	repo := memory.New()
	return repo, httpctrl.New(usecase.New(repo))
}

func doJSON(t *testing.T, srv *httpctrl.Server, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(httpctrl.ActorHeader, actor)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	_, srv := newServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
}

func TestDemandLifecycleOverHTTP(t *testing.T) {
	_, srv := newServer(t)

	// create
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/demands", "REQ1", map[string]any{
		"title":      "Warehouse automation",
		"priority":   "LOW",
		"company_id": "acme",
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	var created struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	gt.Value(t, created.Status).Equal("BACKLOG")

	base := fmt.Sprintf("/api/v1/demands/%d", created.ID)

	// risk assessment before submission
	rec = doJSON(t, srv, http.MethodPut, base+"/risk-assessment", "MGR1", map[string]any{
		"probability":   "BELOW_30",
		"impact":        "LOW",
		"response_plan": "ACCEPT",
	})
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var ra struct {
		RiskIndex float64 `json:"risk_index"`
		Band      string  `json:"band"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ra))
	gt.Value(t, ra.Band).Equal(types.RiskBandLow.String())

	// submit
	rec = doJSON(t, srv, http.MethodPost, base+"/submit", "REQ1", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	// manager approval
	rec = doJSON(t, srv, http.MethodPost, base+"/approvals", "MGR1", map[string]any{
		"level":   "MANAGER",
		"outcome": "APPROVED",
		"reason":  "within budget",
	})
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var approvalResp struct {
		Advanced bool `json:"advanced"`
		Demand   struct {
			Status string `json:"status"`
		} `json:"demand"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &approvalResp))
	gt.B(t, approvalResp.Advanced).True()
	gt.Value(t, approvalResp.Demand.Status).Equal("APPROVED")

	// history shows the full trail
	rec = doJSON(t, srv, http.MethodGet, base+"/history", "", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var history struct {
		History []struct {
			Kind string `json:"kind"`
		} `json:"history"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	// created, assessed, submitted, the approval itself, the resulting move
	gt.Number(t, len(history.History)).Equal(5)
}

func TestStatusCodes(t *testing.T) {
	t.Run("unknown demand is 404", func(t *testing.T) {
		_, srv := newServer(t)
		rec := doJSON(t, srv, http.MethodGet, "/api/v1/demands/999", "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("missing title is 400", func(t *testing.T) {
		_, srv := newServer(t)
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/demands", "REQ1", map[string]any{
			"company_id": "acme",
		})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("unconfirmed archive is 409", func(t *testing.T) {
		_, srv := newServer(t)
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/demands", "REQ1", map[string]any{
			"title":      "x",
			"company_id": "acme",
		})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)

		var created struct {
			ID int64 `json:"id"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		path := fmt.Sprintf("/api/v1/demands/%d/status", created.ID)
		rec = doJSON(t, srv, http.MethodPost, path, "REQ1", map[string]any{
			"target": "ARCHIVED",
		})
		gt.Number(t, rec.Code).Equal(http.StatusConflict)

		rec = doJSON(t, srv, http.MethodPost, path, "REQ1", map[string]any{
			"target":    "ARCHIVED",
			"confirmed": true,
		})
		gt.Number(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("bad status filter is 400", func(t *testing.T) {
		_, srv := newServer(t)
		rec := doJSON(t, srv, http.MethodGet, "/api/v1/demands?status=BOGUS", "", nil)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestActionsEndpoint(t *testing.T) {
	_, srv := newServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/demands", "REQ1", map[string]any{
		"title":      "x",
		"company_id": "acme",
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	var created struct {
		ID int64 `json:"id"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/demands/%d/actions", created.ID), "", nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var actions struct {
		Actions []struct {
			Key     string `json:"key"`
			Enabled bool   `json:"enabled"`
		} `json:"actions"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &actions))

	keys := make(map[string]bool)
	for _, a := range actions.Actions {
		keys[a.Key] = a.Enabled
	}
	gt.B(t, keys["assess_risk"]).True()
	gt.B(t, keys["move_to_awaiting_manager"]).True()
}
