package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-chi-keypad/internal/calculator"
	"go-chi-keypad/internal/observability"
	"go-chi-keypad/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, limit int) http.Handler {
	t.Helper()
	observability.Logger = zap.NewNop()
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}
	return NewRouter(calculator.NewStore(limit))
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, 0)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil), router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/metrics", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	body := w.Body.String()
	for _, want := range []string{"calculator_active_sessions", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in /metrics output", want)
		}
	}
}

func TestNewRouterSessionLifecycle(t *testing.T) {
	router := newTestRouter(t, 0)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil), router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	requestID := w.Result().Header.Get("X-Request-ID")
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var created calculator.SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &created)
	if created.ID == "" {
		t.Fatal("expected session id")
	}
	if created.Display != "" || created.State != calculator.Empty {
		t.Fatalf("expected empty session, got %+v", created.Snapshot)
	}

	keysURL := "/calculator/sessions/" + created.ID + "/keys"

	req := testutil.NewJSONRequest(t, http.MethodPost, keysURL, calculator.KeysRequest{
		Keys: []string{"7", "Add", "3", "="},
	})
	w = testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var pressed struct {
		Results []calculator.KeyResult `json:"results"`
		Session struct {
			State         string   `json:"state"`
			Display       string   `json:"display"`
			Accumulated   *float64 `json:"accumulated_operand"`
			JustEvaluated bool     `json:"just_evaluated"`
		} `json:"session"`
	}
	testutil.DecodeJSONBody(t, w.Body, &pressed)

	wantDisplays := []string{"7", "7 + ", "7 + 3", "10"}
	if len(pressed.Results) != len(wantDisplays) {
		t.Fatalf("expected %d results, got %d", len(wantDisplays), len(pressed.Results))
	}
	for i, want := range wantDisplays {
		if got := pressed.Results[i].Display; got != want {
			t.Fatalf("key %d: expected display %q, got %q", i, want, got)
		}
	}
	if pressed.Session.State != "evaluated" || !pressed.Session.JustEvaluated {
		t.Fatalf("expected evaluated session, got %+v", pressed.Session)
	}
	if pressed.Session.Accumulated == nil || *pressed.Session.Accumulated != 10 {
		t.Fatalf("expected accumulated operand 10, got %v", pressed.Session.Accumulated)
	}

	// Continue from the result in a second request.
	req = testutil.NewJSONRequest(t, http.MethodPost, keysURL, calculator.KeysRequest{Keys: []string{"+", "2", "="}})
	w = testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+created.ID, nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var got calculator.SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &got)
	if got.Display != "12" {
		t.Fatalf("expected display %q, got %q", "12", got.Display)
	}

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodDelete, "/calculator/sessions/"+created.ID, nil), router)
	testutil.CheckResponseCode(t, http.StatusNoContent, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+created.ID, nil), router)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestNewRouterKeysReportsDivideByZeroInSession(t *testing.T) {
	router := newTestRouter(t, 0)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil), router)
	var created calculator.SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &created)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/calculator/sessions/"+created.ID+"/keys",
		calculator.KeysRequest{Keys: []string{"5", "÷", "0", "="}})
	w = testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp calculator.KeysResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	last := resp.Results[len(resp.Results)-1]
	if last.Display != "Cannot divide by 0" {
		t.Fatalf("expected display %q, got %q", "Cannot divide by 0", last.Display)
	}
	if last.Error != "divide_by_zero" {
		t.Fatalf("expected error kind %q, got %q", "divide_by_zero", last.Error)
	}
}

func TestNewRouterKeysRejectsBadInput(t *testing.T) {
	router := newTestRouter(t, 0)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil), router)
	var created calculator.SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &created)

	tests := []struct {
		name   string
		target string
		body   any
		status int
	}{
		{name: "unknown key", target: "/calculator/sessions/" + created.ID + "/keys", body: calculator.KeysRequest{Keys: []string{"7", "sqrt"}}, status: http.StatusBadRequest},
		{name: "no keys", target: "/calculator/sessions/" + created.ID + "/keys", body: calculator.KeysRequest{}, status: http.StatusBadRequest},
		{name: "unknown session", target: "/calculator/sessions/" + uuid.NewString() + "/keys", body: calculator.KeysRequest{Keys: []string{"1"}}, status: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, tc.target, tc.body), router)
			testutil.CheckResponseCode(t, tc.status, w.Code)
		})
	}

	// A rejected batch must not have touched the session.
	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+created.ID, nil), router)
	var got calculator.SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &got)
	if got.Display != "" {
		t.Fatalf("expected untouched session, got display %q", got.Display)
	}
}

func TestNewRouterSessionLimit(t *testing.T) {
	router := newTestRouter(t, 1)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil), router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil), router)
	testutil.CheckResponseCode(t, http.StatusServiceUnavailable, w.Code)
}

func TestNewRouterEvaluate(t *testing.T) {
	router := newTestRouter(t, 0)

	tests := []struct {
		expression string
		status     int
		display    string
		errMsg     string
	}{
		{expression: "3 + 4 × 2", status: http.StatusOK, display: "14"},
		{expression: "0.1 + 0.2", status: http.StatusOK, display: "0.3"},
		{expression: "5 ÷ 0", status: http.StatusUnprocessableEntity, errMsg: "Cannot divide by 0"},
		{expression: "5 ^ 2", status: http.StatusUnprocessableEntity, errMsg: "Error"},
		{expression: "0x1p4 × 2", status: http.StatusUnprocessableEntity, errMsg: "Error"},
		{expression: "+5 + 1", status: http.StatusUnprocessableEntity, errMsg: "Error"},
		{expression: "1 + Inf", status: http.StatusUnprocessableEntity, errMsg: "Error"},
		{expression: "  ", status: http.StatusBadRequest, errMsg: "empty expression"},
	}

	for _, tc := range tests {
		t.Run(tc.expression, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/calculator/evaluate", calculator.EvaluateRequest{Expression: tc.expression})
			w := testutil.ExecuteRequest(req, router)
			testutil.CheckResponseCode(t, tc.status, w.Code)

			if tc.status != http.StatusOK {
				var body map[string]string
				testutil.DecodeJSONBody(t, w.Body, &body)
				if body["error"] != tc.errMsg {
					t.Fatalf("expected error %q, got %q", tc.errMsg, body["error"])
				}
				return
			}

			var resp calculator.EvaluateResponse
			testutil.DecodeJSONBody(t, w.Body, &resp)
			if resp.Display != tc.display {
				t.Fatalf("expected display %q, got %q", tc.display, resp.Display)
			}
		})
	}
}

func TestNewRouterApply(t *testing.T) {
	router := newTestRouter(t, 0)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/calculator/apply", calculator.ApplyRequest{A: 50, Op: "%", B: 8})
	w := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp calculator.ApplyResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.Operation != "percent" || resp.Result != 4 {
		t.Fatalf("expected percent result 4, got %+v", resp)
	}

	req = testutil.NewJSONRequest(t, http.MethodPost, "/calculator/apply", calculator.ApplyRequest{A: 1, Op: "pow", B: 2})
	w = testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
}
