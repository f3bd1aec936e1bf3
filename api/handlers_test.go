package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sejongcare/leave-ledger/api"
	"github.com/sejongcare/leave-ledger/leave"
	"github.com/sejongcare/leave-ledger/sheet/memory"
)

const testPassphrase = "7573"

type recordingSender struct {
	mu     sync.Mutex
	pushes []string
}

func (s *recordingSender) Push(_ context.Context, _, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushes = append(s.pushes, text)
	return nil
}

// newTestServer stands up the full router over an in-memory workbook and
// returns a cookie-keeping client.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	wb := memory.New("records", "status")
	recordsTab, err := wb.Tab("records")
	require.NoError(t, err)
	statusTab, err := wb.Tab("status")
	require.NoError(t, err)

	roster := leave.ClinicRoster()
	ledger := leave.NewLedger(recordsTab, logger)
	status := leave.NewStatusBook(statusTab)
	sender := &recordingSender{}

	processor := leave.NewProcessor(roster, ledger, status, sender, "group-1", logger)
	processor.SetClock(func() leave.Date { return leave.NewDate(2026, 1, 5) })
	require.NoError(t, processor.SyncAll(context.Background()))

	reminder := leave.NewReminder(ledger, sender, "group-1", logger)
	reminder.SetClock(func() leave.Date { return leave.NewDate(2026, 1, 5) })

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassphrase), bcrypt.MinCost)
	require.NoError(t, err)
	sessions := api.NewSessionStore(string(hash))

	h := api.NewHandler(processor, reminder, roster, sessions, logger)
	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func login(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/login", api.LoginRequest{Passphrase: testPassphrase})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// =============================================================================
// AUTH
// =============================================================================

func TestLogin_WrongPassphrase(t *testing.T) {
	srv, client := newTestServer(t)

	resp := postJSON(t, client, srv.URL+"/api/login", api.LoginRequest{Passphrase: "wrong"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionGate_BlocksWithoutLogin(t *testing.T) {
	srv, client := newTestServer(t)

	resp, err := client.Get(srv.URL + "/api/balances")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	resp := postJSON(t, client, srv.URL+"/api/logout", struct{}{})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err := client.Get(srv.URL + "/api/balances")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthAndMetricsAreOpen(t *testing.T) {
	srv, client := newTestServer(t)

	resp, err := client.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestGetBalances(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	resp, err := client.Get(srv.URL + "/api/balances")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	balances := decode[[]api.BalanceDTO](t, resp)
	require.Len(t, balances, 2)
	assert.Equal(t, "Dohee Jung", balances[0].Employee)
	assert.Equal(t, "12", balances[0].Remaining)
	assert.Equal(t, "Mijin Jeon", balances[1].Employee)
	assert.Equal(t, "16", balances[1].Remaining)
}

func TestListEmployees(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	resp, err := client.Get(srv.URL + "/api/employees")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	employees := decode[[]api.EmployeeDTO](t, resp)
	require.Len(t, employees, 2)
	assert.Equal(t, "Dohee Jung", employees[0].Name)
	assert.NotContains(t, employees[0].Kinds, "bonus-morning")
	assert.Contains(t, employees[1].Kinds, "bonus-morning")
}

// =============================================================================
// SUBMISSION
// =============================================================================

func TestSubmitRequest_HappyPath(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	resp := postJSON(t, client, srv.URL+"/api/requests", api.SubmitRequest{
		Employee: "Mijin Jeon",
		Date:     "2026-01-09",
		Kind:     "annual",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conf := decode[api.ConfirmationDTO](t, resp)
	assert.Equal(t, "Mijin Jeon", conf.Employee)
	assert.Equal(t, "2026-01-09", conf.Date)
	assert.True(t, conf.Deducted)
	assert.Equal(t, "15", conf.Remaining)
	assert.Contains(t, conf.Message, "Mijin Jeon")

	// The record shows up in history, newest first.
	histResp, err := client.Get(srv.URL + "/api/records")
	require.NoError(t, err)
	records := decode[[]api.RecordDTO](t, histResp)
	require.Len(t, records, 1)
	assert.Equal(t, "annual", records[0].Kind)
}

func TestSubmitRequest_RuleViolationIs422(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	// Monthly with one day of notice.
	resp := postJSON(t, client, srv.URL+"/api/requests", api.SubmitRequest{
		Employee: "Dohee Jung",
		Date:     "2026-01-06",
		Kind:     "monthly",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	errDTO := decode[api.ErrorDTO](t, resp)
	assert.Equal(t, string(leave.RuleShortNotice), errDTO.Rule)
	assert.NotEmpty(t, errDTO.Error)
}

func TestSubmitRequest_UnknownEmployeeIs404(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	resp := postJSON(t, client, srv.URL+"/api/requests", api.SubmitRequest{
		Employee: "Nobody",
		Date:     "2026-02-02",
		Kind:     "annual",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmitRequest_BadDateIs400(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	resp := postJSON(t, client, srv.URL+"/api/requests", api.SubmitRequest{
		Employee: "Mijin Jeon",
		Date:     "01/09/2026",
		Kind:     "annual",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitRequest_BadKindIs400(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	resp := postJSON(t, client, srv.URL+"/api/requests", api.SubmitRequest{
		Employee: "Mijin Jeon",
		Date:     "2026-01-09",
		Kind:     "sabbatical",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// REMINDER
// =============================================================================

func TestRunReminder_Accepted(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	resp := postJSON(t, client, srv.URL+"/api/reminder/run", struct{}{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}
