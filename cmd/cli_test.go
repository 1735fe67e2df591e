package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soiltwin/soiltwin-cli/internal/adapters/api"
	"github.com/soiltwin/soiltwin-cli/internal/application"
	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

const (
	testUser     = "asha"
	testPassword = "wheat2026"
	testToken    = "tok-asha-1"
)

// fakeBackend serves the subset of the SoilTwin API the CLI talks to.
type fakeBackend struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	revoked  bool
	events   []map[string]any
	profile  *domain.Profile
	history  []domain.HistoryEntry
	requests atomic.Int64
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{
		t: t,
		history: []domain.HistoryEntry{
			{ID: "3", Timestamp: "2026-02-14T10:10:00", Type: "Fertilizer", Subtype: "urea", Amount: "20 kg", Operator: "User/System"},
			{ID: "2", Timestamp: "2026-02-14T10:05:00", Type: "Irrigation", Subtype: "Tube Well", Amount: "50000 L", Operator: "Smart Valve"},
			{ID: "1", Timestamp: "2026-02-14T10:00:00", Type: "Rainfall", Subtype: "Natural", Amount: "25 mm", Operator: "Cloud Node"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", b.login)
	mux.HandleFunc("GET /api/soil-state", b.authorized(func(w http.ResponseWriter, _ *http.Request) {
		writeTestJSON(w, map[string]any{"location": "Ludhiana", "nitrogen": "300", "phosphorus": "30", "potassium": "200", "moisture": "40", "ph": "7.1"})
	}))
	mux.HandleFunc("GET /api/profile", b.authorized(func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.profile == nil {
			writeTestJSON(w, map[string]any{"status": "Not Found", "data": nil})
			return
		}
		writeTestJSON(w, map[string]any{"status": "Found", "data": b.profile})
	}))
	mux.HandleFunc("POST /api/profile", b.authorized(func(w http.ResponseWriter, r *http.Request) {
		var profile domain.Profile
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&profile))
		b.mu.Lock()
		b.profile = &profile
		b.mu.Unlock()
		writeTestJSON(w, map[string]any{"status": "success"})
	}))
	mux.HandleFunc("GET /api/history", b.authorized(func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeTestJSON(w, b.history)
	}))
	mux.HandleFunc("POST /api/events", b.authorized(func(w http.ResponseWriter, r *http.Request) {
		var event map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		b.mu.Lock()
		b.events = append(b.events, event)
		b.mu.Unlock()
		writeTestJSON(w, map[string]any{
			"status":    domain.EventStatusInjected,
			"event":     event,
			"new_state": map[string]any{"nitrogen": 320.0, "phosphorus": 30.0, "potassium": 200.0, "moisture": 40.0},
		})
	}))

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	assert.NoError(b.t, r.ParseForm())
	if r.PostForm.Get("username") != testUser || r.PostForm.Get("password") != testPassword {
		w.WriteHeader(http.StatusBadRequest)
		writeTestJSON(w, map[string]any{"detail": "Incorrect username or password"})
		return
	}

	b.mu.Lock()
	b.revoked = false
	b.mu.Unlock()

	writeTestJSON(w, map[string]any{
		"access_token":  testToken,
		"refresh_token": "refresh-1",
		"token_type":    "bearer",
		"username":      testUser,
		"role":          "farmer",
		"expires_in":    1800,
	})
}

func (b *fakeBackend) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)

		b.mu.Lock()
		revoked := b.revoked
		b.mu.Unlock()

		if revoked || r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			writeTestJSON(w, map[string]any{"detail": "Could not validate credentials"})
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) revoke() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked = true
}

func (b *fakeBackend) lastEvent() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(b.t, b.events)
	return b.events[len(b.events)-1]
}

func writeTestJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestLoginWhoamiLogoutRoundTrip(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, backend.server.URL, "login", "-u", testUser, "-p", testPassword)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as asha (farmer)")

	sessionFile, err := os.ReadFile(filepath.Join(home, ".soiltwin", "session.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(sessionFile), testToken)

	stdout, _, err = executeCLI(t, home, backend.server.URL, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "asha (farmer)\n", stdout)

	stdout, _, err = executeCLI(t, home, backend.server.URL, "whoami", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"asha","role":"farmer"}`, stdout)

	stdout, _, err = executeCLI(t, home, backend.server.URL, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged out")

	_, _, err = executeCLI(t, home, backend.server.URL, "whoami")
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()

	stdout, _, err := executeCLIWithInput(t, home, backend.server.URL, testPassword+"\n", "login", "-u", testUser, "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as asha")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()

	_, _, err := executeCLI(t, home, backend.server.URL, "login", "-u", testUser, "-p", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect username or password")

	_, _, err = executeCLI(t, home, backend.server.URL, "whoami")
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestProtectedCommandRequiresSession(t *testing.T) {
	backend := newFakeBackend(t)

	_, _, err := executeCLI(t, t.TempDir(), backend.server.URL, "history")
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Zero(t, backend.requests.Load(), "no request leaves without a session")
}

func TestRejectedSessionReturnsToLogin(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()
	loginForTest(t, home, backend)

	backend.revoke()

	_, _, err := executeCLI(t, home, backend.server.URL, "history")
	require.ErrorIs(t, err, errSessionExpired)

	_, _, err = executeCLI(t, home, backend.server.URL, "whoami")
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestFailedCommandStillReleasesApp(t *testing.T) {
	backend := newFakeBackend(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SOILTWIN_API_BASE_URL", backend.server.URL+"/api")

	closes := 0
	err := execute(context.Background(), func() (*cobra.Command, func()) {
		root, closeApp := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"whoami"})
		return root, func() {
			closes++
			closeApp()
		}
	})

	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Equal(t, 1, closes)
}

func TestConcurrentUnauthorizedResponsesClearSessionOnce(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()
	loginForTest(t, home, backend)
	backend.revoke()

	t.Setenv("HOME", home)
	t.Setenv("SOILTWIN_API_BASE_URL", backend.server.URL+"/api")
	app, err := wireApp()
	require.NoError(t, err)
	defer app.close()

	ctx := context.Background()
	app.sessions.Restore(ctx)
	require.True(t, app.sessions.IsAuthenticated())

	var navigations atomic.Int64
	interceptor := application.NewUnauthorizedInterceptor(app.sessions, func() { navigations.Add(1) }, nil)
	client := api.NewClient(&api.Transport{BaseURL: backend.server.URL + "/api"}, app.sessions, interceptor.HandleUnauthorized)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			_, err := client.SoilState(ctx)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
	wg.Wait()

	assert.EqualValues(t, 1, navigations.Load())
	assert.False(t, app.sessions.IsAuthenticated())

	_, _, err = executeCLI(t, home, backend.server.URL, "whoami")
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestEventPresetSendsPayloadAndAppliesProjection(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()
	loginForTest(t, home, backend)

	stdout, _, err := executeCLI(t, home, backend.server.URL, "event", "urea")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Sending [urea] event to API...")
	assert.Contains(t, stdout, "Optimistic update applied")
	assert.Contains(t, stdout, "projected health score:")

	event := backend.lastEvent()
	assert.Equal(t, "fertilizer", event["type"])
	assert.Equal(t, map[string]any{"type": "urea", "amount": 20.0}, event["data"])
}

func TestEventWithAmountMirrorsIntoData(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()
	loginForTest(t, home, backend)

	_, _, err := executeCLI(t, home, backend.server.URL, "event", "rain", "--amount", "12.5")
	require.NoError(t, err)

	event := backend.lastEvent()
	assert.Equal(t, "rain", event["type"])
	assert.Equal(t, 12.5, event["amount"])
	assert.Equal(t, map[string]any{"amount": 12.5}, event["data"])
}

func TestEventRejectsUnknownType(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()
	loginForTest(t, home, backend)

	_, _, err := executeCLI(t, home, backend.server.URL, "event", "hail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported event type "hail"`)
}

func TestHistoryFiltersByType(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()
	loginForTest(t, home, backend)

	stdout, _, err := executeCLI(t, home, backend.server.URL, "history", "--type", "irrigation", "--json")
	require.NoError(t, err)

	var entries []domain.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Tube Well", entries[0].Subtype)

	stdout, _, err = executeCLI(t, home, backend.server.URL, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Rainfall")
	assert.Contains(t, stdout, "Smart Valve")
}

func TestHistoryFollowPrintsOldestFirst(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()
	loginForTest(t, home, backend)

	stdout, _, err := executeCLI(t, home, backend.server.URL, "history", "--follow", "--duration", "300ms", "--interval", "50ms")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3, "each entry is printed once")
	assert.Contains(t, lines[0], "Rainfall")
	assert.Contains(t, lines[2], "Fertilizer")
}

func TestProfileSetMergesFlagsOverDefaults(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()
	loginForTest(t, home, backend)

	stdout, _, err := executeCLI(t, home, backend.server.URL, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No farm profile yet")

	_, _, err = executeCLI(t, home, backend.server.URL, "profile", "set", "--name", "North Field", "--nitrogen", "310")
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, home, backend.server.URL, "profile", "show", "--json")
	require.NoError(t, err)

	var profile domain.Profile
	require.NoError(t, json.Unmarshal([]byte(stdout), &profile))
	assert.Equal(t, "North Field", profile.Name)
	assert.Equal(t, 310.0, profile.Nitrogen)
	assert.Equal(t, "Wheat", profile.Crop, "unset fields keep their defaults")
}

func TestWatchPlainRendersDashboard(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()
	loginForTest(t, home, backend)

	stdout, _, err := executeCLI(t, home, backend.server.URL,
		"watch", "--plain", "--duration", "300ms", "--interval", "100ms", "--location", "")
	require.NoError(t, err)
	assert.Contains(t, stdout, "SoilTwin Dashboard")
	assert.Contains(t, stdout, "user: asha (farmer)")
	assert.Contains(t, stdout, "Soil (Ludhiana)")
}

func TestWatchStopsWhenSessionIsRejected(t *testing.T) {
	backend := newFakeBackend(t)
	home := t.TempDir()
	loginForTest(t, home, backend)
	backend.revoke()

	_, _, err := executeCLI(t, home, backend.server.URL,
		"watch", "--json", "--duration", "5s", "--interval", "100ms", "--location", "")
	require.ErrorIs(t, err, errSessionExpired)
}

func loginForTest(t *testing.T, home string, backend *fakeBackend) {
	t.Helper()

	_, _, err := executeCLI(t, home, backend.server.URL, "login", "-u", testUser, "-p", testPassword)
	require.NoError(t, err)
}

func executeCLI(t *testing.T, home string, serverURL string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, serverURL, "", args...)
}

func executeCLIWithInput(t *testing.T, home string, serverURL string, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	if serverURL != "" {
		t.Setenv("SOILTWIN_API_BASE_URL", serverURL+"/api")
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := execute(context.Background(), func() (*cobra.Command, func()) {
		root, closeApp := newRootCmd()
		root.SetIn(strings.NewReader(input))
		root.SetOut(stdout)
		root.SetErr(stderr)
		root.SetArgs(args)
		return root, closeApp
	})
	return stdout.String(), stderr.String(), err
}
