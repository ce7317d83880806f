package doctor

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/bell/internal/core/config"
	"github.com/hay-kot/bell/internal/core/notify"
	"github.com/hay-kot/bell/internal/core/session"
	"github.com/hay-kot/bell/internal/data/api"
)

type fakeAPI struct {
	res notify.ListResult
	err error
}

func (f fakeAPI) List(context.Context) (notify.ListResult, error) { return f.res, f.err }
func (fakeAPI) MarkRead(context.Context, notify.ID) error         { return nil }
func (fakeAPI) MarkAllRead(context.Context) error                 { return nil }
func (fakeAPI) Delete(context.Context, notify.ID) error           { return nil }

type fakeConn struct{ closed *bool }

func (fakeConn) Emit(context.Context, notify.EventName, any) error { return nil }
func (c fakeConn) Close() error {
	*c.closed = true
	return nil
}

type fakeTransport struct {
	err    error
	closed bool
}

func (f *fakeTransport) Connect(context.Context, func(notify.Event)) (notify.Conn, error) {
	if f.err != nil {
		return nil, f.err
	}
	return fakeConn{closed: &f.closed}, nil
}

func statuses(r Result) []Status {
	out := make([]Status, 0, len(r.Items))
	for _, item := range r.Items {
		out = append(out, item.Status)
	}
	return out
}

func TestSummary(t *testing.T) {
	results := []Result{
		{Items: []CheckItem{{Status: StatusPass}, {Status: StatusWarn}}},
		{Items: []CheckItem{{Status: StatusFail}, {Status: StatusPass}}},
	}

	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}

func TestRunAll_KeepsOrder(t *testing.T) {
	checks := []Check{NewSessionCheck(session.New("opaque")), NewPushCheck(nil, 0)}

	results := RunAll(context.Background(), checks)
	require.Len(t, results, 2)
	assert.Equal(t, "Session", results[0].Name)
	assert.Equal(t, "Push", results[1].Name)
}

func TestConfigCheck(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Server.Token = "opaque"

	result := NewConfigCheck(&cfg, "").Run(context.Background())
	assert.Equal(t, []Status{StatusPass}, statuses(result))
}

func TestConfigCheck_ReportsFieldErrorsAndWarnings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Server.URL = "ftp://example.com"
	cfg.Toast.TTL = 0

	result := NewConfigCheck(&cfg, "").Run(context.Background())

	var labels []string
	for _, item := range result.Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "server.url")
	assert.Contains(t, labels, "toast.ttl")
	assert.Contains(t, labels, "server.token")

	_, warned, failed := Summary([]Result{result})
	assert.Equal(t, 2, failed)
	assert.Equal(t, 1, warned)
}

func TestConfigCheck_ConfigPathIsDirectory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Token = "opaque"
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bell.yaml"), 0o755))

	result := NewConfigCheck(&cfg, filepath.Join(dir, "bell.yaml")).Run(context.Background())
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "config_file", result.Items[0].Label)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func TestSessionCheck(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		status Status
		detail string
	}{
		{"none", "", StatusFail, "no access token"},
		{"opaque", "abc123", StatusPass, "opaque"},
		{
			"jwt",
			signed(t, jwt.RegisteredClaims{Subject: "42", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}),
			StatusPass, "subject 42",
		},
		{
			"expired",
			signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}),
			StatusFail, "expired at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewSessionCheck(session.New(tt.token)).Run(context.Background())
			require.Len(t, result.Items, 1)
			assert.Equal(t, tt.status, result.Items[0].Status)
			assert.Contains(t, result.Items[0].Detail, tt.detail)
		})
	}
}

func TestServerCheck(t *testing.T) {
	ok := NewServerCheck(fakeAPI{res: notify.ListResult{
		Notifications: []notify.Notification{{ID: "1"}, {ID: "2"}},
		UnreadCount:   1,
	}}, 0).Run(context.Background())
	require.Len(t, ok.Items, 1)
	assert.Equal(t, StatusPass, ok.Items[0].Status)
	assert.Contains(t, ok.Items[0].Detail, "2 notifications, 1 unread")

	denied := NewServerCheck(fakeAPI{err: &api.Error{Op: "list", StatusCode: http.StatusUnauthorized, Message: "bad token"}}, 0).
		Run(context.Background())
	assert.Equal(t, StatusFail, denied.Items[0].Status)
	assert.Contains(t, denied.Items[0].Detail, "token rejected")

	down := NewServerCheck(fakeAPI{err: errors.New("connection refused")}, 0).Run(context.Background())
	assert.Equal(t, StatusFail, down.Items[0].Status)
	assert.Contains(t, down.Items[0].Detail, "connection refused")
}

func TestPushCheck(t *testing.T) {
	transport := &fakeTransport{}
	result := NewPushCheck(transport, time.Second).Run(context.Background())
	assert.Equal(t, []Status{StatusPass}, statuses(result))
	assert.True(t, transport.closed)

	result = NewPushCheck(&fakeTransport{err: errors.New("handshake failed")}, 0).Run(context.Background())
	assert.Equal(t, []Status{StatusWarn}, statuses(result))
	assert.Contains(t, result.Items[0].Detail, "handshake failed")

	result = NewPushCheck(nil, 0).Run(context.Background())
	assert.Equal(t, []Status{StatusWarn}, statuses(result))
}
