package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	seen map[string]bool
	err  error
}

func (f *fakeStore) AddNotification(_ context.Context, n models.Notification) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if n.DedupeKey != "" && f.seen[n.DedupeKey] {
		return false, nil
	}
	f.seen[n.DedupeKey] = true
	return true, nil
}

type countingNotifier struct {
	calls atomic.Int32
	err   error
}

func (c *countingNotifier) Notify(context.Context, models.Notification) error {
	c.calls.Add(1)
	return c.err
}

func alert() models.Notification {
	return models.Notification{UserID: "u1", Kind: models.NotificationBudgetAlert, Title: "Budget Loisirs", Body: "80%", DedupeKey: "k"}
}

func TestStoreNotifier(t *testing.T) {
	n := NewStoreNotifier(&fakeStore{})
	require.NoError(t, n.Notify(context.Background(), alert()))
	assert.ErrorIs(t, n.Notify(context.Background(), alert()), ErrDuplicate)

	failing := NewStoreNotifier(&fakeStore{err: errors.New("disk full")})
	err := failing.Notify(context.Background(), alert())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestMulti(t *testing.T) {
	mail := &countingNotifier{}
	m := Multi{NewStoreNotifier(&fakeStore{}), mail}

	require.NoError(t, m.Notify(context.Background(), alert()))
	assert.ErrorIs(t, m.Notify(context.Background(), alert()), ErrDuplicate)
	assert.Equal(t, int32(1), mail.calls.Load(), "duplicates are not emailed")
}

func TestMulti_CollectsErrors(t *testing.T) {
	first := &countingNotifier{err: errors.New("first")}
	second := &countingNotifier{}
	err := Multi{first, second}.Notify(context.Background(), alert())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Equal(t, int32(1), second.calls.Load(), "later notifiers still run")
}

func TestLogNotifier(t *testing.T) {
	logger := logging.NewMockLogger()
	require.NoError(t, NewLogNotifier(logger).Notify(context.Background(), alert()))
	assert.True(t, logger.HasEntry("INFO", "Budget Loisirs"))
}

func TestNewMailgunNotifier_RequiresConfig(t *testing.T) {
	_, err := NewMailgunNotifier(MailgunConfig{Domain: "mg.example.com"}, nil)
	assert.Error(t, err)
}

func TestMailgunNotifier_Send(t *testing.T) {
	var posted atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/messages") {
			posted.Store(true)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"<20260101.1@mg.example.com>","message":"Queued. Thank you."}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	mg := mailgun.NewMailgun("mg.example.com", "key-test")
	mg.SetAPIBase(srv.URL + "/v3")
	n := newMailgunNotifier(mg, MailgunConfig{Sender: "alerts@example.com", Recipient: "me@example.com"}, logging.NewMockLogger())

	require.NoError(t, n.Notify(context.Background(), alert()))
	assert.True(t, posted.Load())
}
