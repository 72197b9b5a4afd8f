package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

func newTestNotifier(t *testing.T, url string) *Notifier {
	t.Helper()
	n, err := NewNotifier(Config{
		WebhookURL:   url,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return n
}

func TestNewNotifier_RequiresURL(t *testing.T) {
	_, err := NewNotifier(Config{}, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotifyConfigMissing))
}

func TestNotifyWarning_Success(t *testing.T) {
	var received Card
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := newTestNotifier(t, srv.URL)
	err := n.NotifyWarning(context.Background(), sampleWarning())

	require.NoError(t, err)
	require.Len(t, received.Attachments, 1)
	assert.Equal(t, "message", received.Type)
	assert.Equal(t, "Navigation warning", received.Attachments[0].Content.Body[0].Text)
}

func TestSend_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(t, srv.URL)
	err := n.TestConnection(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSend_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := newTestNotifier(t, srv.URL)
	err := n.TestConnection(context.Background())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotifyFailed))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSend_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	n := newTestNotifier(t, srv.URL)
	err := n.TestConnection(context.Background())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotifyFailed))
	// Initial attempt plus MaxRetries.
	assert.Equal(t, int32(3), calls.Load())
}

func TestNotifyBatch_EmptyIsNoop(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	n := newTestNotifier(t, srv.URL)
	require.NoError(t, n.NotifyBatch(context.Background(), nil))
	assert.Zero(t, calls.Load())
}

func TestNotifyRiskAlert_Success(t *testing.T) {
	var received Card
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(t, srv.URL)
	err := n.NotifyRiskAlert(context.Background(), maritime.RiskProfile{
		VesselName:   "MV Ocean Star",
		OverallScore: 91.0,
		Level:        maritime.ThreatCritical,
	})

	require.NoError(t, err)
	assert.Equal(t, "Vessel risk alert", received.Attachments[0].Content.Body[0].Text)
}

func TestSend_ContextCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n, err := NewNotifier(Config{
		WebhookURL:   srv.URL,
		MaxRetries:   5,
		RetryBackoff: time.Minute,
	}, logging.NewNopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = n.TestConnection(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
