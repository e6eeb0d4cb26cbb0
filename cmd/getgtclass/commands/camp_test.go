package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ktran04/getgtclass/lib/banner"
	"github.com/ktran04/getgtclass/lib/notify"
)

func TestNotifyOnSuccess(t *testing.T) {
	posts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
	}))
	defer server.Close()

	n := notify.New(notify.Config{SlackWebhooks: []string{server.URL}})
	results := []banner.Result{{CRN: "12345", Outcome: banner.OutcomeAccepted}}

	// the command context is already gone by the time a Ctrl+C'd camp
	// reaches the notify step
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	notifyOnSuccess(ctx, n, results, context.Canceled)
	require.Equal(t, 0, posts, "a run that did not finish cleanly must not notify")

	notifyOnSuccess(ctx, n, results, nil)
	require.Equal(t, 1, posts, "a won seat notifies even after the run context is canceled")
}
