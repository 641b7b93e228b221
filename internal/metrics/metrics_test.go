package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.Submitted(SubmitSuccess)
	m.Submitted(SubmitSuccess)
	m.Submitted(SubmitNetwork)
	m.Polled(PollError)
	m.Resolved("SUCCESS")
	m.Cycle(3, time.Millisecond)

	require.EqualValues(t, 2, testutil.ToFloat64(m.submitted.WithLabelValues(SubmitSuccess)))
	require.EqualValues(t, 1, testutil.ToFloat64(m.submitted.WithLabelValues(SubmitNetwork)))
	require.EqualValues(t, 1, testutil.ToFloat64(m.polls.WithLabelValues(PollError)))
	require.EqualValues(t, 1, testutil.ToFloat64(m.resolved.WithLabelValues("SUCCESS")))
	require.EqualValues(t, 3, testutil.ToFloat64(m.pending))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Submitted(SubmitSuccess)

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `orders_submitted_total{result="success"} 1`)
}
