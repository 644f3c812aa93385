package trace

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNopTracer(t *testing.T) {
	tracer := Nop()
	// Must accept notifications without effect.
	tracer.BatchStarted(1024)
	tracer.RowsParsed(10, time.Millisecond)
	tracer.BatchFinished()
}

func TestMetricsTracer(t *testing.T) {
	m := NewMetrics("readrows_test")

	m.BatchStarted(2048)
	m.BatchStarted(1024)
	m.RowsParsed(50, 5*time.Millisecond)
	m.BatchFinished()

	if got := testutil.ToFloat64(m.BatchesTotal); got != 2 {
		t.Errorf("batches_total: expected 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.BytesReceived); got != 3072 {
		t.Errorf("bytes_received_total: expected 3072, got %v", got)
	}
	if got := testutil.ToFloat64(m.RowsDecoded); got != 50 {
		t.Errorf("rows_decoded_total: expected 50, got %v", got)
	}
}

var _ Tracer = (*Metrics)(nil)
var _ Tracer = Nop()
