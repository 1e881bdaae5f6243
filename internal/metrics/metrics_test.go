package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersOnOwnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "grocery")
	m.CascadeDeletes.WithLabelValues("market").Inc()
	m.MediaOperations.WithLabelValues("upload", Outcome(errors.New("x"))).Inc()

	if got := testutil.ToFloat64(m.CascadeDeletes.WithLabelValues("market")); got != 1 {
		t.Fatalf("cascade counter = %v", got)
	}
	if got := testutil.ToFloat64(m.MediaOperations.WithLabelValues("upload", Fail)); got != 1 {
		t.Fatalf("media counter = %v", got)
	}
	// a second registry must accept a fresh set
	New(prometheus.NewRegistry(), "grocery")
}
