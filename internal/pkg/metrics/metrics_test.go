package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Independent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	a.MembershipRenewals.Inc()
	a.MembersExpired.Add(3)

	assert.Equal(t, float64(1), testutil.ToFloat64(a.MembershipRenewals))
	assert.Equal(t, float64(3), testutil.ToFloat64(a.MembersExpired))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.MembershipRenewals))
}

func TestGatherer(t *testing.T) {
	r := NewRegistry()
	r.EventRegistrations.WithLabelValues("registered").Inc()

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["memberhub_event_registrations_total"])
}
