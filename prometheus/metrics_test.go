package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satshop-api/pkg/config"
)

func TestTrackDBOperationObservesDuration(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	InitMetrics(cfg)

	TrackDBOperation("query")(time.Now())
	TrackDBOperation("query")(time.Now())
	TrackDBOperation("update")(time.Now())

	// One histogram child per operation type
	assert.Equal(t, 2, testutil.CollectAndCount(DbOperationDuration))
}
