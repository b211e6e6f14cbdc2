package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordIndex(t *testing.T) {
	before := testutil.ToFloat64(IndexSkippedTokens)

	RecordIndex(7, 12, 30, 95, 2, 15*time.Millisecond)

	assert.Equal(t, 7.0, testutil.ToFloat64(IndexVersion))
	assert.Equal(t, 12.0, testutil.ToFloat64(IndexSize.WithLabelValues("ingredients")))
	assert.Equal(t, 30.0, testutil.ToFloat64(IndexSize.WithLabelValues("meals")))
	assert.Equal(t, 95.0, testutil.ToFloat64(IndexSize.WithLabelValues("postings")))
	assert.Equal(t, before+2, testutil.ToFloat64(IndexSkippedTokens))
}

func TestRecordAPIRequest(t *testing.T) {
	counter := APIRequestsTotal.WithLabelValues("GET", "/meals/{mealID}", "404")
	before := testutil.ToFloat64(counter)

	RecordAPIRequest("GET", "/meals/{mealID}", 404, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
