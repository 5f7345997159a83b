package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("genres", "ok"))
	RecordRecommendation("genres", "ok", 2*time.Millisecond)
	after := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("genres", "ok"))
	assert.Equal(t, before+1, after)
}

func TestRecordCoverLookup(t *testing.T) {
	before := testutil.ToFloat64(CoverLookups.WithLabelValues("placeholder"))
	RecordCoverLookup("placeholder")
	assert.Equal(t, before+1, testutil.ToFloat64(CoverLookups.WithLabelValues("placeholder")))
}

func TestSetCatalog(t *testing.T) {
	SetCatalog(120, 35, 4)
	assert.Equal(t, float64(120), testutil.ToFloat64(CatalogBooks))
	assert.Equal(t, float64(35), testutil.ToFloat64(CatalogGenres))
	assert.Equal(t, float64(4), testutil.ToFloat64(CatalogDuplicateTitles))
}
