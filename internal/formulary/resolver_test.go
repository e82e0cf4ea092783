package formulary

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemo-dose-safety-server/internal/domain"
	"github.com/chemo-dose-safety-server/pkg/external"
)

type stubNormalizer struct {
	calls   int
	concept *external.DrugConcept
	err     error
}

func (s *stubNormalizer) NormalizeDrugName(ctx context.Context, name string) (*external.DrugConcept, error) {
	s.calls++
	return s.concept, s.err
}

func newTestResolver(t *testing.T, normalizer DrugNormalizer) *CachedResolver {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	r, err := NewCachedResolver(Options{Normalizer: normalizer}, logger)
	require.NoError(t, err)
	return r
}

func TestResolver_StaticTableWins(t *testing.T) {
	stub := &stubNormalizer{err: fmt.Errorf("must not be called")}
	r := newTestResolver(t, stub)

	tests := []struct {
		name string
		want domain.DrugIdentity
	}{
		{"Carboplatin", domain.DrugCarboplatin},
		{"adriamycin", domain.DrugDoxorubicin},
		{"5-FU", domain.DrugFluorouracil},
	}

	for _, tt := range tests {
		res, err := r.Resolve(context.Background(), tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Identity)
		assert.Equal(t, "static", res.Source)
	}
	assert.Zero(t, stub.calls)
	assert.EqualValues(t, 3, r.Stats().StaticHits)
}

func TestResolver_RxNormFallbackMapsBrandToIngredient(t *testing.T) {
	stub := &stubNormalizer{
		concept: &external.DrugConcept{RxCUI: "40048", Name: "Xeloda", IngredientName: "capecitabine"},
	}
	r := newTestResolver(t, stub)

	res, err := r.Resolve(context.Background(), "Xeloda")
	require.NoError(t, err)
	assert.Equal(t, domain.DrugCapecitabine, res.Identity)
	assert.Equal(t, "capecitabine", res.NormalizedName)
	assert.Equal(t, "40048", res.RxCUI)
	assert.Equal(t, "rxnorm", res.Source)
}

func TestResolver_MemoryCacheSuppressesRepeatLookups(t *testing.T) {
	stub := &stubNormalizer{
		concept: &external.DrugConcept{RxCUI: "40048", Name: "Xeloda", IngredientName: "capecitabine"},
	}
	r := newTestResolver(t, stub)

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(context.Background(), "Xeloda")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, stub.calls)
	assert.EqualValues(t, 2, r.Stats().MemoryHits)
}

func TestResolver_InvalidateCache(t *testing.T) {
	stub := &stubNormalizer{
		concept: &external.DrugConcept{RxCUI: "40048", Name: "Xeloda", IngredientName: "capecitabine"},
	}
	r := newTestResolver(t, stub)

	_, err := r.Resolve(context.Background(), "Xeloda")
	require.NoError(t, err)
	r.InvalidateCache("Xeloda")
	_, err = r.Resolve(context.Background(), "Xeloda")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}

func TestResolver_UnreachableRxNormDegradesToUnknown(t *testing.T) {
	stub := &stubNormalizer{err: fmt.Errorf("connection refused")}
	r := newTestResolver(t, stub)

	res, err := r.Resolve(context.Background(), "SomeNewAgent")
	require.NoError(t, err, "a lookup failure must not block the dose check")
	assert.Equal(t, domain.DrugUnknown, res.Identity)
	assert.Equal(t, "unresolved", res.Source)
	assert.EqualValues(t, 1, r.Stats().ErrorCount)
}

func TestResolver_NoNormalizerConfigured(t *testing.T) {
	r := newTestResolver(t, nil)

	res, err := r.Resolve(context.Background(), "SomeNewAgent")
	require.NoError(t, err)
	assert.Equal(t, domain.DrugUnknown, res.Identity)
}

func TestResolver_EmptyName(t *testing.T) {
	r := newTestResolver(t, nil)
	_, err := r.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyDrugName)
}
