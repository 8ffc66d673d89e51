package query

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/metrics"
)

func countQuery(key Key, n *atomic.Int32) Query[int] {
	return Query[int]{
		Key: key,
		Fetch: func(context.Context) (int, error) {
			return int(n.Add(1)), nil
		},
	}
}

func TestMemoryClient_Fetch(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	c := NewMemoryClient(WithMetrics(metrics.New(registry)))
	require.NotEmpty(t, c.ID())

	var n atomic.Int32
	q := countQuery(ChainKey("juno-1", "juno1dao", "config", nil), &n)

	v, err := Fetch(t.Context(), c, q)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = Fetch(t.Context(), c, q)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, int32(1), n.Load())

	cached, ok := Cached(c, q)
	require.True(t, ok)
	assert.Equal(t, 1, cached)

	expected := `
# HELP daoclient_query_cache_hits_total Total number of query cache hits
# TYPE daoclient_query_cache_hits_total counter
daoclient_query_cache_hits_total 1
# HELP daoclient_query_cache_misses_total Total number of query cache misses
# TYPE daoclient_query_cache_misses_total counter
daoclient_query_cache_misses_total 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"daoclient_query_cache_hits_total", "daoclient_query_cache_misses_total"))
}

func TestMemoryClient_ErrorsNotCached(t *testing.T) {
	t.Parallel()

	c := NewMemoryClient()
	boom := errors.New("boom")

	var calls int
	q := Query[string]{
		Key: ChainKey("juno-1", "juno1dao", "info", nil),
		Fetch: func(context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", boom
			}

			return "ok", nil
		},
	}

	_, err := Fetch(t.Context(), c, q)
	require.ErrorIs(t, err, boom)
	_, ok := Cached(c, q)
	assert.False(t, ok)

	v, err := Fetch(t.Context(), c, q)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestMemoryClient_Disabled(t *testing.T) {
	t.Parallel()

	var n atomic.Int32
	q := countQuery(ChainKey("juno-1", "", "config", nil), &n)
	q.Disabled = true

	_, err := Fetch(t.Context(), NewMemoryClient(), q)
	require.ErrorIs(t, err, ErrDisabled)
	assert.Equal(t, int32(0), n.Load())
}

func TestMemoryClient_TypeMismatch(t *testing.T) {
	t.Parallel()

	c := NewMemoryClient()
	key := ChainKey("juno-1", "juno1dao", "config", nil)
	c.Set(key, "text")

	var n atomic.Int32
	_, err := Fetch(t.Context(), c, countQuery(key, &n))
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestMemoryClient_InflightDedupe(t *testing.T) {
	t.Parallel()

	c := NewMemoryClient()
	release := make(chan struct{})
	var calls atomic.Int32
	q := Query[int]{
		Key: ChainKey("juno-1", "juno1dao", "slow", nil),
		Fetch: func(context.Context) (int, error) {
			calls.Add(1)
			<-release

			return 7, nil
		},
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Fetch(context.Background(), c, q)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, timeout, tick)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 7, v)
	}
}

func TestMemoryClient_WaiterOutlivesCanceledFetch(t *testing.T) {
	t.Parallel()

	c := NewMemoryClient()
	var calls atomic.Int32
	q := Query[int]{
		Key: ChainKey("juno-1", "juno1dao", "slow", nil),
		Fetch: func(ctx context.Context) (int, error) {
			if calls.Add(1) == 1 {
				<-ctx.Done()
				return 0, ctx.Err()
			}

			return 9, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	leaderDone := make(chan error, 1)
	go func() {
		_, err := Fetch(ctx, c, q)
		leaderDone <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, timeout, tick)

	waiterDone := make(chan int, 1)
	go func() {
		v, err := Fetch(context.Background(), c, q)
		assert.NoError(t, err)
		waiterDone <- v
	}()

	cancel()
	require.ErrorIs(t, <-leaderDone, context.Canceled)
	assert.Equal(t, 9, <-waiterDone)
	assert.Equal(t, int32(2), calls.Load())

	v, ok := Cached(c, q)
	require.True(t, ok)
	assert.Equal(t, 9, v)
}

func TestMemoryClient_RefreshOrder(t *testing.T) {
	t.Parallel()

	c := NewMemoryClient()
	var order []string
	mk := func(key Key) Query[string] {
		return Query[string]{
			Key: key,
			Fetch: func(context.Context) (string, error) {
				order = append(order, key.Namespace)
				return key.Namespace, nil
			},
		}
	}
	chainQ := mk(ChainKey("juno-1", "juno1prop", "get_vote", map[string]any{"proposal_id": 1}))
	indexerQ := mk(IndexerKey("juno-1", "juno1prop", "daoProposalSingle/vote", map[string]any{"proposalId": 1}))

	_, err := Fetch(t.Context(), c, chainQ)
	require.NoError(t, err)
	_, err = Fetch(t.Context(), c, indexerQ)
	require.NoError(t, err)
	order = nil

	unknown := ChainKey("juno-1", "juno1prop", "never_fetched", nil)
	require.NoError(t, c.Refresh(t.Context(), indexerQ.Key, chainQ.Key, unknown))
	assert.Equal(t, []string{NamespaceIndexer, NamespaceChain}, order)
	assert.Equal(t, 2, c.Len())
}

func TestMemoryClient_RefreshJoinsErrors(t *testing.T) {
	t.Parallel()

	c := NewMemoryClient()
	fail := false
	q := Query[int]{
		Key: ChainKey("juno-1", "juno1dao", "flaky", nil),
		Fetch: func(context.Context) (int, error) {
			if fail {
				return 0, errors.New("flaky")
			}

			return 1, nil
		},
	}
	_, err := Fetch(t.Context(), c, q)
	require.NoError(t, err)

	fail = true
	err = c.Refresh(t.Context(), q.Key)
	require.ErrorContains(t, err, "flaky")
	_, ok := Cached(c, q)
	assert.False(t, ok)
}

func TestPrimeAndMap(t *testing.T) {
	t.Parallel()

	c := NewMemoryClient()
	var n atomic.Int32
	q := countQuery(ChainKey("juno-1", "juno1dao", "count", nil), &n)
	Prime(c, q, 41)

	v, err := Fetch(t.Context(), c, q)
	require.NoError(t, err)
	assert.Equal(t, 41, v)
	assert.Equal(t, int32(0), n.Load())

	doubled := Map(q, "double", func(v int) (int, error) { return v * 2, nil })
	assert.NotEqual(t, q.Key.String(), doubled.Key.String())
	v, err = Fetch(t.Context(), c, doubled)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestConst(t *testing.T) {
	t.Parallel()

	c := NewMemoryClient()
	q := Const[*string](ChainKey("juno-1", "juno1voting", "governance_token", nil), nil)
	require.True(t, q.Enabled())

	v, err := Fetch(t.Context(), c, q)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, 1, c.Len())
}
