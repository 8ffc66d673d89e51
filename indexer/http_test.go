package indexer

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain/network"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/retry"
)

var fastRetry = retry.Config{Attempts: 2, Delay: time.Millisecond}

func TestHTTPClient_QueryContract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		status       int
		body         string
		wantErr      error
		wantAttempts int32
		want         string
	}{
		{
			name:         "value",
			status:       http.StatusOK,
			body:         `{"vote":"yes"}`,
			wantAttempts: 1,
			want:         "yes",
		},
		{
			name:         "not found",
			status:       http.StatusNotFound,
			wantErr:      ErrNotFound,
			wantAttempts: 1,
		},
		{
			name:         "no content",
			status:       http.StatusNoContent,
			wantErr:      ErrNotFound,
			wantAttempts: 1,
		},
		{
			name:         "null body",
			status:       http.StatusOK,
			body:         `null`,
			wantErr:      ErrNotFound,
			wantAttempts: 1,
		},
		{
			name:         "server error is retried",
			status:       http.StatusServiceUnavailable,
			body:         `down`,
			wantAttempts: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var attempts atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				assert.Equal(t, "/juno-1/contract/juno1prop/daoProposalSingle/vote", r.URL.Path)
				assert.Equal(t, "3", r.URL.Query().Get("proposalId"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			c := NewHTTPClient(srv.URL, WithRetry(fastRetry))

			var out struct {
				Vote string `json:"vote"`
			}
			err := c.QueryContract(t.Context(), "juno-1", "juno1prop", "daoProposalSingle/vote",
				map[string]string{"proposalId": "3"}, &out)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.want == "":
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, out.Vote)
			}
			assert.Equal(t, tt.wantAttempts, attempts.Load())
		})
	}
}

func TestNoop(t *testing.T) {
	t.Parallel()

	err := Noop{}.QueryContract(t.Context(), "juno-1", "juno1prop", "x", nil, nil)
	require.ErrorIs(t, err, ErrDisabled)
}

func TestRouter(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`42`))
	}))
	t.Cleanup(srv.Close)

	cfg := network.NewConfig([]network.Network{
		{ChainID: "juno-1", Indexer: srv.URL},
		{ChainID: "osmosis-1"},
	})
	r := NewRouter(cfg)

	var n int
	require.NoError(t, r.QueryContract(t.Context(), "juno-1", "juno1dao", "daoCore/item", nil, &n))
	assert.Equal(t, 42, n)

	err := r.QueryContract(t.Context(), "osmosis-1", "osmo1dao", "daoCore/item", nil, &n)
	require.ErrorIs(t, err, ErrDisabled)
}
