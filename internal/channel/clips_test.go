package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClips_PassesListingThrough(t *testing.T) {
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"clips":[{"id":"clip_1","title":"clutch","view_count":42}],"nextCursor":"abc"}`))
	}))
	defer srv.Close()

	svc, _ := newTestService(NewClient(srv.URL+"/api", time.Second))
	got := svc.Clips(context.Background(), " Alpha ")

	assert.Equal(t, "/api/v2/channels/alpha/clips", path.Load())
	assert.Equal(t, "abc", got["nextCursor"])
	clips, ok := got[ClipsKey].([]any)
	require.True(t, ok)
	require.Len(t, clips, 1)
	first := clips[0].(map[string]any)
	assert.Equal(t, "clip_1", first["id"])
	assert.Equal(t, json.Number("42"), first["view_count"])
}

func TestClips_FailuresYieldEmptyListing(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"forbidden", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>challenge</html>"))
		}},
		{"null body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("null"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				tt.handler(w, r)
			}))
			defer srv.Close()

			svc, waits := newTestService(NewClient(srv.URL+"/api", time.Second))
			got := svc.Clips(context.Background(), "gamma")

			assert.Equal(t, EmptyClips(), got)
			assert.Equal(t, int32(1), hits.Load(), "clips are fetched once, without retry")
			assert.Empty(t, *waits)
		})
	}
}

func TestClips_UnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc, _ := newTestService(NewClient(url, 200*time.Millisecond))
	assert.Equal(t, EmptyClips(), svc.Clips(context.Background(), "gamma"))
}

func TestClips_EmptyHandle(t *testing.T) {
	f := &fakeFetcher{respond: func(int, string, string) (map[string]any, error) {
		t.Fatal("no fetch for an empty handle")
		return nil, nil
	}}
	svc, _ := newTestService(f)
	assert.Equal(t, EmptyClips(), svc.Clips(context.Background(), "  "))
	assert.Zero(t, f.CallCount())
}

func TestEmptyClips_MarshalsAsEmptyArray(t *testing.T) {
	b, err := json.Marshal(EmptyClips())
	require.NoError(t, err)
	assert.JSONEq(t, `{"clips":[]}`, string(b))
}
