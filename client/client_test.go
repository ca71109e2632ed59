package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"treeviz/core"
)

const servicePayload = `{
  "status": "success",
  "stats": {"nodes_explored": 42, "decision_time_ms": 3.5},
  "decision_tree": {
    "maxDepth": 2,
    "root": {
      "board": [["X","",""],["","O",""],["","",""]],
      "isMaximizing": true,
      "score": 1,
      "children": [
        {"move": [0,1], "score": 1, "isBestMove": true, "isMaximizing": false},
        {"move": [0,2], "score": -1, "pruned": true, "isMaximizing": false}
      ]
    }
  }
}`

func TestDecisionTree(t *testing.T) {
	var got TreeRequest
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/decision_tree", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		requestID = r.Header.Get(RequestIDHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(servicePayload))
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/")
	require.Equal(t, srv.URL+"/api", c.BaseURL())

	doc, err := c.DecisionTree(context.Background(), TreeRequest{UseAlphaBeta: true, Player: "O"})
	require.NoError(t, err)
	require.Equal(t, TreeRequest{UseAlphaBeta: true, Player: "O"}, got)
	_, err = uuid.Parse(requestID)
	require.NoError(t, err, "request id is a uuid")

	require.Equal(t, "success", doc.Status)
	require.Equal(t, 42, doc.Stats.NodesExplored)
	require.Equal(t, 3.5, doc.Stats.DecisionTimeMS)
	require.Equal(t, 2, doc.Tree.MaxDepth)
	require.Equal(t, 3, doc.Tree.Root.Count())
	require.True(t, doc.Tree.Root.Children[1].Pruned)
}

func TestDecisionTree_OmitsEmptyPlayer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		require.NotContains(t, raw, "player")
		require.Equal(t, false, raw["use_alpha_beta"])
		_, _ = w.Write([]byte(`{"root": {"isMaximizing": true}}`))
	}))
	defer srv.Close()

	doc, err := New(srv.URL).DecisionTree(context.Background(), TreeRequest{})
	require.NoError(t, err)
	require.NotNil(t, doc.Tree.Root)
}

func TestDecisionTree_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"http status", http.StatusInternalServerError, `oops`, ErrServiceStatus},
		{"error status field", http.StatusOK, `{"status": "error", "message": "game over"}`, ErrServiceStatus},
		{"not json", http.StatusOK, `<html>`, core.ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).DecisionTree(context.Background(), TreeRequest{UseAlphaBeta: true})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecisionTree_MalformedRootIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "success", "decision_tree": {"root": 17}}`))
	}))
	defer srv.Close()

	doc, err := New(srv.URL).DecisionTree(context.Background(), TreeRequest{})
	require.NoError(t, err)
	require.Nil(t, doc.Tree.Root)
}

func TestDecisionTree_BadPlayer(t *testing.T) {
	_, err := New("http://unused").DecisionTree(context.Background(), TreeRequest{Player: "Z"})
	require.ErrorIs(t, err, ErrBadPlayer)
}

func TestDecisionTree_SharesInFlightRequest(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(servicePayload))
	}))
	defer srv.Close()

	c := New(srv.URL)
	var wg sync.WaitGroup
	docs := make([]*core.Document, 4)
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := c.DecisionTree(context.Background(), TreeRequest{UseAlphaBeta: true})
			require.NoError(t, err)
			docs[i] = doc
		}(i)
	}

	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), hits.Load())
	for _, doc := range docs {
		require.Same(t, docs[0], doc)
	}
}

func TestDecisionTree_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := New(srv.URL).DecisionTree(ctx, TreeRequest{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	bare := filepath.Join(dir, "bare.json")
	require.NoError(t, os.WriteFile(bare, []byte(`{"root": {"isMaximizing": true, "children": [{"move": [1,1]}]}}`), 0o644))
	doc, err := LoadFile(bare)
	require.NoError(t, err)
	require.Equal(t, 2, doc.Tree.Root.Count())

	wrapped := filepath.Join(dir, "service.json")
	require.NoError(t, os.WriteFile(wrapped, []byte(servicePayload), 0o644))
	doc, err = LoadFile(wrapped)
	require.NoError(t, err)
	require.Equal(t, 42, doc.Stats.NodesExplored)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(dir, "junk.json")
	require.NoError(t, os.WriteFile(junk, []byte(`[1,2`), 0o644))
	_, err = LoadFile(junk)
	require.ErrorIs(t, err, core.ErrUnknownFormat)
}
