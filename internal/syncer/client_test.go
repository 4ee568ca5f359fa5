package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blackwell-systems/codepulse/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendBatch(t *testing.T) {
	var gotPath string
	var gotBody batchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"message":  "2 activities recorded successfully",
			"accepted": 2,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	batch := []event.Activity{
		{Type: event.TypeEdit, Timestamp: time.Now(), FileName: "a.go"},
		{Type: event.TypeSave, Timestamp: time.Now(), FileName: "b.go"},
	}
	n, err := c.SendBatch(context.Background(), "alice", batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "/api/activities", gotPath)
	assert.Equal(t, "alice", gotBody.Username)
	assert.Len(t, gotBody.Activities, 2)
}

func TestClient_SendBatchServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.SendBatch(context.Background(), "alice", []event.Activity{{Type: event.TypeEdit, Timestamp: time.Now(), FileName: "a.go"}})
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestClient_SendBatchRejectionIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "fileName is required"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.SendBatch(context.Background(), "alice", []event.Activity{{Type: event.TypeEdit, Timestamp: time.Now()}})
	require.Error(t, err)
	assert.False(t, IsTransient(err))
	assert.Contains(t, err.Error(), "fileName is required")
}

func TestClient_SendBatchUnreachableIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening

	c := NewClient(srv.URL)
	_, err := c.SendBatch(context.Background(), "alice", []event.Activity{{Type: event.TypeEdit, Timestamp: time.Now(), FileName: "a.go"}})
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestClient_Heartbeat(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.NoError(t, c.Heartbeat(context.Background(), "alice"))
	assert.Equal(t, "/api/heartbeat", gotPath)
}

func TestClient_HeartbeatUnknownUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"success":false,"message":"User not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Heartbeat(context.Background(), "alice")
	require.Error(t, err)
	assert.False(t, IsTransient(err))
}
