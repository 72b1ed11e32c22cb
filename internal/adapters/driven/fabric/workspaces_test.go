package fabric

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkspace_SynchronousBody(t *testing.T) {
	var gotPayload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/workspaces", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"ws-1","displayName":"analytics"}`))
	}))
	defer server.Close()

	client := newTestClient(newMockBroker("token"), server.URL)
	id, err := client.CreateWorkspace(context.Background(), "analytics", "cap-1")

	require.NoError(t, err)
	assert.Equal(t, "ws-1", id)
	assert.Equal(t, map[string]string{"displayName": "analytics", "capacityId": "cap-1"}, gotPayload)
}

func TestCreateWorkspace_AsynchronousLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Location", "https://api.fabric.microsoft.com/v1/workspaces/ws-async")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := newTestClient(newMockBroker("token"), server.URL)
	id, err := client.CreateWorkspace(context.Background(), "analytics", "")

	require.NoError(t, err)
	assert.Equal(t, "ws-async", id)
}

func TestCreateWorkspace_OmitsEmptyCapacity(t *testing.T) {
	var gotPayload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{"id":"ws-1"}`))
	}))
	defer server.Close()

	client := newTestClient(newMockBroker("token"), server.URL)
	_, err := client.CreateWorkspace(context.Background(), "analytics", "")

	require.NoError(t, err)
	assert.NotContains(t, gotPayload, "capacityId")
}

func TestListWorkspaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"value":[
			{"id":"ws-1","displayName":"analytics","capacityId":"cap-1"},
			{"id":"ws-2","displayName":"sandbox"}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(newMockBroker("token"), server.URL)
	workspaces, err := client.ListWorkspaces(context.Background())

	require.NoError(t, err)
	require.Len(t, workspaces, 2)
	assert.Equal(t, "analytics", workspaces[0].DisplayName)
	assert.Equal(t, "cap-1", workspaces[0].CapacityID)
	assert.Empty(t, workspaces[1].CapacityID)
}

func TestProvisionIdentity(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := newTestClient(newMockBroker("token"), server.URL)
	err := client.ProvisionIdentity(context.Background(), "ws-1")

	require.NoError(t, err)
	assert.Equal(t, "/workspaces/ws-1/provisionIdentity", gotPath)
}

func TestAssignToCapacity(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := newTestClient(newMockBroker("token"), server.URL)
	err := client.AssignToCapacity(context.Background(), "ws-1", "cap-9")

	require.NoError(t, err)
	assert.Equal(t, "/workspaces/ws-1/assignToCapacity", gotPath)
	assert.Equal(t, map[string]string{"capacityId": "cap-9"}, gotPayload)
}
