package fabric

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
)

func TestNormalizeLibraryName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mylib-1.2.3-py3-none-any.whl", "mylib-py3-none-any.whl"},
		{"mylib.whl", "mylib.whl"},
		{"tool-0.10.2.jar", "tool-.jar"},
		{"plain.py", "plain.py"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeLibraryName(tt.in))
		})
	}
}

func TestUploadStagingLibrary(t *testing.T) {
	libraryPath := filepath.Join(t.TempDir(), "mylib-1.2.3-py3-none-any.whl")
	require.NoError(t, os.WriteFile(libraryPath, []byte("wheel-bytes"), 0644))

	var uploadedName string
	var uploadedContent []byte
	published := false

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/workspaces/ws-1/environments":
			_, _ = w.Write([]byte(`{"value":[
				{"id":"env-1","displayName":"spark-prod"},
				{"id":"env-2","displayName":"spark-dev"}
			]}`))
		case "/workspaces/ws-1/environments/env-1/staging/libraries":
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			uploadedName = header.Filename
			uploadedContent, err = io.ReadAll(file)
			require.NoError(t, err)
			w.WriteHeader(http.StatusOK)
		case "/workspaces/ws-1/environments/env-1/staging/publish":
			published = true
			w.WriteHeader(http.StatusAccepted)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(newMockBroker("token"), server.URL)
	err := client.UploadStagingLibrary(context.Background(), "ws-1", "spark-prod", libraryPath)

	require.NoError(t, err)
	assert.Equal(t, "mylib-py3-none-any.whl", uploadedName)
	assert.Equal(t, []byte("wheel-bytes"), uploadedContent)
	assert.True(t, published, "a successful upload publishes the environment")
}

func TestUploadStagingLibrary_UnknownEnvironment(t *testing.T) {
	libraryPath := filepath.Join(t.TempDir(), "mylib.whl")
	require.NoError(t, os.WriteFile(libraryPath, []byte("x"), 0644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"value":[]}`))
	}))
	defer server.Close()

	client := newTestClient(newMockBroker("token"), server.URL)
	err := client.UploadStagingLibrary(context.Background(), "ws-1", "missing", libraryPath)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPublishEnvironment(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := newTestClient(newMockBroker("token"), server.URL)
	err := client.PublishEnvironment(context.Background(), "ws-1", "env-1")

	require.NoError(t, err)
	assert.Equal(t, "/workspaces/ws-1/environments/env-1/staging/publish", gotPath)
}
