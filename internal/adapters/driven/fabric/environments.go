package fabric

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
)

var (
	semverPattern      = regexp.MustCompile(`\d+\.\d+\.\d+`)
	doubleHyphenRepeat = regexp.MustCompile(`--+`)
)

// ListEnvironments returns all Spark environments in a workspace.
func (c *Client) ListEnvironments(ctx context.Context, workspaceID string) ([]domain.Environment, error) {
	var list valueList[domain.Environment]
	path := fmt.Sprintf("/workspaces/%s/environments", workspaceID)
	if err := c.getJSON(ctx, path, &list); err != nil {
		return nil, fmt.Errorf("list environments: %w", err)
	}
	return list.Value, nil
}

// PublishEnvironment publishes the staged state of a Spark environment.
func (c *Client) PublishEnvironment(ctx context.Context, workspaceID, environmentID string) error {
	path := fmt.Sprintf("/workspaces/%s/environments/%s/staging/publish", workspaceID, environmentID)
	if _, err := c.postJSON(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("publish environment: %w", err)
	}
	return nil
}

// UploadStagingLibrary uploads a library file to the named Spark
// environment's staging area and publishes the environment. The
// environment is resolved by display name within the workspace.
func (c *Client) UploadStagingLibrary(ctx context.Context, workspaceID, environmentName, libraryPath string) error {
	environments, err := c.ListEnvironments(ctx, workspaceID)
	if err != nil {
		return err
	}

	environmentID := ""
	for _, env := range environments {
		if env.DisplayName == environmentName {
			environmentID = env.ID
			break
		}
	}
	if environmentID == "" {
		return fmt.Errorf("environment %q: %w", environmentName, domain.ErrNotFound)
	}

	content, err := os.ReadFile(libraryPath)
	if err != nil {
		return fmt.Errorf("read library: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", normalizeLibraryName(filepath.Base(libraryPath)))
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("encode library: %w", err)
	}

	path := fmt.Sprintf("/workspaces/%s/environments/%s/staging/libraries", workspaceID, environmentID)
	data := body.Bytes()
	newBody := func() io.Reader { return bytes.NewReader(data) }
	if _, err := c.send(ctx, http.MethodPost, path, newBody, writer.FormDataContentType(), nil); err != nil {
		return fmt.Errorf("upload library: %w", err)
	}

	return c.PublishEnvironment(ctx, workspaceID, environmentID)
}

// normalizeLibraryName strips semantic version numbers from a library
// filename; the staging endpoint rejects re-uploads when the version
// embedded in the name changes.
func normalizeLibraryName(name string) string {
	name = semverPattern.ReplaceAllString(name, "")
	return doubleHyphenRepeat.ReplaceAllString(name, "-")
}
