package fabric

import (
	"context"
	"fmt"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
)

// valueList is the envelope the Fabric API wraps collections in.
type valueList[T any] struct {
	Value []T `json:"value"`
}

// CreateWorkspace creates a workspace and returns its ID. Creation is
// asynchronous; the API reports the ID through the Location header.
// capacityID is optional.
func (c *Client) CreateWorkspace(ctx context.Context, displayName, capacityID string) (string, error) {
	payload := map[string]string{"displayName": displayName}
	if capacityID != "" {
		payload["capacityId"] = capacityID
	}

	var created struct {
		ID string `json:"id"`
	}
	header, err := c.postJSON(ctx, "/workspaces", payload, &created)
	if err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}

	// Synchronous creation answers with a body; asynchronous creation
	// only carries a Location header.
	if created.ID != "" {
		return created.ID, nil
	}
	id, err := idFromLocation(header)
	if err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	return id, nil
}

// ListWorkspaces returns all workspaces the identity can see.
func (c *Client) ListWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	var list valueList[domain.Workspace]
	if err := c.getJSON(ctx, "/workspaces", &list); err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	return list.Value, nil
}

// ProvisionIdentity provisions a managed identity for a workspace.
func (c *Client) ProvisionIdentity(ctx context.Context, workspaceID string) error {
	path := fmt.Sprintf("/workspaces/%s/provisionIdentity", workspaceID)
	if _, err := c.postJSON(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("provision identity: %w", err)
	}
	return nil
}

// AssignToCapacity moves a workspace onto a capacity.
func (c *Client) AssignToCapacity(ctx context.Context, workspaceID, capacityID string) error {
	path := fmt.Sprintf("/workspaces/%s/assignToCapacity", workspaceID)
	payload := map[string]string{"capacityId": capacityID}
	if _, err := c.postJSON(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("assign to capacity: %w", err)
	}
	return nil
}
