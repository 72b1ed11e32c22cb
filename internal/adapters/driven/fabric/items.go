package fabric

import (
	"context"
	"fmt"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
)

// CreateLakehouse creates a lakehouse in a workspace and returns its ID.
// description is optional.
func (c *Client) CreateLakehouse(ctx context.Context, workspaceID, displayName, description string) (string, error) {
	payload := map[string]string{"displayName": displayName}
	if description != "" {
		payload["description"] = description
	}

	var created struct {
		ID string `json:"id"`
	}
	path := fmt.Sprintf("/workspaces/%s/lakehouses", workspaceID)
	if _, err := c.postJSON(ctx, path, payload, &created); err != nil {
		return "", fmt.Errorf("create lakehouse: %w", err)
	}
	return created.ID, nil
}

// ListLakehouses returns all lakehouses in a workspace.
func (c *Client) ListLakehouses(ctx context.Context, workspaceID string) ([]domain.Lakehouse, error) {
	var list valueList[domain.Lakehouse]
	path := fmt.Sprintf("/workspaces/%s/lakehouses", workspaceID)
	if err := c.getJSON(ctx, path, &list); err != nil {
		return nil, fmt.Errorf("list lakehouses: %w", err)
	}
	return list.Value, nil
}

// CreateWarehouse creates a warehouse in a workspace and returns its ID.
func (c *Client) CreateWarehouse(ctx context.Context, workspaceID, displayName string) (string, error) {
	payload := map[string]string{"displayName": displayName}

	var created struct {
		ID string `json:"id"`
	}
	path := fmt.Sprintf("/workspaces/%s/warehouses", workspaceID)
	if _, err := c.postJSON(ctx, path, payload, &created); err != nil {
		return "", fmt.Errorf("create warehouse: %w", err)
	}
	return created.ID, nil
}

// ListWarehouses returns all warehouses in a workspace.
func (c *Client) ListWarehouses(ctx context.Context, workspaceID string) ([]domain.Warehouse, error) {
	var list valueList[domain.Warehouse]
	path := fmt.Sprintf("/workspaces/%s/warehouses", workspaceID)
	if err := c.getJSON(ctx, path, &list); err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	return list.Value, nil
}
