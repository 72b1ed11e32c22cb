package fabric

import (
	"context"
	"fmt"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
)

// ConnectGit connects a workspace to a source-control repository.
func (c *Client) ConnectGit(ctx context.Context, workspaceID string, details domain.GitProviderDetails) error {
	path := fmt.Sprintf("/workspaces/%s/git/connect", workspaceID)
	payload := map[string]any{"gitProviderDetails": details}
	if _, err := c.postJSON(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("connect git repository: %w", err)
	}
	return nil
}
