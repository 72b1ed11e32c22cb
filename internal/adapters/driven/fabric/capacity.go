package fabric

import (
	"context"
	"fmt"
)

// CapacityAPIVersion is the ARM api-version for Fabric capacity
// operations.
const CapacityAPIVersion = "2022-07-01-preview"

// SuspendCapacity pauses a dedicated capacity. The ARM endpoint answers
// 202 Accepted and completes asynchronously. Use a management client.
func (c *Client) SuspendCapacity(ctx context.Context, subscriptionID, resourceGroup, capacityName string) error {
	if _, err := c.postJSON(ctx, capacityPath(subscriptionID, resourceGroup, capacityName, "suspend"), nil, nil); err != nil {
		return fmt.Errorf("suspend capacity: %w", err)
	}
	return nil
}

// ResumeCapacity restarts a dedicated capacity. Use a management client.
func (c *Client) ResumeCapacity(ctx context.Context, subscriptionID, resourceGroup, capacityName string) error {
	if _, err := c.postJSON(ctx, capacityPath(subscriptionID, resourceGroup, capacityName, "resume"), nil, nil); err != nil {
		return fmt.Errorf("resume capacity: %w", err)
	}
	return nil
}

func capacityPath(subscriptionID, resourceGroup, capacityName, action string) string {
	return fmt.Sprintf(
		"/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Fabric/capacities/%s/%s?api-version=%s",
		subscriptionID, resourceGroup, capacityName, action, CapacityAPIVersion,
	)
}
