// readiness.go — blob store probe for the readiness endpoint.
package blobstore

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ReadinessChecker — blob store probe.
// Implements the handlers.ReadinessChecker interface.
type ReadinessChecker struct {
	client *Client
}

// NewReadinessChecker creates a blob store readiness check.
func NewReadinessChecker(client *Client) *ReadinessChecker {
	return &ReadinessChecker{client: client}
}

// CheckReady sends a cheap request to the service endpoint.
// Returns a status ("ok", "fail") and a message.
func (c *ReadinessChecker) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.client.BaseURL(), nil)
	if err != nil {
		return "fail", fmt.Sprintf("blob store unreachable: %v", err)
	}

	resp, err := c.client.httpClient.Do(req)
	if err != nil {
		return "fail", fmt.Sprintf("blob store unreachable: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "fail", fmt.Sprintf("blob store returned status %d", resp.StatusCode)
	}
	return "ok", "endpoint reachable"
}
