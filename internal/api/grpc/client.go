package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/clintrovert/prsummary/pkg/types"
)

// Client calls a remote Summarizer service
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient creates a Summarizer client on an existing connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Summarize sends the pull request to the service and returns the summary
// with the rendered comment body.
func (c *Client) Summarize(ctx context.Context, pr *types.PullRequestInfo, opts ...grpc.CallOption) (types.Summary, string, error) {
	raw, err := json.Marshal(pr)
	if err != nil {
		return types.Summary{}, "", fmt.Errorf("failed to encode pull request: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return types.Summary{}, "", fmt.Errorf("failed to encode pull request: %w", err)
	}
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return types.Summary{}, "", fmt.Errorf("failed to encode pull request: %w", err)
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, SummarizeMethod, req, resp, opts...); err != nil {
		return types.Summary{}, "", err
	}

	f := resp.GetFields()
	summary := types.Summary{
		Description:   f["description"].GetStringValue(),
		AffectedFiles: f["affected_files"].GetStringValue(),
	}
	return summary, f["comment"].GetStringValue(), nil
}
