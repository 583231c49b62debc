package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
	"git.home.luguber.info/inful/jekyll-studio/internal/site"
)

type structureRequest struct {
	Prompt string `json:"prompt"`
	Name   string `json:"name,omitempty"`
}

// GenerateStructure asks the backend to design a site for prompt. name is a
// hint for the site's directory name and may be empty.
func (c *Client) GenerateStructure(ctx context.Context, prompt, name string) (*site.Document, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, serrors.ValidationFailed("prompt", "must not be empty")
	}
	data, err := c.postJSON(ctx, EndpointStructure, structureRequest{Prompt: prompt, Name: name})
	if err != nil {
		return nil, err
	}
	return site.Decode(data)
}

// PostRequest describes a single post to generate.
type PostRequest struct {
	Prompt string `json:"prompt"`
	Title  string `json:"title,omitempty"`
	Site   string `json:"site,omitempty"`
}

// PostResponse is a generated post. Title may be empty when the backend
// leaves naming to the caller.
type PostResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GeneratePost asks the backend to write one post.
func (c *Client) GeneratePost(ctx context.Context, req PostRequest) (*PostResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, serrors.ValidationFailed("prompt", "must not be empty")
	}
	data, err := c.postJSON(ctx, EndpointPost, req)
	if err != nil {
		return nil, err
	}
	var out PostResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, serrors.BackendRequest(c.endpoint(EndpointPost), fmt.Errorf("decode response: %w", err))
	}
	if strings.TrimSpace(out.Content) == "" {
		return nil, serrors.BackendRequest(c.endpoint(EndpointPost), fmt.Errorf("response has no content"))
	}
	return &out, nil
}
