// Copyright (c) Microsoft. All rights reserved.

package glm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

// Client implements [alltools.ChatClient] using the GLM chat completions
// API. Use [New] to create one.
type Client struct {
	tp      transport
	model   string
	handler at.ChatHandler
}

// Verify interface compliance at compile time.
var _ at.ChatClient = (*Client)(nil)

// New creates a GLM [Client] with the given API key and options.
//
//	client := glm.New(os.Getenv("ZHIPUAI_API_KEY"),
//	    glm.WithModel("glm-4-alltools"),
//	)
func New(apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	c := &Client{
		tp:    newHTTPTransport(apiKey, cfg),
		model: cfg.model,
	}
	c.handler = c.coreResponse
	for i := len(cfg.chatMiddleware) - 1; i >= 0; i-- {
		c.handler = cfg.chatMiddleware[i](c.handler)
	}
	return c
}

// Response sends a non-streaming chat completion request and returns the
// complete response.
func (c *Client) Response(ctx context.Context, messages []at.Message, opts *at.ChatOptions) (*at.ChatResponse, error) {
	return c.handler(ctx, messages, opts)
}

// coreResponse is the base implementation called by the middleware chain.
func (c *Client) coreResponse(ctx context.Context, messages []at.Message, opts *at.ChatOptions) (*at.ChatResponse, error) {
	req := buildRequest(messages, opts, c.model)
	req.Stream = false

	resp, err := c.tp.do(ctx, "POST", "/chat/completions", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", at.ErrInvalidResponse, err)
	}

	raw, err := unmarshalChatResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", at.ErrInvalidResponse, err)
	}

	result := parseChatResponse(raw)
	result.Raw = raw
	return result, nil
}

// StreamResponse sends a streaming chat completion request and returns
// a [alltools.ResponseStream] that yields incremental updates via
// server-sent events.
func (c *Client) StreamResponse(ctx context.Context, messages []at.Message, opts *at.ChatOptions) (*at.ResponseStream[at.ChatResponseUpdate], error) {
	req := buildRequest(messages, opts, c.model)
	req.Stream = true

	resp, err := c.tp.do(ctx, "POST", "/chat/completions", req)
	if err != nil {
		return nil, err
	}

	return at.NewResponseStream(ctx, func(ctx context.Context, ch chan<- at.ChatResponseUpdate) error {
		defer resp.Body.Close()
		return parseSSEStream(ctx, resp.Body, ch)
	}), nil
}

// parseSSEStream reads server-sent events from r and sends parsed updates to
// ch. It returns when the stream is exhausted ([DONE]), the context is
// cancelled, or an error occurs.
func parseSSEStream(ctx context.Context, r io.Reader, ch chan<- at.ChatResponseUpdate) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "[DONE]" {
			return nil
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			slog.WarnContext(ctx, "skipping malformed stream chunk", "error", err)
			continue
		}

		update := parseChunk(&chunk)
		update.Raw = &chunk

		select {
		case ch <- *update:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read SSE stream: %v", at.ErrService, err)
	}
	return nil
}
