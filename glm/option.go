// Copyright (c) Microsoft. All rights reserved.

package glm

import (
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

// clientConfig holds resolved configuration for the GLM client.
type clientConfig struct {
	baseURL        string
	httpClient     *http.Client
	headers        map[string]string
	model          string
	credential     azcore.TokenCredential
	scopes         []string
	tokenTTL       time.Duration
	chatMiddleware []at.ChatMiddleware
}

// Option configures a GLM [Client].
type Option func(*clientConfig)

// WithBaseURL overrides the API base URL (e.g., for a gateway or a
// self-hosted deployment).
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithHTTPClient provides a custom http.Client for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = client }
}

// WithHeaders adds custom headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *clientConfig) { c.headers = headers }
}

// WithModel sets the default model for requests.
func WithModel(model string) Option {
	return func(c *clientConfig) { c.model = model }
}

// WithTokenTTL sets the lifetime of the signed tokens derived from an
// "id.secret" API key. Default: 30 minutes.
func WithTokenTTL(ttl time.Duration) Option {
	return func(c *clientConfig) { c.tokenTTL = ttl }
}

// WithTokenCredential authenticates with Azure AD tokens for the given
// scopes instead of an API key, for deployments hosted behind Azure.
func WithTokenCredential(cred azcore.TokenCredential, scopes ...string) Option {
	return func(c *clientConfig) {
		c.credential = cred
		c.scopes = scopes
	}
}

// WithChatMiddleware adds middleware around non-streaming requests.
// Middleware is applied in the order provided (first = outermost).
func WithChatMiddleware(mw ...at.ChatMiddleware) Option {
	return func(c *clientConfig) { c.chatMiddleware = append(c.chatMiddleware, mw...) }
}
