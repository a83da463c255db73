// Copyright (c) Microsoft. All rights reserved.

package glm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

const defaultBaseURL = "https://open.bigmodel.cn/api/paas/v4"

// transport is an unexported interface for HTTP communication.
// The default implementation uses net/http; tests inject a mock.
type transport interface {
	do(ctx context.Context, method, path string, body any) (*http.Response, error)
}

// httpTransport is the default transport using net/http.
type httpTransport struct {
	client     *http.Client
	baseURL    string
	tokens     *tokenSource
	headers    map[string]string
	credential azcore.TokenCredential
	scopes     []string
}

func newHTTPTransport(apiKey string, opts *clientConfig) *httpTransport {
	t := &httpTransport{
		client:     opts.httpClient,
		baseURL:    opts.baseURL,
		tokens:     newTokenSource(apiKey, opts.tokenTTL),
		headers:    opts.headers,
		credential: opts.credential,
		scopes:     opts.scopes,
	}
	if t.client == nil {
		t.client = http.DefaultClient
	}
	if t.baseURL == "" {
		t.baseURL = defaultBaseURL
	}
	return t
}

func (t *httpTransport) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	bearer, err := t.bearer(ctx)
	if err != nil {
		return nil, err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, parseErrorResponse(resp)
	}

	return resp, nil
}

func (t *httpTransport) bearer(ctx context.Context) (string, error) {
	if t.credential == nil {
		return t.tokens.Token()
	}
	slog.DebugContext(ctx, "acquiring Azure AD token", "scopes", t.scopes)
	token, err := t.credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: t.scopes})
	if err != nil {
		return "", fmt.Errorf("%w: get azure token: %w", at.ErrAuth, err)
	}
	slog.DebugContext(ctx, "using Azure AD token authentication", "token_expires_on", token.ExpiresOn)
	return token.Token, nil
}

// contentFilterCode is the vendor error code for requests rejected by
// moderation.
const contentFilterCode = "1301"

// parseErrorResponse reads an error response body and returns a typed error.
func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &apiErr)

	msg := apiErr.Error.Message
	if msg == "" {
		msg = string(body)
	}

	svcErr := &at.ServiceError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		Code:       apiErr.Error.Code,
	}

	switch {
	case apiErr.Error.Code == contentFilterCode || apiErr.Error.Code == "content_filter":
		svcErr.Err = at.ErrContentFilter
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		svcErr.Err = at.ErrAuth
	case resp.StatusCode == http.StatusBadRequest:
		svcErr.Err = at.ErrInvalidRequest
	default:
		svcErr.Err = at.ErrService
	}

	return svcErr
}
