// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
)

// RouterOption configures a [Router].
type RouterOption func(*Router)

// WithPlatformParams sets the vendor parameters attached to each platform
// family's invocations, such as {"sandbox": "none"} for the code interpreter.
// See [PlatformParams] to derive them from tool specs.
func WithPlatformParams(params map[Family]map[string]any) RouterOption {
	return func(r *Router) {
		for f, p := range params {
			r.params[f] = maps.Clone(p)
		}
	}
}

// WithRouterLogger sets the logger used for dropped calls. Defaults to
// [slog.Default].
func WithRouterLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) { r.logger = logger }
}

// WithRouterMetrics records routing outcomes on m.
func WithRouterMetrics(m *Metrics) RouterOption {
	return func(r *Router) { r.metrics = m }
}

// Router turns an assistant message into a [Decision].
//
// A Router holds only configuration and is safe for concurrent use.
type Router struct {
	params  map[Family]map[string]any
	logger  *slog.Logger
	metrics *Metrics
}

// NewRouter creates a Router.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{params: map[Family]map[string]any{}}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Route decides what an assistant message asks for.
//
// A message without tool calls is a finish whose output and log are the
// message text. Otherwise the calls of each platform family (code
// interpreter, drawing tool, web browser, in that order) are reassembled into
// one invocation per family, followed by one invocation per remaining
// function call in message order.
//
// A platform family needs at least two observed calls before it is
// reassembled; with fewer it is still streaming and is left out without
// error. Failures confined to one call or family are reported in
// [Decision.Errors] and only that call or family is dropped. Route itself
// fails for non-assistant messages and for legacy function records whose
// arguments are not valid JSON.
func (r *Router) Route(ctx context.Context, msg *Message) (*Decision, error) {
	if msg == nil || msg.Role != RoleAssistant {
		role := Role("")
		if msg != nil {
			role = msg.Role
		}
		return nil, fmt.Errorf("%w: expected an assistant message, got role %q", ErrInvalidMessage, role)
	}

	frags := msg.ToolCalls
	var decision Decision
	if len(frags) == 0 && len(msg.AdditionalToolCalls) > 0 {
		legacy, skipped, err := decodeLegacyToolCalls(msg.AdditionalToolCalls)
		if err != nil {
			return nil, err
		}
		frags = legacy
		for _, e := range skipped {
			r.drop(ctx, &decision, FamilyFunction, e)
		}
	}

	if len(frags) == 0 && len(decision.Errors) == 0 {
		r.metrics.incFinish()
		decision.Finish = &Finish{Output: msg.Content, Log: msg.Content}
		return &decision, nil
	}

	for _, family := range platformFamilies {
		inv, err := r.routeFamily(family, msg, frags)
		if err != nil {
			r.drop(ctx, &decision, family, err)
			continue
		}
		if inv != nil {
			r.metrics.incRouted(family)
			decision.Invocations = append(decision.Invocations, *inv)
		}
	}

	for _, f := range frags {
		if FamilyOf(f.Name).IsPlatform() {
			continue
		}
		c, err := Classify(f)
		if err != nil {
			r.drop(ctx, &decision, FamilyFunction, err)
			continue
		}
		// Pending calls with an index are stream chunks still waiting for
		// their arguments; whole calls may legitimately take none.
		if !c.Complete() && c.Index != nil {
			continue
		}
		r.metrics.incRouted(FamilyFunction)
		decision.Invocations = append(decision.Invocations, functionInvocation(msg, c))
	}

	slog.DebugContext(ctx, "routed assistant message",
		"invocations", len(decision.Invocations),
		"errors", len(decision.Errors))
	return &decision, nil
}

// routeFamily returns nil without error when the family has fewer than two
// calls in frags.
func (r *Router) routeFamily(family Family, msg *Message, frags []ToolCallFragment) (*Invocation, error) {
	var calls []ClassifiedCall
	for _, f := range frags {
		if FamilyOf(f.Name) != family {
			continue
		}
		c, err := Classify(f)
		if err != nil {
			return nil, &ParseError{Tool: family.String(), Message: err.Error(), Err: ErrToolInputParse}
		}
		calls = append(calls, c)
	}
	if len(calls) < 2 {
		return nil, nil
	}
	return Reassemble(family, msg, calls, maps.Clone(r.params[family]))
}

func (r *Router) drop(ctx context.Context, d *Decision, family Family, err error) {
	r.metrics.incDropped(family)
	r.logger.WarnContext(ctx, "dropping tool call", "family", family.String(), "error", err)
	d.Errors = append(d.Errors, err)
}
