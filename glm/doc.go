// Copyright (c) Microsoft. All rights reserved.

// Package glm provides an [alltools.ChatClient] for the GLM chat completions
// API, including its platform tools (code interpreter, drawing tool and web
// browser).
//
// Create a client and pass it to [alltools.NewAgent]:
//
//	client := glm.New(os.Getenv("ZHIPUAI_API_KEY"),
//	    glm.WithModel("glm-4-alltools"),
//	)
//
//	agent := alltools.NewAgent(client,
//	    alltools.WithToolSpecs(alltools.PlatformSpec(alltools.FamilyCodeInterpreter, nil)),
//	)
//
// Platform tool calls are surfaced as [alltools.ToolCallFragment] values named
// after the platform tool, with the vendor payload ({"input", "outputs"}) as
// their decoded arguments. Streamed function-call deltas carry their index so
// [alltools.ChatResponseFromUpdates] can merge them.
//
// # Authentication
//
// API keys of the form "id.secret" are exchanged for short-lived signed
// tokens; other keys are sent as bearer tokens unchanged. Use
// [WithTokenCredential] for deployments behind Azure AD.
//
// # Testing
//
// The client uses an unexported transport interface internally.
// For testing, provide a mock http.Client via [WithHTTPClient]
// with a custom RoundTripper.
package glm
