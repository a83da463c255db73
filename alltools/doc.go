// Copyright (c) Microsoft. All rights reserved.

// Package alltools adapts a chat model's "all tools" tool-calling protocol to
// a generic agent loop. Models of this family run some tools themselves
// (code interpreter, drawing tool, web browser) and stream their calls as
// fragments next to ordinary function calls; this package turns those
// fragments into invocations, executes them and reports the run as a stream
// of typed events.
//
// # Quick Start
//
//	client := glm.New(os.Getenv("ZHIPUAI_API_KEY"), glm.WithModel("glm-4-alltools"))
//
//	agent := alltools.NewAgent(client,
//	    alltools.WithTools(weatherTool),
//	    alltools.WithToolSpecs(alltools.PlatformSpec(alltools.FamilyWebBrowser, nil)),
//	)
//
//	stream := agent.Stream(ctx, alltools.ChatInput{Query: "What's the weather in Paris?"})
//	defer stream.Close()
//	for {
//	    ev, ok, err := stream.Next(ctx)
//	    if err != nil || !ok {
//	        break
//	    }
//	    b, _ := alltools.MarshalEvent(ev)
//	    fmt.Println(string(b))
//	}
//
// # Pipeline
//
//   - [Classify] decodes one [ToolCallFragment], tolerating truncated JSON
//     through [DecodePartial], and marks it complete or pending.
//   - [Reassemble] merges the calls of one platform family into a single
//     [Invocation] carrying the tool's input and outputs.
//   - [Router] turns an assistant message into a [Decision]: a [Finish] or
//     an ordered list of invocations.
//   - [Executor] runs invocations against the registered tools, falling back
//     to an [AdapterTool] for platform tools.
//   - [Translator] converts lifecycle [Record] values into [RunEvent] values,
//     pairing tool starts with tool ends.
//
// # Tools
//
// Use [NewTypedTool] for type-safe tools with JSON Schema generation:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" jsonschema:"description=City name"`
//	}
//
//	tool := alltools.NewTypedTool("get_weather", "Get current weather",
//	    func(ctx context.Context, args WeatherArgs) (any, error) {
//	        return fetchWeather(args.Location)
//	    },
//	)
//
// Platform tools are enabled with tool specs, which can also be loaded from
// YAML with [LoadToolSpecs].
//
// # Middleware
//
// Add cross-cutting behavior at three levels:
//
//	agent := alltools.NewAgent(client,
//	    alltools.WithAgentMiddleware(alltools.LoggingMiddleware(logger)),
//	    alltools.WithFunctionMiddleware(alltools.ToolLoggingMiddleware(logger)),
//	)
package alltools
