// Copyright (c) Microsoft. All rights reserved.

// Command alltools runs a GLM all-tools agent on one query and prints the
// run's events as JSON lines.
//
// Usage:
//
//	export ZHIPUAI_API_KEY=<id>.<secret>
//	go run . "What's the weather in Paris? Draw it too."
//
// Platform tools are enabled from a YAML file:
//
//	go run . --tools tools.yaml "Plot y = x^2 for x in 0..10"
//
// Deployments behind Azure authenticate with DefaultAzureCredential:
//
//	export GLM_BASE_URL=https://<gateway>/api/paas/v4
//	go run . --azure --scope api://<app-id>/.default "hello"
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
	"github.com/microsoft/agent-framework-glm/go/glm"
)

var rootCmd = &cobra.Command{
	Use:   "alltools [query]",
	Short: "Run a GLM all-tools agent and print its events as JSON lines",
	Args:  cobra.MinimumNArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().String("model", "glm-4-alltools", "model to call")
	rootCmd.Flags().String("tools", "", "YAML file listing the tool specs to enable")
	rootCmd.Flags().String("base-url", "", "API base URL (default $GLM_BASE_URL or the public endpoint)")
	rootCmd.Flags().Bool("azure", false, "authenticate with DefaultAzureCredential instead of an API key")
	rootCmd.Flags().String("scope", "", "token scope used with --azure")
	rootCmd.Flags().Int("max-iterations", 10, "maximum number of model calls")
}

func main() {
	// Load .env file if present (ignored if missing).
	_ = godotenv.Load()

	if os.Getenv("DEBUG") != "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	specs, err := toolSpecs(cmd)
	if err != nil {
		return err
	}

	maxIter, _ := cmd.Flags().GetInt("max-iterations")
	cfg := at.DefaultInvocationConfig()
	cfg.MaxIterations = maxIter

	logger := slog.Default()
	agent := at.NewAgent(client,
		at.WithName("alltools"),
		at.WithLogger(logger),
		at.WithInstructions("You are a helpful assistant. Use the tools you are given when they help."),
		at.WithTools(weatherTool(), timeTool()),
		at.WithToolSpecs(specs...),
		at.WithInvocationConfig(cfg),
		at.WithAgentMiddleware(at.LoggingMiddleware(logger)),
		at.WithFunctionMiddleware(at.ToolLoggingMiddleware(logger)),
	)

	stream := agent.Stream(ctx, at.ChatInput{Query: strings.Join(args, " ")})
	defer stream.Close()

	out := cmd.OutOrStdout()
	for {
		ev, ok, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		data, err := at.MarshalEvent(ev)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	}
}

// newClient creates the GLM client, authenticating with the API key from
// ZHIPUAI_API_KEY or, with --azure, with an Azure AD token.
func newClient(cmd *cobra.Command) (*glm.Client, error) {
	model, _ := cmd.Flags().GetString("model")
	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = os.Getenv("GLM_BASE_URL")
	}

	opts := []glm.Option{glm.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, glm.WithBaseURL(baseURL))
	}

	if useAzure, _ := cmd.Flags().GetBool("azure"); useAzure {
		scope, _ := cmd.Flags().GetString("scope")
		if scope == "" {
			return nil, fmt.Errorf("--scope is required with --azure")
		}
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("create Azure credential: %w", err)
		}
		slog.Debug("using Azure AD authentication", "scope", scope)
		return glm.New("", append(opts, glm.WithTokenCredential(cred, scope))...), nil
	}

	apiKey := os.Getenv("ZHIPUAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("set ZHIPUAI_API_KEY or use --azure")
	}
	return glm.New(apiKey, opts...), nil
}

// toolSpecs reads --tools, defaulting to the web browser and drawing tool.
func toolSpecs(cmd *cobra.Command) ([]at.ToolSpec, error) {
	path, _ := cmd.Flags().GetString("tools")
	if path == "" {
		return []at.ToolSpec{
			at.PlatformSpec(at.FamilyWebBrowser, nil),
			at.PlatformSpec(at.FamilyDrawingTool, nil),
		}, nil
	}
	return at.LoadToolSpecsFile(path)
}

type weatherArgs struct {
	Location string `json:"location"       jsonschema:"description=City name or location"`
	Unit     string `json:"unit,omitempty" jsonschema:"description=Temperature unit,enum=celsius,enum=fahrenheit"`
}

func weatherTool() at.Tool {
	return at.NewTypedTool("get_weather", "Get the current weather for a location.",
		func(ctx context.Context, args weatherArgs) (any, error) {
			// Simulated weather API
			unit := args.Unit
			if unit == "" {
				unit = "celsius"
			}
			temp := 22
			if unit == "fahrenheit" {
				temp = 72
			}
			return map[string]any{
				"location":    args.Location,
				"temperature": temp,
				"unit":        unit,
				"condition":   "sunny",
			}, nil
		},
	)
}

func timeTool() at.Tool {
	return at.NewTextTool("get_time", "Get the current time in an IANA time zone such as Europe/Paris.",
		func(ctx context.Context, zone string) (any, error) {
			loc, err := time.LoadLocation(strings.TrimSpace(zone))
			if err != nil {
				return nil, err
			}
			return time.Now().In(loc).Format(time.RFC3339), nil
		},
	)
}
