// Package main is the interactive terminal chat for the tool-calling agent.
// It wires the OpenAI provider, the local tool catalog, and an in-memory
// conversation log into a read-eval-print loop that streams replies
// token-by-token. Requires the OPENAI_API_KEY environment variable (a .env
// file in the working directory is loaded automatically).
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/leofalp/agentcli/core/agent"
	"github.com/leofalp/agentcli/core/agent/middleware"
	"github.com/leofalp/agentcli/providers/ai/openai"
	"github.com/leofalp/agentcli/providers/tool"
	"github.com/leofalp/agentcli/providers/tool/calculator"
	"github.com/leofalp/agentcli/providers/tool/datetime"
	"github.com/leofalp/agentcli/providers/tool/textops"

	_ "github.com/joho/godotenv/autoload"
)

const defaultModel = "gpt-4o-mini"

func main() {
	if os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "Error: OPENAI_API_KEY is not set.")
		fmt.Fprintln(os.Stderr, "Export it or add it to a .env file in the working directory.")
		os.Exit(1)
	}

	logLevel := strings.ToLower(os.Getenv("AGENT_LOG_LEVEL"))
	configureLogging(logLevel)

	model := os.Getenv("AGENT_MODEL")
	if model == "" {
		model = defaultModel
	}

	tools := []*tool.Tool{
		calculator.New(),
		datetime.New(),
		textops.NewCountWords(),
		textops.NewReverseText(),
	}

	chatAgent, err := agent.New(
		openai.New(),
		agent.WithModel(model),
		agent.WithTools(tools...),
		agent.WithMiddlewares(
			middleware.NewLoggingMiddleware(slog.Default(), logDetail(logLevel)),
			middleware.NewRetryMiddleware(middleware.RetryConfig{}),
		),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printBanner(model, tools)
	runLoop(context.Background(), chatAgent)
}

// configureLogging installs a text slog handler at the named level (debug,
// info, warn, error). Unset or unknown values keep logging at warn so the
// chat transcript stays readable.
func configureLogging(raw string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel(raw)})))
}

func slogLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// logDetail maps the log level to the request-logging detail: debug sessions
// get the full payload attributes, everything else the standard summary.
func logDetail(raw string) middleware.LogLevel {
	if raw == "debug" {
		return middleware.LogLevelVerbose
	}
	return middleware.LogLevelStandard
}

func printBanner(model string, tools []*tool.Tool) {
	fmt.Printf("Tool-calling agent (model: %s)\n", model)
	fmt.Print("Available tools: ")
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	fmt.Println(strings.Join(names, ", "))
	fmt.Println("Commands: /reset clears the conversation, /quit or /exit leaves.")
	fmt.Println()
}

// runLoop reads user lines until EOF or a quit command, streaming each reply
// as it arrives. Transport errors are printed and the session continues with
// the conversation log unchanged.
func runLoop(ctx context.Context, chatAgent *agent.Agent) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(strings.TrimPrefix(line, "/")) {
		case "quit", "exit":
			fmt.Println("Goodbye!")
			return
		case "reset":
			chatAgent.Reset(ctx)
			fmt.Println("Conversation cleared.")
			continue
		}

		fmt.Print("Agent: ")
		streamed := false
		for chunk, err := range chatAgent.ChatStream(ctx, line) {
			if err != nil {
				if streamed {
					fmt.Println()
				}
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				break
			}
			fmt.Print(chunk)
			streamed = true
		}
		if streamed {
			fmt.Println()
		}
		fmt.Println()
	}
}
