package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fragen-dev/fragen/pkg/chat"
	"github.com/fragen-dev/fragen/pkg/mcp"
)

// maxToolRounds bounds how many tool-call round trips a single user
// turn may trigger before the loop gives up.
const maxToolRounds = 8

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start a conversational session. Replies stream token by token,
and context carries over between messages. When MCP servers are
configured, their tools are offered to the model and executed locally.

Type 'exit' or 'quit' to end the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		apiClient, err := newAPIClient(cfg)
		if err != nil {
			return err
		}
		svc := chat.New(apiClient)

		var registry *mcp.Registry
		var tools []chat.Tool
		if len(cfg.MCP.Servers) > 0 {
			registry, err = mcp.Dial(cmd.Context(), cfg.MCP.Servers)
			if err != nil {
				return fmt.Errorf("connecting MCP servers: %w", err)
			}
			defer registry.Close()
			tools = registry.Tools(cmd.Context())
		}

		cyan := color.New(color.FgCyan, color.Bold)
		dim := color.New(color.FgHiBlack)
		green := color.New(color.FgGreen)

		fmt.Fprintln(os.Stderr)
		cyan.Fprintln(os.Stderr, "  fragen chat")
		dim.Fprintf(os.Stderr, "  Model: %s. Type 'exit' to quit.\n\n", model(cfg))

		scanner := bufio.NewScanner(os.Stdin)
		var history []chat.Message

		for {
			green.Fprint(os.Stderr, "  you → ")
			if !scanner.Scan() {
				break
			}

			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "exit" || input == "quit" {
				break
			}

			history = append(history, chat.UserMessage(input))

			if err := runTurn(cmd.Context(), svc, registry, model(cfg), tools, &history); err != nil {
				fmt.Fprintf(os.Stderr, "  Error: %v\n\n", err)
			}
		}

		return nil
	},
}

// runTurn streams one assistant reply for the current history, executing
// MCP tool calls and re-asking the model until it produces a final
// text answer. The assistant and tool messages are appended to history.
func runTurn(ctx context.Context, svc *chat.Service, registry *mcp.Registry, model string, tools []chat.Tool, history *[]chat.Message) error {
	cyan := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)

	for round := 0; round < maxToolRounds; round++ {
		req := chat.NewRequest(model, *history...)
		if len(tools) > 0 {
			req.WithTools(tools...)
		}

		cyan.Fprint(os.Stderr, "  fragen → ")
		completion, err := streamCompletion(ctx, svc, req)
		if err != nil {
			return err
		}
		if len(completion.Choices) == 0 {
			return fmt.Errorf("response contained no choices")
		}

		msg := completion.Choices[0].Message
		*history = append(*history, msg)

		if len(msg.ToolCalls) == 0 {
			return nil
		}

		for _, call := range msg.ToolCalls {
			dim.Fprintf(os.Stderr, "  [tool: %s]\n", call.Function.Name)
			result, err := registry.Call(ctx, call)
			if err != nil {
				return fmt.Errorf("executing tool %q: %w", call.Function.Name, err)
			}
			*history = append(*history, result)
		}
	}

	return fmt.Errorf("giving up after %d tool rounds", maxToolRounds)
}

// streamCompletion streams a completion, printing content tokens to
// stderr as they arrive, and returns the accumulated completion.
func streamCompletion(ctx context.Context, svc *chat.Service, req *chat.Request) (*chat.ChatCompletion, error) {
	stream, err := svc.CreateStream(ctx, req)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var acc *chat.ChatCompletionDelta
	for delta := range stream.Events() {
		if len(delta.Choices) > 0 && delta.Choices[0].Delta.Content != nil {
			fmt.Fprint(os.Stderr, *delta.Choices[0].Delta.Content)
		}

		delta := delta
		if acc == nil {
			acc = &delta
		} else if err := acc.Merge(&delta); err != nil {
			stream.Close()
			return nil, err
		}
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr)

	if err := stream.Err(); err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, chat.ErrEmptyStream
	}

	completion := acc.ChatCompletion()
	return &completion, nil
}
