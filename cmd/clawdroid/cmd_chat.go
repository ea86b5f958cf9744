// clawdroid - chat client with LLM tool orchestration
// License: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/KarakuriAgent/clawdroid/pkg/agent"
	"github.com/KarakuriAgent/clawdroid/pkg/thread"
)

func newChatCmd(flags *rootFlags) *cobra.Command {
	var (
		characterID string
		modelID     string
		threadID    string
		noAgent     bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags.configPath, flags.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			model, err := a.resolveModel(modelID)
			if err != nil {
				return err
			}
			character, ok := a.personas.Get(characterID)
			if !ok {
				return fmt.Errorf("unknown character %q (see: clawdroid characters)", characterID)
			}

			agentMode := !noAgent
			instruction := character.SystemPrompt
			if agentMode {
				instruction = a.composer.AgentInstruction(character.AllowedTools, model)
			}

			var th *thread.Thread
			if threadID != "" {
				th, err = a.store.Get(ctx, threadID)
				if err != nil {
					return err
				}
				// Settings may have changed since the thread was created;
				// refresh the stored instruction when it went stale.
				if th.RefreshSystemInstruction(instruction) {
					fmt.Println("(system instruction refreshed)")
				}
			} else {
				th = thread.New("New chat", character.ID, instruction, character.Greeting, character.HiddenGreeting)
				if character.Greeting != "" && !character.HiddenGreeting {
					fmt.Printf("%s: %s\n", character.Name, character.Greeting)
				}
			}
			if err := a.store.Save(ctx, th); err != nil {
				return err
			}

			fmt.Printf("Chatting with %s on %s (thread %s). Type 'exit' to quit.\n",
				character.Name, model, th.ID)
			return chatLoop(ctx, a, th, model, character.ID, agentMode)
		},
	}

	cmd.Flags().StringVarP(&characterID, "character", "c", "", "character id (default: assistant)")
	cmd.Flags().StringVarP(&modelID, "model", "m", "", "model id (default from config)")
	cmd.Flags().StringVarP(&threadID, "thread", "t", "", "resume an existing thread by id")
	cmd.Flags().BoolVar(&noAgent, "no-agent", false, "disable agent mode (plain conversation, no tools)")
	return cmd
}

func chatLoop(ctx context.Context, a *app, th *thread.Thread, model, characterID string, agentMode bool) error {
	character, _ := a.personas.Get(characterID)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "You: ",
		HistoryFile:     filepath.Join(os.TempDir(), ".clawdroid_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			return nil
		}

		final, turnErr := a.runner.Run(ctx, th, model, character, input, agentMode)
		if turnErr != nil {
			fmt.Printf("! %s\n", final.Text)
		} else {
			fmt.Printf("%s: %s\n", character.Name, final.Text)
		}

		if turnErr == nil && th.Name == "New chat" {
			if title, err := agent.TitleForThread(ctx, a.client, model, th); err == nil {
				th.Name = title
			}
		}
		if err := a.store.Save(ctx, th); err != nil {
			fmt.Printf("! failed to save thread: %v\n", err)
		}
	}
}
