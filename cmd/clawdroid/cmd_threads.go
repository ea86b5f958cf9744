// clawdroid - chat client with LLM tool orchestration
// License: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newThreadsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threads",
		Short: "Manage saved threads",
	}
	cmd.AddCommand(
		newThreadsListCmd(flags),
		newThreadsShowCmd(flags),
		newThreadsRenameCmd(flags),
		newThreadsDeleteCmd(flags),
	)
	return cmd
}

func newThreadsListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List threads, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.configPath, flags.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			summaries, err := a.store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No threads yet. Start one with: clawdroid chat")
				return nil
			}
			for _, s := range summaries {
				character := s.CharacterID
				if character == "" {
					character = "assistant"
				}
				fmt.Printf("%s  %-30s %-12s %s\n",
					s.ID, s.Name, character, s.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newThreadsShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <thread-id>",
		Short: "Print a thread's visible messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.configPath, flags.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			th, err := a.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("# %s\n\n", th.Name)
			for _, msg := range th.Visible() {
				fmt.Printf("[%s] %s\n", msg.Role, msg.Text)
			}
			return nil
		},
	}
}

func newThreadsRenameCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <thread-id> <name>",
		Short: "Rename a thread",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.configPath, flags.debug)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.store.Rename(cmd.Context(), args[0], args[1])
		},
	}
}

func newThreadsDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <thread-id>",
		Short: "Delete a thread and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.configPath, flags.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}
