// clawdroid - chat client with LLM tool orchestration
// License: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "clawdroid",
		Short:        "Chat client with LLM tool orchestration",
		Long:         "clawdroid is a chat client whose agent mode lets the model invoke tools (calculator, web search, image generation) through a JSON directive protocol.",
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path (default ~/.clawdroid/config.json)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newChatCmd(flags),
		newModelsCmd(flags),
		newCharactersCmd(flags),
		newThreadsCmd(flags),
		newToolsCmd(flags),
		newTranslateCmd(flags),
		newCorrectCmd(flags),
	)
	return cmd
}
