// clawdroid - chat client with LLM tool orchestration
// License: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KarakuriAgent/clawdroid/pkg/agent"
)

func newModelsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List configured models and their tool support",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.configPath, flags.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, id := range a.catalog.IDs() {
				info, _ := a.catalog.Get(id)
				toolList := "none"
				if ids := info.SupportedToolIDs(); len(ids) > 0 {
					toolList = strings.Join(ids, ", ")
				}
				marker := " "
				if id == a.cfg.LLM.Model {
					marker = "*"
				}
				fmt.Printf("%s %-28s tools: %s\n", marker, id, toolList)
			}
			return nil
		},
	}
}

func newCharactersCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "characters",
		Short: "List available characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.configPath, flags.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, c := range a.personas.List() {
				toolList := "none"
				if len(c.AllowedTools) > 0 {
					toolList = strings.Join(c.AllowedTools, ", ")
				}
				fmt.Printf("%-12s %-20s tools: %s\n", c.ID, c.Name, toolList)
				if c.Description != "" {
					fmt.Printf("             %s\n", c.Description)
				}
			}
			return nil
		},
	}

	cmd.AddCommand(newCharactersImproveCmd(flags))
	return cmd
}

func newCharactersImproveCmd(flags *rootFlags) *cobra.Command {
	var modelID string

	cmd := &cobra.Command{
		Use:   "improve <description>",
		Short: "Improve a character description with the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.configPath, flags.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			model, err := a.resolveModel(modelID)
			if err != nil {
				return err
			}
			improved, err := agent.ImproveDescription(cmd.Context(), a.client, model, args[0])
			if err != nil {
				return err
			}
			fmt.Println(improved)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelID, "model", "m", "", "model id")
	return cmd
}

func newToolsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.configPath, flags.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, line := range a.registry.Summaries() {
				fmt.Println(line)
			}
			return nil
		},
	}
}

func newTranslateCmd(flags *rootFlags) *cobra.Command {
	var (
		modelID  string
		language string
	)

	cmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate text with the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.configPath, flags.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			model, err := a.resolveModel(modelID)
			if err != nil {
				return err
			}
			out, err := agent.Translate(cmd.Context(), a.client, model, args[0], language)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelID, "model", "m", "", "model id")
	cmd.Flags().StringVarP(&language, "to", "l", "English", "target language")
	return cmd
}

func newCorrectCmd(flags *rootFlags) *cobra.Command {
	var modelID string

	cmd := &cobra.Command{
		Use:   "correct <sentence>",
		Short: "Correct a sentence and explain the fix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.configPath, flags.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			model, err := a.resolveModel(modelID)
			if err != nil {
				return err
			}
			correction, err := agent.CorrectSentence(cmd.Context(), a.client, model, args[0])
			if err != nil {
				return err
			}
			fmt.Println(correction.Corrected)
			if correction.Explanation != "" {
				fmt.Printf("  (%s)\n", correction.Explanation)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelID, "model", "m", "", "model id")
	return cmd
}
