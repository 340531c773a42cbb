package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptforge/promptforge/internal/backend"
	"github.com/promptforge/promptforge/internal/logger"
	"github.com/promptforge/promptforge/internal/prompt"
)

var (
	completeBackend      string
	completeTemplateID   string
	completeVars         []string
	completeConversation string
	completeTimeout      int
	completeShowPrompt   bool
)

var completeCmd = &cobra.Command{
	Use:   "complete [prompt text]",
	Short: "Assemble a prompt and send it through a model backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		assembler, _, err := newEngine(cfg)
		if err != nil {
			return err
		}

		backendCfg, err := backend.Select(cfg.Backends, completeBackend)
		if err != nil {
			return err
		}
		provider, err := backend.New(backendCfg)
		if err != nil {
			return err
		}

		userText := strings.Join(args, " ")
		in := prompt.Input{
			TemplateID: completeTemplateID,
			Prompt:     userText,
		}
		for _, kv := range completeVars {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid --var %q, want key=value", kv)
			}
			if in.Variables == nil {
				in.Variables = make(map[string]prompt.Value)
			}
			in.Variables[key] = prompt.String(value)
		}

		store, err := openHistory(cfg)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		if store != nil {
			defer store.Close()
		}
		if completeConversation != "" {
			items, err := pullContext(store, assembler, completeConversation)
			if err != nil {
				return fmt.Errorf("load conversation: %w", err)
			}
			in.Context = items
		}

		res, err := assembler.Invoke(in)
		if err != nil {
			return err
		}
		if completeShowPrompt {
			fmt.Fprintln(os.Stderr, res.RenderedText)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(completeTimeout)*time.Second)
		defer cancel()

		logger.Debug("[CLI] sending %d estimated tokens to backend %s", res.Metadata.EstimatedTokens, provider.Name())
		reply, err := provider.Complete(ctx, res.RenderedText)
		if err != nil {
			return err
		}
		fmt.Println(reply)

		if completeConversation != "" && store != nil && userText != "" {
			if err := store.Append(completeConversation, "user", userText); err != nil {
				logger.Warn("[CLI] record user turn failed: %v", err)
			} else if err := store.Append(completeConversation, "assistant", reply); err != nil {
				logger.Warn("[CLI] record assistant turn failed: %v", err)
			}
		}

		return nil
	},
}

func init() {
	completeCmd.Flags().StringVar(&completeBackend, "backend", "", "Backend name (default: backends.default from config)")
	completeCmd.Flags().StringVarP(&completeTemplateID, "template", "t", "", "Template identifier")
	completeCmd.Flags().StringArrayVar(&completeVars, "var", nil, "Variable as key=value (repeatable)")
	completeCmd.Flags().StringVar(&completeConversation, "conversation", "", "Conversation key: pull context and record both turns")
	completeCmd.Flags().IntVar(&completeTimeout, "timeout", 60, "Backend request timeout in seconds")
	completeCmd.Flags().BoolVar(&completeShowPrompt, "show-prompt", false, "Print the assembled prompt to stderr before sending")
	rootCmd.AddCommand(completeCmd)
}
