package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptforge/promptforge/internal/logger"
	"github.com/promptforge/promptforge/internal/prompt"
)

var (
	assembleRequestPath  string
	assembleOutputPath   string
	assembleTemplateID   string
	assembleVars         []string
	assembleContext      []string
	assembleConversation string
	assembleMetadata     bool
)

var assembleCmd = &cobra.Command{
	Use:   "assemble [prompt text]",
	Short: "Assemble a prompt from templates, variables, and history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		assembler, _, err := newEngine(cfg)
		if err != nil {
			return err
		}

		in, err := buildInput(args)
		if err != nil {
			return err
		}

		if assembleConversation != "" && len(in.Context) == 0 {
			store, err := openHistory(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			if store != nil {
				defer store.Close()
				items, err := pullContext(store, assembler, assembleConversation)
				if err != nil {
					return fmt.Errorf("load conversation: %w", err)
				}
				in.Context = items
			}
		}

		res, err := assembler.Invoke(in)
		if err != nil {
			return err
		}

		if assembleOutputPath == "" {
			fmt.Println(res.RenderedText)
		} else {
			if err := os.WriteFile(assembleOutputPath, []byte(res.RenderedText), 0644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}

		if assembleMetadata {
			meta, err := json.MarshalIndent(res.Metadata, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal metadata: %w", err)
			}
			fmt.Fprintln(os.Stderr, string(meta))
		}

		trail := newTrail(cfg)
		if trail.Enabled() {
			if err := trail.Write(in, res); err != nil {
				logger.Warn("[CLI] audit record failed: %v", err)
			}
		}

		return nil
	},
}

// buildInput merges the --request file (or stdin) with the flag and
// argument overrides into one assembly input.
func buildInput(args []string) (prompt.Input, error) {
	var in prompt.Input

	if assembleRequestPath != "" {
		var data []byte
		var err error
		if assembleRequestPath == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(assembleRequestPath)
		}
		if err != nil {
			return in, fmt.Errorf("read request: %w", err)
		}
		if err := json.Unmarshal(data, &in); err != nil {
			return in, fmt.Errorf("parse request: %w", err)
		}
	}

	if assembleTemplateID != "" {
		in.TemplateID = assembleTemplateID
	}
	if text := strings.Join(args, " "); text != "" {
		in.Prompt = text
	}
	for _, kv := range assembleVars {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return in, fmt.Errorf("invalid --var %q, want key=value", kv)
		}
		if in.Variables == nil {
			in.Variables = make(map[string]prompt.Value)
		}
		in.Variables[key] = prompt.String(value)
	}
	for _, item := range assembleContext {
		in.Context = append(in.Context, prompt.String(item))
	}

	return in, nil
}

func init() {
	assembleCmd.Flags().StringVar(&assembleRequestPath, "request", "", "Path to JSON request file (- for stdin)")
	assembleCmd.Flags().StringVarP(&assembleOutputPath, "output", "o", "", "Write rendered text to file (default: stdout)")
	assembleCmd.Flags().StringVarP(&assembleTemplateID, "template", "t", "", "Template identifier")
	assembleCmd.Flags().StringArrayVar(&assembleVars, "var", nil, "Variable as key=value (repeatable)")
	assembleCmd.Flags().StringArrayVar(&assembleContext, "context", nil, "Context item, oldest first (repeatable)")
	assembleCmd.Flags().StringVar(&assembleConversation, "conversation", "", "Conversation key whose stored turns become context")
	assembleCmd.Flags().BoolVar(&assembleMetadata, "metadata", false, "Print assembly metadata to stderr")
	rootCmd.AddCommand(assembleCmd)
}
