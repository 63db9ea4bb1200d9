// Package cli implements the quill CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/pkg/config"
	storycontext "github.com/quillhq/quill/pkg/context"
	"github.com/quillhq/quill/pkg/memory"
	"github.com/quillhq/quill/pkg/story/sqlite"
)

const defaultModel = "gpt-4o"

var (
	dbPath     string
	configPath string
	modelFlag  string
	baseURL    string
	apiKey     string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Prompt context assembly for long-form fiction",
	Long: "Quill assembles story context (compendium entries, scene and chapter " +
		"summaries, rolling memory) and renders it through prompt templates. " +
		"Projects live in a SQLite database imported from a YAML bundle.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Initialize(getConfigPath())
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Project database path (default: $QUILL_DB or ~/.quill/project.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.quill/config.json)")
	RootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "LLM model to use")
	RootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "OpenAI-compatible API base URL (or set OPENAI_BASE_URL)")
	RootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (or set OPENAI_API_KEY)")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("QUILL_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".quill", "project.db")
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".quill", "config.json")
}

func openStore() (*sqlite.Store, error) {
	return sqlite.Open(getDBPath())
}

// newBuilder creates a section builder honoring any configured section order.
func newBuilder(store *sqlite.Store) *storycontext.Builder {
	var opts []storycontext.BuilderOption
	if mem := config.GetMemory(); mem != nil {
		if order := mem.SectionOrder(); order != nil {
			opts = append(opts, storycontext.WithSectionOrder(order))
		}
	}
	return storycontext.NewBuilder(store, opts...)
}

func memoryOptions() memory.Options {
	if mem := config.GetMemory(); mem != nil {
		return mem.Options()
	}
	return memory.DefaultOptions()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
