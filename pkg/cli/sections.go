package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/pkg/types"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Build and print the context sections for a scene",
		Run:   runSections,
	}

	cmd.Flags().StringP("scene", "s", "", "Scene id (required)")
	cmd.Flags().StringP("text", "t", "", "Mention source text (@[...] and #[...] references)")
	cmd.Flags().Bool("no-selection", false, "Ignore explicit selections, use mentions only")
	cmd.MarkFlagRequired("scene")

	RootCmd.AddCommand(cmd)
}

func runSections(cmd *cobra.Command, args []string) {
	sceneID, _ := cmd.Flags().GetString("scene")
	text, _ := cmd.Flags().GetString("text")
	noSelection, _ := cmd.Flags().GetBool("no-selection")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if _, ok := s.Scene(types.SceneID(sceneID)); !ok {
		exitErr("sections", fmt.Errorf("scene %q not found", sceneID))
	}

	builder := newBuilder(s)
	sections := builder.BuildSections(types.SceneID(sceneID), text, !noSelection)

	blocks := []struct {
		name string
		text string
	}{
		{"compendium", sections.Compendium},
		{"scene_summaries", sections.SceneSummaries},
		{"chapter_summaries", sections.ChapterSummaries},
	}
	for _, b := range blocks {
		if b.text == "" {
			continue
		}
		fmt.Printf("== %s ==\n%s\n\n", b.name, b.text)
	}
	if sections.Combined == "" {
		fmt.Println("(no context)")
	}
}
