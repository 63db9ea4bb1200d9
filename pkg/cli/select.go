package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/pkg/types"
)

func init() {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Toggle or clear explicit context selections for a scene",
		Run:   runSelect,
	}

	cmd.Flags().StringP("scene", "s", "", "Scene id (required)")
	cmd.Flags().StringP("kind", "k", string(types.RefCompendium), "Selection kind: compendium, scene_summary, or chapter_summary")
	cmd.Flags().String("id", "", "Entity id to toggle")
	cmd.Flags().Bool("clear", false, "Clear all selections of this kind")
	cmd.MarkFlagRequired("scene")

	RootCmd.AddCommand(cmd)
}

func parseKind(s string) (types.ReferenceKind, error) {
	for _, kind := range types.ReferenceKinds {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown selection kind %q", s)
}

func runSelect(cmd *cobra.Command, args []string) {
	sceneID, _ := cmd.Flags().GetString("scene")
	kindFlag, _ := cmd.Flags().GetString("kind")
	entityID, _ := cmd.Flags().GetString("id")
	clearAll, _ := cmd.Flags().GetBool("clear")

	kind, err := parseKind(kindFlag)
	if err != nil {
		exitErr("select", err)
	}
	if !clearAll && entityID == "" {
		exitErr("select", fmt.Errorf("either --id or --clear is required"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	selection := newBuilder(s).SelectionStore()
	scene := types.SceneID(sceneID)

	if clearAll {
		if err := selection.Clear(scene, kind); err != nil {
			exitErr("clear selection", err)
		}
	} else if err := selection.Toggle(scene, kind, entityID); err != nil {
		exitErr("toggle selection", err)
	}

	ids := selection.Selected(scene, kind)
	if len(ids) == 0 {
		fmt.Printf("%s: (none selected)\n", kind)
		return
	}
	fmt.Printf("%s: %s\n", kind, strings.Join(ids, ", "))
}
