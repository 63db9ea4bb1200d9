package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/pkg/story"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import <bundle.yaml>",
		Short: "Import a YAML project bundle into the project database",
		Args:  cobra.ExactArgs(1),
		Run:   runImport,
	}
	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	bundle, err := story.LoadBundle(args[0])
	if err != nil {
		exitErr("load bundle", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.Import(bundle); err != nil {
		exitErr("import", err)
	}
	fmt.Printf("imported %q: %d entries, %d chapters, %d sessions\n",
		bundle.Title, len(bundle.Entries), len(bundle.Chapters), len(bundle.Sessions))
}
