package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/pkg/memory"
	"github.com/quillhq/quill/pkg/story/sqlite"
	"github.com/quillhq/quill/pkg/template"
	"github.com/quillhq/quill/pkg/types"
)

func init() {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a prompt template against a scene",
		Long: "Builds the scene's context sections, reads its rolling memory, and " +
			"renders the template. Warnings (unknown variables or functions, bad " +
			"arguments) go to stderr; the rendered prompt goes to stdout.",
		Run: runRender,
	}

	cmd.Flags().StringP("scene", "s", "", "Scene id (required)")
	cmd.Flags().StringP("beat", "b", "", "Beat text; also the mention source")
	cmd.Flags().String("template", "", "Template file (default: the built-in beat template)")
	cmd.Flags().String("session", "", "Workshop session id; switches to the workshop template and chat history")
	cmd.Flags().Bool("no-selection", false, "Ignore explicit selections, use mentions only")
	cmd.MarkFlagRequired("scene")

	RootCmd.AddCommand(cmd)
}

func runRender(cmd *cobra.Command, args []string) {
	sceneID, _ := cmd.Flags().GetString("scene")
	beat, _ := cmd.Flags().GetString("beat")
	templatePath, _ := cmd.Flags().GetString("template")
	sessionID, _ := cmd.Flags().GetString("session")
	noSelection, _ := cmd.Flags().GetBool("no-selection")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	scene, ok := s.Scene(types.SceneID(sceneID))
	if !ok {
		exitErr("render", fmt.Errorf("scene %q not found", sceneID))
	}

	data, fallback := buildRenderData(s, scene, beat, sessionID, !noSelection)

	tmpl := ""
	if templatePath != "" {
		b, err := os.ReadFile(templatePath)
		if err != nil {
			exitErr("read template", err)
		}
		tmpl = string(b)
	}

	result := template.Render(tmpl, fallback, data)
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Println(result.Text)
}

// buildRenderData assembles everything a template can reference for the
// given scene, plus the fallback template to use when none is supplied.
func buildRenderData(s *sqlite.Store, scene *types.Scene, beat, sessionID string, includeSelection bool) (template.Data, string) {
	memSvc := memory.NewService(s, nil, memoryOptions())

	vars := map[string]string{
		"beat":          beat,
		"selection":     "",
		"scene":         scene.Content,
		"project_title": s.ProjectTitle(),
		"scene_title":   scene.Title,
	}
	if chapter, ok := s.ChapterOfScene(scene.ID); ok {
		vars["chapter_title"] = chapter.Title
	} else {
		vars["chapter_title"] = ""
	}

	mentionSource := beat
	data := template.Data{
		Vars:      vars,
		SceneText: scene.Content,
		Memory:    memSvc.SceneMemory(scene.ID),
	}
	fallback := template.DefaultBeatTemplate

	if sessionID != "" {
		session, ok := s.Session(types.SessionID(sessionID))
		if !ok {
			exitErr("render", fmt.Errorf("session %q not found", sessionID))
		}
		data.Conversation = session.Messages
		data.Memory = memSvc.WorkshopMemory(session.ID)
		if len(session.Messages) > 0 {
			mentionSource = session.Messages[len(session.Messages)-1].Content
		}
		fallback = template.DefaultWorkshopTemplate
	}

	data.Sections = newBuilder(s).BuildSections(scene.ID, mentionSource, includeSelection)
	return data, fallback
}
