package cli

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/pkg/config"
	"github.com/quillhq/quill/pkg/memory"
	"github.com/quillhq/quill/pkg/types"
)

func init() {
	cmd := &cobra.Command{
		Use:   "refresh <scene|chapter|workshop> <id>",
		Short: "Refresh the rolling memory for a scene, chapter, or workshop session",
		Args:  cobra.ExactArgs(2),
		Run:   runRefresh,
	}
	RootCmd.AddCommand(cmd)
}

func runRefresh(cmd *cobra.Command, args []string) {
	kind, id := args[0], args[1]

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	provider, err := config.BuildMemoryProvider(modelFlag, baseURL, apiKey, defaultModel)
	if err != nil {
		exitErr("refresh", err)
	}

	svc := memory.NewService(s, provider, memoryOptions())

	events := make(chan *types.RefreshEvent, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range events {
			switch ev.Type {
			case types.EventTypeRefreshProgress:
				fmt.Fprintf(os.Stderr, "[%s] chunk %d/%d\n", ev.Owner, ev.Chunk, ev.ChunkCount)
			case types.EventTypeRefreshError:
				fmt.Fprintf(os.Stderr, "[%s] %s\n", ev.Owner, ev.Error)
			}
		}
	}()
	svc.SetEventChannel(events)

	var summary string
	switch kind {
	case "scene":
		summary, err = svc.RefreshScene(cmd.Context(), types.SceneID(id))
	case "chapter":
		summary, err = svc.RefreshChapter(cmd.Context(), types.ChapterID(id))
	case "workshop":
		summary, err = svc.RefreshWorkshop(cmd.Context(), types.SessionID(id))
	default:
		close(events)
		exitErr("refresh", fmt.Errorf("unknown target kind %q (want scene, chapter, or workshop)", kind))
	}
	close(events)
	wg.Wait()

	if err != nil {
		if errors.Is(err, memory.ErrRefreshCancelled) {
			fmt.Fprintln(os.Stderr, "refresh cancelled")
			os.Exit(1)
		}
		exitErr("refresh", err)
	}
	if summary == "" {
		fmt.Println("(up to date, no refresh needed)")
		return
	}
	fmt.Println(summary)
}
