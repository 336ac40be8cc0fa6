package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easeaico/her-line/internal/agent"
	"github.com/easeaico/her-line/internal/emotion"
	"github.com/easeaico/her-line/internal/handler"
	"github.com/easeaico/her-line/internal/line"
	"github.com/easeaico/her-line/internal/persona"
	"github.com/easeaico/her-line/internal/storage"
	"github.com/easeaico/her-line/internal/tone"
	"github.com/easeaico/her-line/internal/types"
)

const previewUser = "operator"

var (
	previewPersona string
	previewDir     string
	previewDebug   bool
	previewNoMood  bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <text>...",
	Short: "Render the replies to one or more texts without sending them",
	Long: `Run each argument through the reply pipeline as one message from the
same user and print the replies. Commands such as /debug on are honored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewPersona, "persona", "", "Persona to start with (default: registry default)")
	previewCmd.Flags().StringVar(&previewDir, "dir", "", "Persona directory (default: built-ins)")
	previewCmd.Flags().BoolVar(&previewDebug, "debug", false, "Prefix replies with the debug tag")
	previewCmd.Flags().BoolVar(&previewNoMood, "no-mood", false, "Disable mood decorations")
}

type writerSender struct {
	out io.Writer
}

func (s writerSender) Reply(_ context.Context, _, text string) error {
	_, err := fmt.Fprintln(s.out, text)
	return err
}

func runPreview(cmd *cobra.Command, args []string) error {
	personas, err := loadPersonas(previewDir)
	if err != nil {
		return err
	}

	store := storage.NewUserStore(1)
	registry, err := persona.NewRegistry(personas, "", store)
	if err != nil {
		return err
	}
	if previewPersona != "" {
		if _, err := registry.Set(previewUser, strings.ToLower(previewPersona)); err != nil {
			return err
		}
	}
	if previewDebug {
		store.Update(previewUser, func(state *types.UserState) { state.Debug = true })
	}

	responder, err := agent.NewResponder(agent.Dependencies{
		Personas: registry,
		Moods:    emotion.NewService(emotion.NewStateMachine(), store),
		Tone:     tone.NewCompositor(!previewNoMood),
		Commands: handler.NewCommandHandler(registry, store),
		States:   store,
		Sender:   writerSender{out: cmd.OutOrStdout()},
	}, agent.Options{})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	for i, text := range args {
		ev := line.Event{
			Index:       i,
			Type:        line.EventTypeMessage,
			MessageType: line.MessageTypeText,
			Text:        text,
			UserID:      previewUser,
			ReplyToken:  "preview",
		}
		if err := responder.HandleEvent(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
