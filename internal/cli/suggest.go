package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSuggestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Ask the AI for task ideas based on the active workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := app.suggestClient()
			if client == nil {
				return writeErr(cmd, fmt.Errorf("suggestions need ai.api_key (or LISTILY_AI_API_KEY) to be set"))
			}
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := sess.ActiveWorkspace()
			suggestions := client.Tasks(cmd.Context(), ws.Name, sess.Tasks(ws.ID))
			if app.jsonOut() {
				if suggestions == nil {
					suggestions = []string{}
				}
				return writeOut(cmd, app, map[string]any{"data": suggestions})
			}

			out := cmd.OutOrStdout()
			if len(suggestions) == 0 {
				fmt.Fprintln(out, subtleStyle.Render("no suggestions right now"))
				return nil
			}
			fmt.Fprintln(out, headerStyle.Render("Ideas for "+ws.Name))
			for _, s := range suggestions {
				fmt.Fprintln(out, "  - "+s)
			}
			return nil
		},
	}
}
