package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the local activity log, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.localStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			events, err := st.ReadEvents(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": events})
			}

			out := cmd.OutOrStdout()
			for _, ev := range events {
				fmt.Fprintf(out, "%s  %-24s %s\n",
					subtleStyle.Render(ev.TS.Local().Format(time.DateTime)),
					ev.Type,
					subtleStyle.Render(ev.EntityID))
			}
			if len(events) == 0 {
				fmt.Fprintln(out, subtleStyle.Render("no activity yet"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum events to show")
	return cmd
}
