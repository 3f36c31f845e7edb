package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"listily/internal/session"
)

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "Notes in the active workspace (pass --password when protected)",
	}

	cmd.AddCommand(newNotesListCmd(app))
	cmd.AddCommand(newNotesAddCmd(app))
	cmd.AddCommand(newNotesShowCmd(app))
	cmd.AddCommand(newNotesEditCmd(app))
	cmd.AddCommand(newNotesRmCmd(app))

	return cmd
}

// gateOpen unlocks with the given password when needed. Unlocks last for the
// current invocation only; every new run starts locked again.
func gateOpen(cmd *cobra.Command, sess *session.Session, workspaceID, password string) error {
	if !sess.IsLocked(workspaceID) {
		return nil
	}
	if password != "" && sess.UnlockWithPassword(workspaceID, password) {
		return nil
	}
	if password != "" {
		if hint := sess.PasswordHint(workspaceID); hint != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), subtleStyle.Render("hint: "+hint))
		}
		return fmt.Errorf("wrong password")
	}
	return session.ErrLocked
}

func lockedHint(cmd *cobra.Command, err error) error {
	if errors.Is(err, session.ErrLocked) {
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("notes are locked")+subtleStyle.Render("  pass --password, or --code for a one-time backup code"))
		return err
	}
	return writeErr(cmd, err)
}

func newNotesListCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes in the active workspace, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := sess.ActiveWorkspace()
			if err := gateOpen(cmd, sess, ws.ID, password); err != nil {
				return lockedHint(cmd, err)
			}
			notes, err := sess.Notes(ws.ID)
			if err != nil {
				return lockedHint(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": notes})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(ws.Name+" notes"))
			for _, n := range notes {
				preview := strings.SplitN(n.Content, "\n", 2)[0]
				if len(preview) > 60 {
					preview = preview[:60] + "…"
				}
				fmt.Fprintf(out, "  %s  %s %s\n", n.Title, subtleStyle.Render(preview), subtleStyle.Render(n.ID))
			}
			if len(notes) == 0 {
				fmt.Fprintln(out, subtleStyle.Render("  no notes yet"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Notes password for a protected workspace")
	return cmd
}

func newNotesAddCmd(app *App) *cobra.Command {
	var title string
	var password string

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Write a note (empty notes are discarded, not saved)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := sess.ActiveWorkspace()
			if err := gateOpen(cmd, sess, ws.ID, password); err != nil {
				return lockedHint(cmd, err)
			}

			d := sess.NewDraft(ws.ID)
			if strings.TrimSpace(title) != "" {
				d.Title = title
			}
			d.Content = strings.Join(args, " ")

			note, err := sess.SaveDraft(cmd.Context(), d)
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": note})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s  %s\n", subtleStyle.Render(note.ID), note.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Note title")
	cmd.Flags().StringVar(&password, "password", "", "Notes password for a protected workspace")
	return cmd
}

func newNotesShowCmd(app *App) *cobra.Command {
	var raw bool
	var password string

	cmd := &cobra.Command{
		Use:   "show <note-id>",
		Short: "Render a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			db := sess.Snapshot()
			note, ok := db.FindNote(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("note not found: %s", args[0]))
			}
			if err := gateOpen(cmd, sess, note.WorkspaceID, password); err != nil {
				return lockedHint(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": note})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(note.Title))
			if raw {
				fmt.Fprintln(out, note.Content)
				return nil
			}
			rendered, err := glamour.Render(note.Content, "auto")
			if err != nil {
				fmt.Fprintln(out, note.Content)
				return nil
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the content without markdown rendering")
	cmd.Flags().StringVar(&password, "password", "", "Notes password for a protected workspace")
	return cmd
}

func newNotesEditCmd(app *App) *cobra.Command {
	var title string
	var password string

	cmd := &cobra.Command{
		Use:   "edit <note-id> [content]",
		Short: "Replace a note's content (and optionally its title)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			db := sess.Snapshot()
			note, ok := db.FindNote(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("note not found: %s", args[0]))
			}
			if err := gateOpen(cmd, sess, note.WorkspaceID, password); err != nil {
				return lockedHint(cmd, err)
			}

			newTitle := note.Title
			if cmd.Flags().Changed("title") {
				newTitle = title
			}
			content := note.Content
			if len(args) > 1 {
				content = strings.Join(args[1:], " ")
			}
			if err := sess.EditNote(cmd.Context(), note.ID, newTitle, content); err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": map[string]string{"id": note.ID}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", note.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&password, "password", "", "Notes password for a protected workspace")
	return cmd
}

func newNotesRmCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "rm <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			db := sess.Snapshot()
			if note, ok := db.FindNote(args[0]); ok {
				if err := gateOpen(cmd, sess, note.WorkspaceID, password); err != nil {
					return lockedHint(cmd, err)
				}
			}
			if err := sess.DeleteNote(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": map[string]string{"deleted": args[0]}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Notes password for a protected workspace")
	return cmd
}
