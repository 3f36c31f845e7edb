package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"listily/internal/mutate"
	"listily/internal/session"
)

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Workspace management",
	}

	cmd.AddCommand(newWorkspaceAddCmd(app))
	cmd.AddCommand(newWorkspaceListCmd(app))
	cmd.AddCommand(newWorkspaceUseCmd(app))
	cmd.AddCommand(newWorkspaceRenameCmd(app))
	cmd.AddCommand(newWorkspaceRmCmd(app))
	cmd.AddCommand(newWorkspaceClearCmd(app))
	cmd.AddCommand(newWorkspaceShowCmd(app))

	return cmd
}

func newWorkspaceAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a workspace and switch to it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ws, err := sess.AddWorkspace(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": ws})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s  %s (now active)\n", subtleStyle.Render(ws.ID), ws.Name)
			return nil
		},
	}
}

func newWorkspaceListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			db := sess.Snapshot()
			if app.jsonOut() {
				type wsView struct {
					ID             string `json:"id"`
					Name           string `json:"name"`
					Active         bool   `json:"active"`
					Locked         bool   `json:"locked"`
					CompletedTasks int    `json:"completedTasks"`
					TotalTasks     int    `json:"totalTasks"`
				}
				var out []wsView
				for _, ws := range db.Workspaces {
					completed, total := db.TaskCounts(ws.ID)
					out = append(out, wsView{
						ID:             ws.ID,
						Name:           ws.Name,
						Active:         ws.ID == db.ActiveWorkspaceID,
						Locked:         sess.IsLocked(ws.ID),
						CompletedTasks: completed,
						TotalTasks:     total,
					})
				}
				return writeOut(cmd, app, map[string]any{"data": out})
			}

			out := cmd.OutOrStdout()
			for _, ws := range db.Workspaces {
				completed, total := db.TaskCounts(ws.ID)
				name := ws.Name
				marker := "  "
				if ws.ID == db.ActiveWorkspaceID {
					name = activeStyle.Render(name)
					marker = "* "
				}
				line := fmt.Sprintf("%s%s %s", marker, name, subtleStyle.Render(fmt.Sprintf("%d/%d  %s", completed, total, ws.ID)))
				if sess.IsLocked(ws.ID) {
					line += " " + lockStyle.Render("locked")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newWorkspaceUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <workspace-id|name>",
		Short: "Switch the active workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := resolveWorkspace(sess, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.UseWorkspace(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": map[string]string{"active": id}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "now using %s\n", id)
			return nil
		},
	}
}

func newWorkspaceRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <workspace-id|name> <new-name>",
		Short: "Rename a workspace",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := resolveWorkspace(sess, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			name := strings.Join(args[1:], " ")
			if err := sess.RenameWorkspace(cmd.Context(), id, name); err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": map[string]string{"id": id, "name": name}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed %s to %s\n", id, name)
			return nil
		},
	}
}

func newWorkspaceRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <workspace-id|name>",
		Short: "Delete a workspace and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := resolveWorkspace(sess, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.DeleteWorkspace(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": map[string]string{"deleted": id}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
}

func newWorkspaceClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <workspace-id|name>",
		Short: "Remove every task and note from a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := resolveWorkspace(sess, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.ClearWorkspace(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": map[string]string{"cleared": id}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", id)
			return nil
		},
	}
}

func newWorkspaceShowCmd(app *App) *cobra.Command {
	var priority string
	var effort string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Toggle priority/effort display for the active workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if priority == "" && effort == "" {
				return writeErr(cmd, fmt.Errorf("pass --priority on|off and/or --effort on|off"))
			}
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := sess.ActiveWorkspace()
			if priority != "" {
				on, err := parseOnOff(priority)
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := sess.SetShowPriority(cmd.Context(), ws.ID, on); err != nil {
					return writeErr(cmd, err)
				}
			}
			if effort != "" {
				on, err := parseOnOff(effort)
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := sess.SetShowEffort(cmd.Context(), ws.ID, on); err != nil {
					return writeErr(cmd, err)
				}
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": map[string]string{"workspace": ws.ID}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated display for %s\n", ws.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&priority, "priority", "", "Show priority markers (on|off)")
	cmd.Flags().StringVar(&effort, "effort", "", "Show effort markers (on|off)")
	return cmd
}

// resolveWorkspace accepts an id or a name, id winning on collision.
func resolveWorkspace(sess *session.Session, ref string) (string, error) {
	db := sess.Snapshot()
	if _, ok := db.FindWorkspace(ref); ok {
		return ref, nil
	}
	if ws, ok := db.FindWorkspaceByName(ref); ok {
		return ws.ID, nil
	}
	return "", mutate.NotFoundError{Kind: "workspace", ID: ref}
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}
