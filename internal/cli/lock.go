package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Password protection for the active workspace's notes",
	}

	cmd.AddCommand(newLockSetCmd(app))
	cmd.AddCommand(newLockRemoveCmd(app))
	cmd.AddCommand(newLockOpenCmd(app))
	cmd.AddCommand(newLockStatusCmd(app))

	return cmd
}

func newLockSetCmd(app *App) *cobra.Command {
	var hint string

	cmd := &cobra.Command{
		Use:   "set <password>",
		Short: "Set or replace the notes password (prints fresh one-time backup codes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := sess.ActiveWorkspace()
			codes, err := sess.SetNotesPassword(cmd.Context(), ws.ID, args[0], hint)
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"backupCodes": codes}})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "notes in %s are now protected\n\n", ws.Name)
			fmt.Fprintln(out, headerStyle.Render("Backup codes")+subtleStyle.Render("  each works once; this is the only time they are shown"))
			for _, c := range codes {
				fmt.Fprintln(out, "  "+badgeStyle.Render(c))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hint, "hint", "", "Password hint (shown after repeated wrong attempts)")
	return cmd
}

func newLockRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the notes password (requires the workspace to be unlocked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := sess.ActiveWorkspace()
			if sess.IsLocked(ws.ID) {
				return writeErr(cmd, fmt.Errorf("unlock %s first: listily lock open", ws.Name))
			}
			if err := sess.RemoveNotesPassword(cmd.Context(), ws.ID); err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": map[string]string{"workspace": ws.ID}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "notes in %s are no longer protected\n", ws.Name)
			return nil
		},
	}
}

func newLockOpenCmd(app *App) *cobra.Command {
	var password string
	var code string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Unlock the active workspace's notes for this run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := sess.ActiveWorkspace()
			if !sess.IsLocked(ws.ID) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not locked\n", ws.Name)
				return nil
			}

			switch {
			case code != "":
				if !sess.UnlockWithBackupCode(cmd.Context(), ws.ID, code) {
					return writeErr(cmd, fmt.Errorf("backup code rejected"))
				}
				fmt.Fprintln(cmd.OutOrStdout(), "unlocked with backup code")
				fmt.Fprintln(cmd.OutOrStdout(), lockStyle.Render("that code is now spent; set a new password with `listily lock set`"))
				return nil
			case password != "":
				if !sess.UnlockWithPassword(ws.ID, password) {
					err := fmt.Errorf("wrong password")
					if hint := sess.PasswordHint(ws.ID); hint != "" {
						fmt.Fprintln(cmd.ErrOrStderr(), subtleStyle.Render("hint: "+hint))
					}
					return writeErr(cmd, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s\n", ws.Name)
				return nil
			default:
				return writeErr(cmd, fmt.Errorf("pass --password or --code"))
			}
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Notes password")
	cmd.Flags().StringVar(&code, "code", "", "One-time backup code")
	return cmd
}

func newLockStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show lock state for every workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			db := sess.Snapshot()
			type lockView struct {
				ID          string `json:"id"`
				Name        string `json:"name"`
				HasPassword bool   `json:"hasPassword"`
				Locked      bool   `json:"locked"`
				BackupCodes int    `json:"backupCodesLeft"`
			}
			var views []lockView
			for _, ws := range db.Workspaces {
				views = append(views, lockView{
					ID:          ws.ID,
					Name:        ws.Name,
					HasPassword: ws.PasswordHash != "",
					Locked:      sess.IsLocked(ws.ID),
					BackupCodes: len(ws.BackupCodeHashes),
				})
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": views})
			}

			out := cmd.OutOrStdout()
			for _, v := range views {
				state := subtleStyle.Render("unprotected")
				if v.HasPassword {
					if v.Locked {
						state = lockStyle.Render("locked")
					} else {
						state = activeStyle.Render("unlocked")
					}
					state += subtleStyle.Render(fmt.Sprintf("  %d backup codes left", v.BackupCodes))
				}
				fmt.Fprintf(out, "  %s  %s\n", v.Name, state)
			}
			return nil
		},
	}
}
