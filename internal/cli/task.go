package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"listily/internal/model"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Tasks in the active workspace",
	}

	cmd.AddCommand(newTaskAddCmd(app))
	cmd.AddCommand(newTaskListCmd(app))
	cmd.AddCommand(newTaskDoneCmd(app))
	cmd.AddCommand(newTaskEditCmd(app))
	cmd.AddCommand(newTaskRmCmd(app))
	cmd.AddCommand(newTaskClearCmd(app))

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var priority string
	var effort string
	var duration int

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := model.ParsePriority(priority)
			if err != nil {
				return writeErr(cmd, err)
			}
			e, err := model.ParseEffort(effort)
			if err != nil {
				return writeErr(cmd, err)
			}
			var dur *int
			if cmd.Flags().Changed("duration") {
				dur = &duration
			}

			task, err := sess.AddTask(cmd.Context(), strings.Join(args, " "), p, e, dur)
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": task})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s  %s\n", subtleStyle.Render(task.ID), task.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&priority, "priority", "", "Priority (P1..P5)")
	cmd.Flags().StringVar(&effort, "effort", "", "Effort (E1..E5)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Countdown duration in minutes")
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in the active workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := sess.ActiveWorkspace()
			tasks := sess.Tasks(ws.ID)
			if !all {
				open := tasks[:0:0]
				for _, t := range tasks {
					if !t.Completed {
						open = append(open, t)
					}
				}
				tasks = open
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": tasks})
			}

			completed, total := sess.TaskCounts(ws.ID)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(ws.Name)+subtleStyle.Render(fmt.Sprintf("  %d/%d done", completed, total)))
			for _, t := range tasks {
				fmt.Fprintln(out, renderTaskLine(ws, t))
			}
			if len(tasks) == 0 {
				fmt.Fprintln(out, subtleStyle.Render("  nothing here"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include completed tasks")
	return cmd
}

func renderTaskLine(ws model.Workspace, t model.Task) string {
	var b strings.Builder
	if t.Completed {
		b.WriteString("  [x] ")
		b.WriteString(doneStyle.Render(t.Text))
	} else {
		b.WriteString("  [ ] ")
		b.WriteString(t.Text)
	}
	if ws.ShowPriority && t.Priority != nil {
		b.WriteString(" ")
		b.WriteString(badgeStyle.Render(string(*t.Priority)))
	}
	if ws.ShowEffort && t.Effort != nil {
		b.WriteString(" ")
		b.WriteString(badgeStyle.Render(string(*t.Effort)))
	}
	if t.DurationMinutes != nil {
		b.WriteString(subtleStyle.Render(fmt.Sprintf(" %dm", *t.DurationMinutes)))
	}
	b.WriteString(subtleStyle.Render("  " + t.ID))
	return b.String()
}

func newTaskDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Toggle a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			task, err := sess.ToggleTask(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": task})
			}
			state := "open"
			if task.Completed {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%s)\n", task.ID, task.Text, state)
			return nil
		},
	}
}

func newTaskEditCmd(app *App) *cobra.Command {
	var priority string
	var effort string
	var duration int

	cmd := &cobra.Command{
		Use:   "edit <task-id> <text>",
		Short: "Edit a task's text and markers",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := model.ParsePriority(priority)
			if err != nil {
				return writeErr(cmd, err)
			}
			e, err := model.ParseEffort(effort)
			if err != nil {
				return writeErr(cmd, err)
			}
			var dur *int
			if cmd.Flags().Changed("duration") {
				dur = &duration
			}

			task, err := sess.EditTask(cmd.Context(), args[0], strings.Join(args[1:], " "), p, e, dur)
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": task})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s  %s\n", task.ID, task.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&priority, "priority", "", "Priority (P1..P5)")
	cmd.Flags().StringVar(&effort, "effort", "", "Effort (E1..E5)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Countdown duration in minutes")
	return cmd
}

func newTaskRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.DeleteTask(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": map[string]string{"deleted": args[0]}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newTaskClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every task in the active workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := sess.ActiveWorkspace()
			if err := sess.ClearTasks(cmd.Context(), ws.ID); err != nil {
				return writeErr(cmd, err)
			}
			if app.jsonOut() {
				return writeOut(cmd, app, map[string]any{"data": map[string]string{"cleared": ws.ID}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared tasks in %s\n", ws.Name)
			return nil
		},
	}
}
