package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/traffic-tasker/internal/app"
	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/generation"
	"github.com/phrazzld/traffic-tasker/internal/output"
	"github.com/spf13/cobra"
)

func (c *cli) addCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task and classify it",
		Long: `Add a task. The title is every argument joined by spaces.

The priority is suggested by the configured language model. Without an API
key, or when the model cannot answer, the task gets the standard (yellow)
priority and a note is printed to stderr.

Examples:
  tasker add Fix the login outage
  tasker add "Renew passport" -d "expires in March"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return c.withApp(cmd, false, func(ctx context.Context, a *app.App, p *output.Printer) error {
				res, err := a.Tracker.CreateTask(ctx, title, description)
				if err != nil {
					return fmt.Errorf("adding task: %w", err)
				}
				if res.Classification.IsFallback() {
					printFallbackNote(cmd, res.Classification)
				}
				_, pos, _ := a.Tracker.Resolve(res.Task.ID.String())
				return p.Task(pos, res.Task)
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "optional details, also used for classification")
	return cmd
}

func (c *cli) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, active first and newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, false, func(ctx context.Context, a *app.App, p *output.Printer) error {
				return p.Tasks(a.Tracker.Tasks())
			})
		},
	}
}

func (c *cli) doneCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "done <ref>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a task between active and completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, false, func(ctx context.Context, a *app.App, p *output.Printer) error {
				task, _, err := a.Tracker.Resolve(args[0])
				if err != nil {
					return err
				}
				task, err = a.Tracker.Toggle(ctx, task.ID)
				if err != nil {
					return fmt.Errorf("toggling task: %w", err)
				}
				_, pos, _ := a.Tracker.Resolve(task.ID.String())
				return p.Task(pos, task)
			})
		},
	}
}

func (c *cli) priorityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "priority <ref> <high|standard|low|red|yellow|green>",
		Short: "Set a task's priority by hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, err := domain.ParsePriority(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[1])
			}
			return c.withApp(cmd, false, func(ctx context.Context, a *app.App, p *output.Printer) error {
				task, pos, err := a.Tracker.Resolve(args[0])
				if err != nil {
					return err
				}
				task, err = a.Tracker.SetPriority(ctx, task.ID, priority)
				if err != nil {
					return fmt.Errorf("setting priority: %w", err)
				}
				return p.Task(pos, task)
			})
		},
	}
}

func (c *cli) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, false, func(ctx context.Context, a *app.App, p *output.Printer) error {
				task, _, err := a.Tracker.Resolve(args[0])
				if err != nil {
					return err
				}
				a.Tracker.Delete(ctx, task.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", task.Title)
				return nil
			})
		},
	}
}

func (c *cli) classifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <ref>",
		Short: "Ask the language model to classify a task again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, false, func(ctx context.Context, a *app.App, p *output.Printer) error {
				task, _, err := a.Tracker.Resolve(args[0])
				if err != nil {
					return err
				}
				res, err := a.Tracker.Reclassify(ctx, task.ID)
				if err != nil {
					return fmt.Errorf("classifying task: %w", err)
				}
				if res.Classification.IsFallback() {
					printFallbackNote(cmd, res.Classification)
				}
				_, pos, _ := a.Tracker.Resolve(res.Task.ID.String())
				return p.Task(pos, res.Task)
			})
		},
	}
}

func (c *cli) tipCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "Print a productivity tip for the current list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, false, func(ctx context.Context, a *app.App, p *output.Printer) error {
				state, ok := a.Tracker.RefreshAdvisory(ctx)
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), output.EmptyListText)
					return nil
				}
				return p.Advisory(state.Advisory)
			})
		},
	}
}

func printFallbackNote(cmd *cobra.Command, c generation.Classification) {
	note := "note: priority set to " + string(c.Priority)
	if c.Reason != "" {
		note += " (" + c.Reason + ")"
	}
	fmt.Fprintln(cmd.ErrOrStderr(), note)
}
