package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Joseda-hg/lazyplan/internal/export"
	"github.com/Joseda-hg/lazyplan/internal/model"
	"github.com/Joseda-hg/lazyplan/internal/views"
)

var errInvalidCredentials = errors.New("invalid username or password")

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web API without the terminal UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return a.serve(ctx)
	},
}

var (
	exportProjectFlag string
	exportDirFlag     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an Excel workbook of projects, tasks, personal to-dos and events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		doc := a.store.Snapshot()
		if !export.HasData(doc) {
			return export.ErrNothingToExport
		}

		dir := exportDirFlag
		if dir == "" {
			dir = a.cfg.ExportDir
		}
		if dir == "" {
			dir = "."
		}

		wb := export.Project(doc, export.Options{ProjectID: exportProjectFlag, Today: a.store.Today()})
		path, err := export.SaveFile(dir, wb, a.store.Now())
		if err != nil {
			return err
		}
		a.logger.Info().Str("path", path).Int("sheets", len(wb.Sheets)).Msg("exported workbook")
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login USERNAME PASSWORD",
	Short: "Start a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		if !a.gate.Login(cmd.Context(), args[0], args[1]) {
			return errInvalidCredentials
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", args[0])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		a.gate.Logout(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var resetConfirmFlag bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored data and the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !resetConfirmFlag {
			return errors.New("reset deletes everything; pass --yes to confirm")
		}
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		a.store.Replace(model.Empty())
		a.adapter.ResetAll(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "All data deleted")
		return nil
	},
}

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Mark past-due tasks and personal to-dos overdue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		changed := a.overdueChanged
		overdue := views.Dashboard(a.store.Snapshot(), a.store.Now()).Overdue
		fmt.Fprintf(cmd.OutOrStdout(), "%d changed, %d overdue\n", changed, overdue)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print dashboard figures and to-do counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		doc := a.store.Snapshot()
		today := a.store.Today()
		stats := views.Dashboard(doc, a.store.Now())

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Workspaces:  %d\n", stats.Workspaces)
		fmt.Fprintf(out, "Projects:    %d\n", stats.Projects)
		fmt.Fprintf(out, "Tasks:       %d\n", stats.Tasks)
		fmt.Fprintf(out, "In progress: %d\n", stats.InProgress)
		fmt.Fprintf(out, "Done:        %d\n", stats.Done)
		fmt.Fprintf(out, "Overdue:     %d\n", stats.Overdue)

		items := views.TodoItems(doc)
		fmt.Fprintln(out, "\nTo-do:")
		for _, period := range views.Periods {
			fmt.Fprintf(out, "  %-9s %d\n", period, len(views.FilterTodos(items, period, views.TodoFilter{}, today)))
		}

		if len(stats.UpcomingTasks) > 0 {
			fmt.Fprintln(out, "\nDue this week:")
			for _, task := range stats.UpcomingTasks {
				fmt.Fprintf(out, "  %s  %s (%s)\n", task.DueDate, task.Title, views.ProjectName(doc, task.ProjectID))
			}
		}
		if len(stats.UpcomingEvents) > 0 {
			fmt.Fprintln(out, "\nUpcoming events:")
			for _, event := range stats.UpcomingEvents {
				fmt.Fprintf(out, "  %s  %s\n", event.StartDateTime.Local().Format("2006-01-02 15:04"), event.Title)
			}
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportProjectFlag, "project", "", "only export this project's tasks")
	exportCmd.Flags().StringVar(&exportDirFlag, "dir", "", "output directory (default: config export_dir or .)")
	resetCmd.Flags().BoolVar(&resetConfirmFlag, "yes", false, "confirm deleting all data")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(overdueCmd)
	rootCmd.AddCommand(summaryCmd)
}
