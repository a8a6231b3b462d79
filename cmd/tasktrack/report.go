package main

import (
	"github.com/ganot/tasktrack/internal/domain/project"
	"github.com/ganot/tasktrack/internal/report"
	"github.com/spf13/cobra"
)

func newReportCommand(root *rootOptions) *cobra.Command {
	var (
		user     string
		asJSON   bool
		statuses []string
		query    string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the projects a user has tasks in, with completion rates",
		Long: `Show the projects where the user has assigned tasks.
Each row has the user's done and total task counts and the completion rate;
the last line sums them across projects.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			if user == "" {
				user = a.cfg.Auth.DefaultUser
			}

			opts := project.ListOptions{Query: query}
			for _, st := range statuses {
				opts.Statuses = append(opts.Statuses, project.Status(st))
			}

			overview, err := a.progress.UserOverview(commandContext(cmd), a.tenant, user, opts)
			if err != nil {
				return err
			}

			if asJSON {
				return report.JSON(cmd.OutOrStdout(), overview)
			}
			return report.Text(cmd.OutOrStdout(), overview)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user id (defaults to the configured default user)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "only consider projects with these statuses")
	cmd.Flags().StringVar(&query, "query", "", "only consider projects matching this text")
	return cmd
}
