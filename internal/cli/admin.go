package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/me/hive/internal/session"
	"github.com/me/hive/pkg/model"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator views",
	}

	var opts model.PageOptions
	tx := &cobra.Command{
		Use:   "transactions",
		Short: "List time bank transactions of all users",
		RunE: protected(session.RoleAdmin, func(ctx context.Context, out io.Writer, args []string) error {
			page, err := rt.client.AdminTimeBankTransactions(ctx, opts)
			if err != nil {
				return describe(err)
			}
			if len(page.Items) == 0 {
				fmt.Fprintln(out, "No transactions.")
				return nil
			}
			tw := table(out, "ID", "USER", "AMOUNT", "DESCRIPTION", "WHEN")
			for _, t := range page.Items {
				row(tw, t.ID, t.UserID, fmt.Sprintf("%+g", t.Amount), truncate(t.Description, 40), ago(t.CreatedAt))
			}
			tw.Flush()
			pageFooter(out, page)
			return nil
		}),
	}
	pageFlags(tx, &opts)

	cmd.AddCommand(tx)
	return cmd
}

func newModerateCmd() *cobra.Command {
	var opts model.PageOptions
	cmd := &cobra.Command{
		Use:   "moderate",
		Short: "Review recent forum discussions and events",
		RunE: protected(session.RoleModerator, func(ctx context.Context, out io.Writer, args []string) error {
			filter := model.ForumFilter{PageOptions: opts}
			discussions, err := rt.client.Discussions(ctx, filter)
			if err != nil {
				return describe(err)
			}
			events, err := rt.client.Events(ctx, filter)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(out, "Discussions:")
			printDiscussions(out, discussions)
			fmt.Fprintln(out, "\nEvents:")
			printEvents(out, events)
			return nil
		}),
	}
	pageFlags(cmd, &opts)
	return cmd
}
