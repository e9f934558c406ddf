package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/me/hive/internal/session"
	"github.com/me/hive/pkg/model"
)

func newRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Manage join requests",
	}

	var opts model.PageOptions
	var status string
	mine := &cobra.Command{
		Use:   "mine",
		Short: "List your join requests",
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			page, err := rt.client.MyJoinRequests(ctx, opts, status)
			if err != nil {
				return describe(err)
			}
			printJoinRequests(out, page)
			return nil
		}),
	}
	pageFlags(mine, &opts)
	mine.Flags().StringVar(&status, "status", "", "pending, approved, rejected or cancelled")

	var message string
	create := &cobra.Command{
		Use:   "create <service_id>",
		Short: "Ask to join a service",
		Args:  cobra.ExactArgs(1),
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			jr, err := rt.client.CreateJoinRequest(ctx, model.JoinRequestCreate{ServiceID: args[0], Message: message})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(out, "Join request created: %s (%s)\n", jr.ID, jr.Status)
			return nil
		}),
	}
	create.Flags().StringVar(&message, "message", "", "Note to the service owner")

	cancel := &cobra.Command{
		Use:   "cancel <request_id>",
		Short: "Cancel a pending join request",
		Args:  cobra.ExactArgs(1),
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			jr, err := rt.client.CancelJoinRequest(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(out, "Join request %s is now %s\n", jr.ID, jr.Status)
			return nil
		}),
	}

	cmd.AddCommand(mine, create, cancel)
	return cmd
}

func printJoinRequests(out io.Writer, page *model.Page[model.JoinRequest]) {
	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No join requests.")
		return
	}
	tw := table(out, "ID", "SERVICE", "STATUS", "CREATED")
	for _, jr := range page.Items {
		row(tw, jr.ID, jr.ServiceID, jr.Status, ago(jr.CreatedAt))
	}
	tw.Flush()
	pageFooter(out, page)
}
