package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/me/hive/internal/session"
	"github.com/me/hive/pkg/model"
)

func pageFlags(cmd *cobra.Command, opts *model.PageOptions) {
	*opts = model.DefaultPageOptions()
	cmd.Flags().IntVar(&opts.Page, "page", opts.Page, "Page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", opts.Limit, "Results per page (max 100)")
}

func newServicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Browse offered and needed services",
	}

	var filter model.ServiceFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List services",
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			page, err := rt.client.ListServices(ctx, filter)
			if err != nil {
				return describe(err)
			}
			printServices(out, page)
			return nil
		}),
	}
	pageFlags(list, &filter.PageOptions)
	list.Flags().StringVar(&filter.ServiceType, "type", "", "offer or need")
	list.Flags().StringVar(&filter.Category, "category", "", "Category")
	list.Flags().StringVar(&filter.Tags, "tags", "", "Comma-separated tags")
	list.Flags().StringVar(&filter.Status, "status", "", "Service status")

	var savedOpts model.PageOptions
	saved := &cobra.Command{
		Use:   "saved",
		Short: "List services you saved",
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			page, err := rt.client.SavedServices(ctx, savedOpts)
			if err != nil {
				return describe(err)
			}
			printServices(out, page)
			return nil
		}),
	}
	pageFlags(saved, &savedOpts)

	show := &cobra.Command{
		Use:   "show <service_id>",
		Short: "Show one service",
		Args:  cobra.ExactArgs(1),
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			svc, err := rt.client.Service(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(out, "Service:  %s\n", svc.ID)
			fmt.Fprintf(out, "  Title:    %s\n", svc.Title)
			fmt.Fprintf(out, "  Type:     %s\n", svc.ServiceType)
			fmt.Fprintf(out, "  Status:   %s\n", svc.Status)
			fmt.Fprintf(out, "  Duration: %s\n", hours(svc.EstimatedDuration))
			if svc.Category != "" {
				fmt.Fprintf(out, "  Category: %s\n", svc.Category)
			}
			if svc.Location.Address != "" {
				fmt.Fprintf(out, "  Where:    %s\n", svc.Location.Address)
			}
			fmt.Fprintf(out, "  Posted:   %s\n", ago(svc.CreatedAt))
			if svc.Description != "" {
				fmt.Fprintf(out, "\n%s\n", svc.Description)
			}
			return nil
		}),
	}

	cmd.AddCommand(list, saved, show)
	return cmd
}

func printServices(out io.Writer, page *model.Page[model.Service]) {
	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No services found.")
		return
	}
	tw := table(out, "ID", "TYPE", "TITLE", "DURATION", "STATUS")
	for _, s := range page.Items {
		row(tw, s.ID, s.ServiceType, truncate(s.Title, 40), hours(s.EstimatedDuration), s.Status)
	}
	tw.Flush()
	pageFooter(out, page)
}
