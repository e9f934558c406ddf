package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/me/hive/internal/session"
	"github.com/me/hive/pkg/model"
)

func newForumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forum",
		Short: "Browse community discussions and events",
	}

	var dFilter model.ForumFilter
	discussions := &cobra.Command{
		Use:   "discussions",
		Short: "List discussions",
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			page, err := rt.client.Discussions(ctx, dFilter)
			if err != nil {
				return describe(err)
			}
			printDiscussions(out, page)
			return nil
		}),
	}
	pageFlags(discussions, &dFilter.PageOptions)
	discussions.Flags().StringVar(&dFilter.Tag, "tag", "", "Filter by tag")
	discussions.Flags().StringVar(&dFilter.Query, "q", "", "Search text")

	var eFilter model.ForumFilter
	events := &cobra.Command{
		Use:   "events",
		Short: "List events",
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			page, err := rt.client.Events(ctx, eFilter)
			if err != nil {
				return describe(err)
			}
			printEvents(out, page)
			return nil
		}),
	}
	pageFlags(events, &eFilter.PageOptions)
	events.Flags().StringVar(&eFilter.Tag, "tag", "", "Filter by tag")
	events.Flags().StringVar(&eFilter.Query, "q", "", "Search text")

	var cOpts model.PageOptions
	comments := &cobra.Command{
		Use:   "comments <discussion|event> <id>",
		Short: "List comments on a discussion or event",
		Args:  cobra.ExactArgs(2),
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			page, err := rt.client.Comments(ctx, args[0], args[1], cOpts)
			if err != nil {
				return describe(err)
			}
			if len(page.Items) == 0 {
				fmt.Fprintln(out, "No comments.")
				return nil
			}
			for _, c := range page.Items {
				author := c.UserID
				if c.User != nil && c.User.Username != "" {
					author = c.User.Username
				}
				fmt.Fprintf(out, "[%s] %s: %s\n", ago(c.CreatedAt), author, c.Content)
			}
			pageFooter(out, page)
			return nil
		}),
	}
	pageFlags(comments, &cOpts)

	var post model.ForumDiscussionCreate
	create := &cobra.Command{
		Use:   "post",
		Short: "Start a discussion",
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			d, err := rt.client.CreateDiscussion(ctx, post)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(out, "Discussion created: %s\n", d.ID)
			return nil
		}),
	}
	create.Flags().StringVar(&post.Title, "title", "", "Title")
	create.Flags().StringVar(&post.Body, "body", "", "Body text")

	cmd.AddCommand(discussions, events, comments, create)
	return cmd
}

func printDiscussions(out io.Writer, page *model.Page[model.ForumDiscussion]) {
	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No discussions found.")
		return
	}
	tw := table(out, "ID", "TITLE", "COMMENTS", "POSTED")
	for _, d := range page.Items {
		row(tw, d.ID, truncate(d.Title, 50), fmt.Sprint(d.CommentCount), ago(d.CreatedAt))
	}
	tw.Flush()
	pageFooter(out, page)
}

func printEvents(out io.Writer, page *model.Page[model.ForumEvent]) {
	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No events found.")
		return
	}
	tw := table(out, "ID", "TITLE", "WHEN", "WHERE")
	for _, e := range page.Items {
		where := e.Location
		if e.IsRemote {
			where = "remote"
		}
		row(tw, e.ID, truncate(e.Title, 50), ago(e.EventAt), where)
	}
	tw.Flush()
	pageFooter(out, page)
}
