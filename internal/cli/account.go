package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/me/hive/internal/session"
	"github.com/me/hive/pkg/model"
)

func newTimebankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timebank",
		Short: "Show your time bank balance and transactions",
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			tb, err := rt.client.TimeBank(ctx)
			if err != nil {
				return describe(err)
			}
			printTimeBank(out, tb)
			return nil
		}),
	}
}

func printTimeBank(out io.Writer, tb *model.TimeBank) {
	fmt.Fprintf(out, "Balance: %s (max %s)\n", hours(tb.Balance), hours(tb.MaxBalance))
	if len(tb.Transactions) == 0 {
		return
	}
	tw := table(out, "WHEN", "AMOUNT", "DESCRIPTION")
	for _, tx := range tb.Transactions {
		row(tw, ago(tx.CreatedAt), fmt.Sprintf("%+g", tx.Amount), tx.Description)
	}
	tw.Flush()
}

func newBadgesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "Show your badges",
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			b, err := rt.client.Badges(ctx)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(out, "Earned %d of %d badges\n", b.EarnedCount, b.TotalCount)
			for _, badge := range b.Badges {
				mark := " "
				if badge.Earned {
					mark = "x"
				}
				line := fmt.Sprintf("  [%s] %s", mark, badge.Name)
				if badge.Progress != nil && !badge.Earned {
					line += fmt.Sprintf(" (%g/%g)", badge.Progress.Current, badge.Progress.Target)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		}),
	}
}

func newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show profile, time bank and pending requests at once",
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			var (
				profile  *model.User
				tb       *model.TimeBank
				requests *model.Page[model.JoinRequest]
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				profile, err = rt.client.Profile(gctx)
				return err
			})
			g.Go(func() (err error) {
				tb, err = rt.client.TimeBank(gctx)
				return err
			})
			g.Go(func() (err error) {
				requests, err = rt.client.MyJoinRequests(gctx, model.DefaultPageOptions(), model.JoinRequestPending)
				return err
			})
			if err := g.Wait(); err != nil {
				return describe(err)
			}

			fmt.Fprintf(out, "%s (%s), member since %s\n", profile.Username, session.ParseRole(profile.Role), ago(profile.CreatedAt))
			printTimeBank(out, tb)
			fmt.Fprintf(out, "Pending join requests: %d\n", requests.Total)
			return nil
		}),
	}
}
