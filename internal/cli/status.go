package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/hive/internal/session"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the local session state",
		Long:  "Show the server, token storage and session state. No request is sent.",
		RunE: public(func(ctx context.Context, out io.Writer, args []string) error {
			fmt.Fprintf(out, "Server:   %s\n", rt.cfg.Server)
			fmt.Fprintf(out, "Storage:  %s\n", rt.cfg.TokenBackend)
			fmt.Fprintf(out, "Session:  %s\n", rt.gate.State())

			tok, ok, err := rt.tokens.Token(ctx)
			if err != nil || !ok {
				return err
			}
			info, ok := session.InspectToken(tok)
			if !ok {
				fmt.Fprintln(out, "Token:    opaque")
				return nil
			}
			if info.Subject != "" {
				fmt.Fprintf(out, "Subject:  %s\n", info.Subject)
			}
			if !info.IssuedAt.IsZero() {
				fmt.Fprintf(out, "Issued:   %s\n", humanize.Time(info.IssuedAt))
			}
			switch {
			case info.Expiry.IsZero():
				fmt.Fprintln(out, "Expires:  never")
			case info.IsExpired(time.Now()):
				fmt.Fprintf(out, "Expires:  expired %s\n", humanize.Time(info.Expiry))
			default:
				fmt.Fprintf(out, "Expires:  %s\n", humanize.Time(info.Expiry))
			}
			return nil
		}),
	}
}
