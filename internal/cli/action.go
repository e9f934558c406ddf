package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/me/hive/internal/apiclient"
	"github.com/me/hive/internal/session"
)

// actionFunc is the body of a command once access has been decided.
type actionFunc func(ctx context.Context, out io.Writer, args []string) error

// public runs fn without a session requirement.
func public(fn actionFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer finish(cmd.OutOrStdout(), "")
		return fn(commandContext(cmd), cmd.OutOrStdout(), args)
	}
}

// protected runs fn only for an authenticated session holding at least
// required. Denied and anonymous sessions print the fallback location
// instead of failing, and an anonymous session makes no request. A session
// invalidated while the command runs also ends at the fallback.
func protected(required session.Role, fn actionFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fallback := rt.cfg.Fallback
		if fallback == "" {
			fallback = session.DefaultFallback
		}
		defer finish(out, fallback)
		ctx := commandContext(cmd)

		guard := session.Guard{Required: required, Fallback: fallback}
		dec, err := guard.Check(ctx, rt.gate, rt.client.CurrentRole)
		if err != nil {
			// A 401 already cleared the session; finish reports it.
			if apiclient.IsUnauthorized(err) {
				return nil
			}
			return describe(err)
		}
		switch dec.Outcome {
		case session.OutcomeAllowed:
			return fn(ctx, out, args)
		case session.OutcomeRedirect:
			if rt.gate.State() == session.StateAnonymous {
				fmt.Fprintln(out, "Not logged in. Run 'hive login' first.")
			} else if required != session.RoleNone {
				fmt.Fprintf(out, "Access denied: requires %s role.\n", required)
			}
			fmt.Fprintf(out, "redirect: %s\n", dec.Redirect)
			return nil
		default:
			return fmt.Errorf("session state unresolved")
		}
	}
}

// guestOnly runs fn only without a session, as for login and register.
func guestOnly(fn actionFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		defer finish(out, "")
		dec := session.GuestOnly{}.Check(rt.gate)
		if dec.Outcome == session.OutcomeRedirect {
			fmt.Fprintln(out, "Already logged in. Run 'hive logout' first.")
			fmt.Fprintf(out, "redirect: %s\n", dec.Redirect)
			return nil
		}
		return fn(commandContext(cmd), out, args)
	}
}

// finish reports a forced logout and releases the runtime. A non-empty
// fallback is printed as the redirect after a forced logout.
func finish(out io.Writer, fallback string) {
	if rt == nil {
		return
	}
	if err := rt.settle(); err != nil {
		logger.Warn("settle session", "error", err)
	}
	if rt.gate.ForcedLogouts() > 0 {
		fmt.Fprintln(out, "Session expired; please log in again.")
		if fallback != "" {
			fmt.Fprintf(out, "redirect: %s\n", fallback)
		}
	}
	rt.Close()
	rt = nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
