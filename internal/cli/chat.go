package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/hive/internal/session"
	"github.com/me/hive/pkg/model"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Read and send chat messages",
	}

	var roomOpts model.PageOptions
	rooms := &cobra.Command{
		Use:   "rooms",
		Short: "List your chat rooms",
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			page, err := rt.client.ChatRooms(ctx, roomOpts)
			if err != nil {
				return describe(err)
			}
			if len(page.Items) == 0 {
				fmt.Fprintln(out, "No chat rooms.")
				return nil
			}
			tw := table(out, "ID", "NAME", "PARTICIPANTS", "UPDATED")
			for _, r := range page.Items {
				row(tw, r.ID, r.Name, fmt.Sprint(len(r.ParticipantIDs)), ago(r.UpdatedAt))
			}
			tw.Flush()
			pageFooter(out, page)
			return nil
		}),
	}
	pageFlags(rooms, &roomOpts)

	var msgOpts model.PageOptions
	messages := &cobra.Command{
		Use:   "messages <room_id>",
		Short: "Show messages in a room",
		Args:  cobra.ExactArgs(1),
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			page, err := rt.client.RoomMessages(ctx, args[0], msgOpts)
			if err != nil {
				return describe(err)
			}
			if len(page.Items) == 0 {
				fmt.Fprintln(out, "No messages.")
				return nil
			}
			for _, m := range page.Items {
				sender := m.SenderID
				if m.Sender != nil && m.Sender.Username != "" {
					sender = m.Sender.Username
				}
				fmt.Fprintf(out, "[%s] %s: %s\n", ago(m.CreatedAt), sender, m.Content)
			}
			pageFooter(out, page)
			return nil
		}),
	}
	pageFlags(messages, &msgOpts)

	send := &cobra.Command{
		Use:   "send <room_id> <message...>",
		Short: "Send a message",
		Args:  cobra.MinimumNArgs(2),
		RunE: protected(session.RoleNone, func(ctx context.Context, out io.Writer, args []string) error {
			m, err := rt.client.SendMessage(ctx, model.MessageCreate{
				RoomID:  args[0],
				Content: strings.Join(args[1:], " "),
			})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(out, "Message sent: %s\n", m.ID)
			return nil
		}),
	}

	cmd.AddCommand(rooms, messages, send)
	return cmd
}
