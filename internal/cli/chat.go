package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	ucli "github.com/urfave/cli/v2"

	"mediwallet/internal/domain"
	"mediwallet/internal/poller"
)

func (a *app) chatCommand() *ucli.Command {
	userFlag := &ucli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "your user id", Required: true, EnvVars: []string{"MEDIWALLET_USER"}}
	forFlag := &ucli.DurationFlag{Name: "for", Usage: "stop watching after this long (0 watches until interrupted)"}

	return &ucli.Command{
		Name:  "chat",
		Usage: "direct messages",
		Subcommands: []*ucli.Command{
			{
				Name:      "send",
				ArgsUsage: "MESSAGE",
				Flags: []ucli.Flag{
					userFlag,
					&ucli.StringFlag{Name: "to", Usage: "receiver id", Required: true},
				},
				Action: a.withBackend(a.sendMessage),
			},
			{
				Name:  "watch",
				Usage: "follow a conversation, marking incoming messages read; lines typed on stdin are sent",
				Flags: []ucli.Flag{
					userFlag,
					&ucli.StringFlag{Name: "with", Usage: "counterpart id", Required: true},
					forFlag,
				},
				Action: a.withBackend(a.watchMessages),
			},
			{
				Name: "conversations",
				Flags: []ucli.Flag{
					userFlag,
					&ucli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "keep refreshing"},
					forFlag,
				},
				Action: a.withBackend(a.conversations),
			},
		},
	}
}

func (a *app) sendMessage(c *ucli.Context, b domain.Backend) error {
	text := strings.Join(c.Args().Slice(), " ")
	msg, err := b.SendMessage(c.Context, c.String("user"), c.String("to"), text)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "sent message %d\n", msg.ID)
	return nil
}

func (a *app) printMessage(m *domain.ChatMessage) {
	fmt.Fprintf(a.out, "[%s] %s: %s\n", m.CreatedAt.Local().Format("15:04:05"), m.SenderID, m.Message)
}

// runFor blocks until the command context ends or, when d is positive, d elapses.
func runFor(c *ucli.Context, start func(ctx context.Context), stop func()) {
	ctx := c.Context
	if d := c.Duration("for"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	start(ctx)
	<-ctx.Done()
	stop()
}

func (a *app) watchMessages(c *ucli.Context, b domain.Backend) error {
	user, with := c.String("user"), c.String("with")
	var lastID int64

	p := poller.New(a.polling.ChatInterval,
		func(ctx context.Context) ([]*domain.ChatMessage, error) {
			return b.GetMessages(ctx, user, with)
		},
		func(msgs []*domain.ChatMessage) {
			unread := false
			for _, m := range msgs {
				if m.ID <= lastID {
					continue
				}
				lastID = m.ID
				a.printMessage(m)
				if m.ReceiverID == user && !m.Read {
					unread = true
				}
			}
			if unread {
				if err := b.MarkAsRead(c.Context, with, user); err != nil {
					fmt.Fprintf(a.out, "mark read: %v\n", err)
				}
			}
		},
		poller.WithName("chat"),
	)
	runFor(c, func(ctx context.Context) {
		p.Start(ctx)
		if a.in != nil {
			go a.sendLines(ctx, b, user, with, p.Trigger)
		}
	}, p.Stop)
	return nil
}

// sendLines sends every non-empty input line to the counterpart and asks
// for a refresh so the message shows up without waiting for the next tick.
func (a *app) sendLines(ctx context.Context, b domain.Backend, user, with string, refresh func()) {
	sc := bufio.NewScanner(a.in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if _, err := b.SendMessage(ctx, user, with, text); err != nil {
			slog.Warn("send failed", "error", err)
			continue
		}
		refresh()
	}
}

func (a *app) printConversations(convs []*domain.ChatConversation) {
	tw := a.table()
	fmt.Fprintln(tw, "WITH\tLAST\tUNREAD\tMESSAGE")
	for _, cv := range convs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", cv.UserName, cv.LastMessageTime.Local().Format("2006-01-02 15:04"), cv.UnreadCount, cv.LastMessage)
	}
	tw.Flush()
}

func conversationsKey(convs []*domain.ChatConversation) string {
	var sb strings.Builder
	for _, cv := range convs {
		fmt.Fprintf(&sb, "%s|%d|%d|%s;", cv.UserID, cv.LastMessageTime.UnixNano(), cv.UnreadCount, cv.LastMessage)
	}
	return sb.String()
}

func (a *app) conversations(c *ucli.Context, b domain.Backend) error {
	user := c.String("user")
	if !c.Bool("watch") {
		convs, err := b.GetConversations(c.Context, user)
		if err != nil {
			return err
		}
		a.printConversations(convs)
		return nil
	}

	last := ""
	p := poller.New(a.polling.ConversationsInterval,
		func(ctx context.Context) ([]*domain.ChatConversation, error) {
			return b.GetConversations(ctx, user)
		},
		func(convs []*domain.ChatConversation) {
			if key := conversationsKey(convs); key != last {
				last = key
				a.printConversations(convs)
			}
		},
		poller.WithName("conversations"),
	)
	runFor(c, p.Start, p.Stop)
	return nil
}
