// Package discord posts embeds to a Discord channel for prediction starts
// and won wagers.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/event"
)

// Sender is the slice of *discordgo.Session the notifier needs
type Sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// NewSession creates a bot session. Sending embeds goes through REST, so the
// gateway is never opened.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCreateSession, err)
	}
	return s, nil
}

// Notifier turns bus events into channel messages
type Notifier struct {
	sender    Sender
	channelID string
}

// NewNotifier creates a notifier posting to channelID
func NewNotifier(sender Sender, channelID string) *Notifier {
	return &Notifier{sender: sender, channelID: channelID}
}

// Register subscribes the notifier to the bus
func (n *Notifier) Register(bus event.Bus) {
	bus.Subscribe(event.PredictionStarted, n.handlePredictionStarted)
	bus.Subscribe(event.WagerSettled, n.handleWagerSettled)
	slog.Info(LogMsgNotifierRegistered, "channel_id", n.channelID)
}

func displayHandle(handle string) string {
	return cases.Title(language.Und).String(handle)
}

func (n *Notifier) handlePredictionStarted(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.PredictionStartedPayload](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgParseError, "event_type", evt.Type, "error", err)
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       "New prediction",
		Description: fmt.Sprintf("**%s** vs **%s**. Who goes offline first?", displayHandle(p.HandleA), displayHandle(p.HandleB)),
		Color:       ColorPrediction,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Contest", Value: p.ContestID, Inline: true},
			{Name: "Closes", Value: fmt.Sprintf("<t:%d:R>", p.ExpiresAt), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	return n.send(evt.Type, embed)
}

func (n *Notifier) handleWagerSettled(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.WagerSettledPayload](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgParseError, "event_type", evt.Type, "error", err)
		return nil
	}
	// losses are not announced
	if p.State != domain.WagerWon {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Prediction won!",
		Description: fmt.Sprintf("A viewer called it: **%s** outlasted the other side.", displayHandle(p.ChosenHandle)),
		Color:       ColorWin,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Contest", Value: p.ContestID, Inline: true},
			{Name: "Reward", Value: fmt.Sprintf("%d coins", p.Credited), Inline: true},
		},
		Timestamp: time.Unix(p.Timestamp, 0).UTC().Format(time.RFC3339),
	}
	return n.send(evt.Type, embed)
}

func (n *Notifier) send(t event.Type, embed *discordgo.MessageEmbed) error {
	if n.channelID == "" {
		return nil
	}
	if _, err := n.sender.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
		slog.Error(LogMsgNotifyFailed, "event_type", t, "error", err)
		return err
	}
	slog.Debug(LogMsgNotifySent, "event_type", t)
	return nil
}
