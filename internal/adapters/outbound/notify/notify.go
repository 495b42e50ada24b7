// Package notify announces diagnostic results.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdidvp/storediag/internal/domain"
	"github.com/bwmarrin/discordgo"
)

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(context.Context, *domain.DiagnosticResult) error { return nil }

// EmbedSender is the part of a discordgo session the notifier uses.
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord posts one embed per result to a channel.
type Discord struct {
	sender    EmbedSender
	channelID string
	now       func() time.Time
}

// NewDiscord opens a bot session for token.
func NewDiscord(token, channelID string) (*Discord, error) {
	if token == "" || channelID == "" {
		return nil, errors.New("discord token and channel id are required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	return NewDiscordWithSender(session, channelID), nil
}

func NewDiscordWithSender(sender EmbedSender, channelID string) *Discord {
	return &Discord{sender: sender, channelID: channelID, now: time.Now}
}

const maxEmbedFields = 10

var healthColors = map[domain.Health]int{
	domain.HealthHealthy:         0x2ECC71,
	domain.HealthAttentionNeeded: 0xF1C40F,
	domain.HealthWarning:         0xF39C12,
	domain.HealthCritical:        0xE74C3C,
}

func (d *Discord) Notify(ctx context.Context, res *domain.DiagnosticResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := d.sender.ChannelMessageSendEmbed(d.channelID, d.embed(res), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("sending discord message: %w", err)
	}
	return nil
}

func (d *Discord) embed(res *domain.DiagnosticResult) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Store %s: %s", res.StoreCode, res.OverallHealth),
		Color:     healthColors[res.OverallHealth],
		Timestamp: d.now().UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: "storediag"},
	}

	for _, is := range res.Issues {
		if len(e.Fields) == maxEmbedFields {
			break
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("[%s] %s", strings.ToUpper(string(is.Severity)), is.IssueType),
			Value: is.Description,
		})
	}

	var actions []string
	for _, rec := range res.Recommendations {
		actions = append(actions, fmt.Sprintf("%d. %s", rec.Priority, rec.Title))
	}
	if len(actions) > 0 && len(e.Fields) < maxEmbedFields {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:  "Recommended actions",
			Value: strings.Join(actions, "\n"),
		})
	}
	return e
}
