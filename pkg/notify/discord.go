package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/umputun/anime-notifier/pkg/domain"
)

//go:generate moq -out mocks/webhook_sender.go -pkg mocks -skip-ensure -fmt goimports . WebhookSender
//go:generate moq -out mocks/identity.go -pkg mocks -skip-ensure -fmt goimports . Identity

// EmbedColor is crimson, used for every release embed
const EmbedColor = 0xDC143C

// WebhookSender executes discord webhooks
type WebhookSender interface {
	ExecuteWebhook(ctx context.Context, id, token string, params *discordgo.WebhookParams) error
}

// Identity provides username and avatar of a connected bot, ok is false when not connected
type Identity interface {
	Identity() (username, avatarURL string, ok bool)
}

// SessionSender sends webhooks with a discordgo session
type SessionSender struct {
	Session *discordgo.Session
}

// ExecuteWebhook implements WebhookSender
func (s SessionSender) ExecuteWebhook(ctx context.Context, id, token string, params *discordgo.WebhookParams) error {
	_, err := s.Session.WebhookExecute(id, token, false, params, discordgo.WithContext(ctx))
	return err
}

// DiscordParams defines parameters for Discord notifier
type DiscordParams struct {
	WebhookID    string
	WebhookToken string
	URLTemplate  string // supports {slug}, {episode} and {link}, item link is used if empty
	Sender       WebhookSender
	Identity     Identity // optional
}

// Discord posts release embeds to a discord webhook
type Discord struct {
	DiscordParams
	renderer *DescriptionRenderer
}

// NewDiscord makes Discord notifier
func NewDiscord(params DiscordParams) *Discord {
	return &Discord{DiscordParams: params, renderer: NewDescriptionRenderer()}
}

// Name of the notifier
func (d *Discord) Name() string { return "discord" }

// Notify sends embed for the match
func (d *Discord) Notify(ctx context.Context, m domain.Match) error {
	params := &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{d.Embed(m)}}
	if d.Identity != nil {
		if name, avatar, ok := d.Identity.Identity(); ok {
			params.Username, params.AvatarURL = name, avatar
		}
	}
	if err := d.Sender.ExecuteWebhook(ctx, d.WebhookID, d.WebhookToken, params); err != nil {
		return fmt.Errorf("execute webhook: %w", err)
	}
	return nil
}

// Embed builds release embed for the match
func (d *Discord) Embed(m domain.Match) *discordgo.MessageEmbed {
	res := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s #%s", m.Entry.Title, m.Episode),
		URL:         d.URL(m),
		Description: d.renderer.Render(m.Item.Description),
		Color:       EmbedColor,
	}

	for _, f := range []struct{ name, key string }{
		{"Seeders", "nyaa:seeders"},
		{"Leechers", "nyaa:leechers"},
		{"Downloads", "nyaa:downloads"},
	} {
		if v := m.Item.Field(f.key); v != "" {
			res.Fields = append(res.Fields, &discordgo.MessageEmbedField{Name: f.name, Value: v, Inline: true})
		}
	}

	if m.Item.Published != nil {
		res.Timestamp = m.Item.Published.UTC().Format(time.RFC3339)
	}
	return res
}

// URL makes link for the match from the template
func (d *Discord) URL(m domain.Match) string {
	return Link(d.URLTemplate, m)
}

// Link fills {slug}, {episode} and {link} placeholders of the template, item link if template is empty
func Link(template string, m domain.Match) string {
	if template == "" {
		return m.Item.Link
	}
	return strings.NewReplacer(
		"{slug}", m.Entry.Slug,
		"{episode}", m.Episode,
		"{link}", m.Item.Link,
	).Replace(template)
}
