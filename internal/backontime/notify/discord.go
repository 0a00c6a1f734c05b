package notify

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/disgo/webhook"
)

// Discord posts an embed to a Discord webhook.
type Discord struct {
	client *webhook.Client
}

// NewDiscord creates a notifier for a Discord webhook URL
func NewDiscord(url string) (*Discord, error) {
	client, err := webhook.NewWithURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook client: %w", err)
	}
	return &Discord{client: client}, nil
}

func (d *Discord) Name() string { return "discord" }

func (d *Discord) Notify(ctx context.Context, f Failure) error {
	if _, err := d.client.CreateEmbeds([]discord.Embed{buildEmbed(f)}, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to send embed: %w", err)
	}
	return nil
}

func buildEmbed(f Failure) discord.Embed {
	b := discord.NewEmbedBuilder().
		SetTitle("❌ "+f.title()).
		SetDescription(f.summary()).
		SetColor(0xff0000).
		SetTimestamp(f.StartedAt).
		SetFooter("backontime • "+f.Host, "")

	if out := truncate(f.Stderr); out != "" {
		b.AddField("stderr", "```\n"+out+"\n```", false)
	}
	if out := truncate(f.Stdout); out != "" {
		b.AddField("stdout", "```\n"+out+"\n```", false)
	}
	return b.Build()
}
