package gateway

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// discordPlatform is the Platform backed by a live discordgo session.
type discordPlatform struct {
	session *discordgo.Session
}

func NewDiscordPlatform(session *discordgo.Session) Platform {
	return &discordPlatform{session: session}
}

func (p *discordPlatform) SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return p.session.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
}

func (p *discordPlatform) EditMessage(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	return p.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
}

func (p *discordPlatform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return p.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (p *discordPlatform) ResolveChannel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if p.session.State != nil {
		if ch, err := p.session.State.Channel(channelID); err == nil {
			return ch, nil
		}
	}
	return p.session.Channel(channelID, discordgo.WithContext(ctx))
}

func (p *discordPlatform) Acknowledge(ctx context.Context, i *discordgo.Interaction) error {
	return p.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
}

func (p *discordPlatform) FollowUp(ctx context.Context, i *discordgo.Interaction, params *discordgo.WebhookParams) error {
	params.Flags |= discordgo.MessageFlagsEphemeral
	_, err := p.session.FollowupMessageCreate(i, true, params, discordgo.WithContext(ctx))
	return err
}
