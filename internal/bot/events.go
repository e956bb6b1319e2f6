package bot

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/susu3304/partybot/internal/commands"
)

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("%s is connected!", event.User.Username)

	// Register commands for all guilds
	for _, guild := range event.Guilds {
		if err := b.registerGuildCommands(s, guild.ID); err != nil {
			log.Printf("Failed to register commands for guild %s: %v", guild.ID, err)
		}
	}
}

func (b *Bot) onGuildCreate(s *discordgo.Session, event *discordgo.GuildCreate) {
	log.Printf("Guild available/joined: %s (id=%s), ensuring commands", event.Name, event.ID)
	if err := b.registerGuildCommands(s, event.ID); err != nil {
		log.Printf("Failed to register commands for guild %s: %v", event.ID, err)
	}
}

func (b *Bot) registerGuildCommands(s *discordgo.Session, guildID string) error {
	cmds := commands.GetCommands()
	_, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, guildID, cmds)
	if err != nil {
		return err
	}

	log.Printf("Registered application commands for guild %s", guildID)
	return nil
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.dispatch(i)
}

func (b *Bot) dispatch(i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		b.handleComponent(i)
	case discordgo.InteractionApplicationCommand:
		b.handleApplicationCommand(i)
	}
}

func (b *Bot) handleApplicationCommand(i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	switch data.Name {
	case commands.PartyCommand:
		commands.HandleParty(context.Background(), i, b.gw, b)
	}
}
