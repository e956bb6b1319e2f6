package commands

import "github.com/bwmarrin/discordgo"

const PartyCommand = "party"

func GetCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:         PartyCommand,
			Description:  "パーティ募集を管理します",
			DMPermission: boolPtr(false),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "現在の募集状況を表示します",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "post",
					Description: "次のパーティ募集を投稿します",
				},
			},
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}
