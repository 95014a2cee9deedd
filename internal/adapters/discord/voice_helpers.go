package discord

import "github.com/bwmarrin/discordgo"

func safeGetChannel(s *discordgo.Session, id string) (*discordgo.Channel, error) {
	if ch, err := s.State.Channel(id); err == nil && ch != nil {
		return ch, nil
	}
	ch, err := s.Channel(id)
	if err != nil {
		return nil, err
	}
	_ = s.State.ChannelAdd(ch)
	return ch, nil
}

// userVoiceChannel devuelve el canal de voz donde está el usuario, si está en uno.
func userVoiceChannel(s *discordgo.Session, guildID, userID string) (*discordgo.Channel, bool) {
	vs, err := s.State.VoiceState(guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return nil, false
	}
	ch, err := safeGetChannel(s, vs.ChannelID)
	if err != nil {
		return nil, false
	}
	return ch, true
}
