package discord

// Embed colors
const (
	ColorPrediction = 0x53FC18
	ColorWin        = 0xFFD700
)

const (
	LogMsgNotifierRegistered = "Discord notifier registered"
	LogMsgNotifySent         = "Discord notification sent"
	LogMsgNotifyFailed       = "Failed to send Discord notification"
	LogMsgParseError         = "Failed to parse event payload for Discord"
)

// ErrMsgCreateSession wraps discordgo session errors
const ErrMsgCreateSession = "error creating Discord session: %w"
