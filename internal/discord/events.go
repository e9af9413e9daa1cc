package discord

import "encoding/json"

// Gateway opcodes used by this client.
const (
	opDispatch     = 0
	opHeartbeat    = 1
	opIdentify     = 2
	opHello        = 10
	opHeartbeatACK = 11
)

// gatewayIntents requests guild messages, direct messages, and message
// content. Content is a privileged intent and must also be enabled in the
// application settings.
const gatewayIntents = 1<<9 | 1<<12 | 1<<15

// payload is the raw gateway frame.
type payload struct {
	Op       int             `json:"op"`
	Type     string          `json:"t,omitempty"`
	Sequence *int64          `json:"s,omitempty"`
	Data     json.RawMessage `json:"d,omitempty"`
}

// helloData is the server greeting carrying the heartbeat cadence.
type helloData struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

// identifyData authenticates the gateway session.
type identifyData struct {
	Token      string             `json:"token"`
	Intents    int                `json:"intents"`
	Properties identifyProperties `json:"properties"`
	Presence   *presenceUpdate    `json:"presence,omitempty"`
}

type identifyProperties struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

// presenceUpdate sets the bot's status at identify time.
type presenceUpdate struct {
	Since      int64      `json:"since"`
	Activities []activity `json:"activities"`
	Status     string     `json:"status"`
	AFK        bool       `json:"afk"`
}

// activityWatching is the activity type rendered as "Watching ...".
const activityWatching = 3

type activity struct {
	Name string `json:"name"`
	Type int    `json:"type"`
}

// readyData is the READY dispatch body.
type readyData struct {
	User      User   `json:"user"`
	SessionID string `json:"session_id"`
}

// Message is a chat message from a MESSAGE_CREATE dispatch.
type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id,omitempty"`
	Content   string `json:"content"`
	Author    User   `json:"author"`
}

// User identifies a Discord account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot"`
}
