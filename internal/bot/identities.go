package bot

import (
	"fmt"
	"strconv"
	"strings"
)

const botIDPrefix = "bot-"

// BotIdentity describes one entry of the bot seat pool.
type BotIdentity struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Level       string `json:"level"` // "greedy" or "standard"
}

var defaultIdentities = []BotIdentity{
	{Username: "minh_bot", DisplayName: "Minh", Level: "standard"},
	{Username: "lan_bot", DisplayName: "Lan", Level: "standard"},
	{Username: "huy_bot", DisplayName: "Huy", Level: "greedy"},
	{Username: "mai_bot", DisplayName: "Mai", Level: "greedy"},
}

// GetBotIdentity returns an identity for a bot by index (mod pool size),
// with a stable synthetic user ID.
func GetBotIdentity(index int) BotIdentity {
	id := defaultIdentities[index%len(defaultIdentities)]
	id.UserID = fmt.Sprintf("%s%d", botIDPrefix, index)
	return id
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	return strings.HasPrefix(userID, botIDPrefix)
}

// IdentityOf recovers the pool identity behind a synthetic bot user ID.
func IdentityOf(userID string) (BotIdentity, bool) {
	if !strings.HasPrefix(userID, botIDPrefix) {
		return BotIdentity{}, false
	}
	index, err := strconv.Atoi(strings.TrimPrefix(userID, botIDPrefix))
	if err != nil || index < 0 {
		return BotIdentity{}, false
	}
	return GetBotIdentity(index), true
}

// LevelOf maps an identity's level tag onto a strategy tier.
func LevelOf(id BotIdentity) BotLevel {
	if id.Level == "standard" {
		return BotLevelStandard
	}
	return BotLevelGreedy
}
