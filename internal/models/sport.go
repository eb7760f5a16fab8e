package models

import "strings"

// sportDisplayNames maps lowercase sport keys to their emoji-prefixed
// display labels. Unknown keys fall back to the raw key.
var sportDisplayNames = map[string]string{
	"futbol":            "⚽ Fútbol",
	"football":          "⚽ Fútbol",
	"soccer":            "⚽ Fútbol",
	"hockey":            "🏒 Hockey",
	"tenis":             "🎾 Tenis",
	"tennis":            "🎾 Tenis",
	"nba":               "🏀 Basket",
	"basket":            "🏀 Basket",
	"basketball":        "🏀 Basket",
	"mma":               "🥊 MMA",
	"nfl":               "🏈 NFL",
	"american_football": "🏈 NFL",
}

// SportDisplayName resolves the human display label for a sport key.
func SportDisplayName(key string) string {
	if label, ok := sportDisplayNames[strings.ToLower(key)]; ok {
		return label
	}
	return key
}
