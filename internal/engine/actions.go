package engine

import "github.com/revolution-of-the-dispossessed/Columbine/internal/models"

// actionEffect is what a popup action does: collect an item, set a flag and
// replace the popup body with a confirmation.
type actionEffect struct {
	item    string
	flag    string
	confirm string
}

func (a actionEffect) apply(s *models.GameState) {
	if a.item != "" {
		s.AddItem(a.item)
	}
	if a.flag != "" {
		s.SetFlag(a.flag, true)
	}
}

var actionEffects = map[models.Action]actionEffect{
	models.ActionTakeBurntPaper: {
		item:    "burntPaper",
		flag:    "hasBurntPaper",
		confirm: "You carefully tuck the scrap into your pocket.",
	},
}
