package engine

import "github.com/revolution-of-the-dispossessed/Columbine/internal/models"

// PopupView is the content the popup surface shows.
type PopupView struct {
	ZoneID  string
	Title   string
	Body    string
	Image   string // empty hides the image
	Buttons []models.Button
}

// Presenter is the set of surfaces the engine draws on. The engine never
// reads presentation state back except through HasRoom.
type Presenter interface {
	// HasRoom reports whether a surface exists for the room.
	HasRoom(id string) bool

	// ShowLoading rebuilds the loading bar with the given number of segments
	// and reveals the overlay.
	ShowLoading(segments int)
	HideLoading()

	// SetActiveRoom deactivates every room surface, then activates id if a
	// surface exists for it.
	SetActiveRoom(id string)

	// RenderZones replaces all hotspot regions within the room.
	RenderZones(roomID string, zones []models.Zone)

	// SetHint sets the marquee text and restarts its animation from the
	// initial position, even if the text is unchanged.
	SetHint(text string)

	// ShowPopup sets every popup field from v and makes the popup visible.
	ShowPopup(v PopupView)
	HidePopup()
}
