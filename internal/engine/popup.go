package engine

import (
	"fmt"

	"github.com/revolution-of-the-dispossessed/Columbine/internal/models"
)

// DismissTrigger names what closed the popup.
type DismissTrigger string

const (
	DismissCloseControl DismissTrigger = "close"
	DismissBackdrop     DismissTrigger = "backdrop"
	DismissEscape       DismissTrigger = "escape"
)

// OpenPopup shows z's content, replacing whatever the popup held before.
func (e *Engine) OpenPopup(z models.Zone) {
	v := PopupView{
		ZoneID: z.ID,
		Title:  z.PopupTitle,
		Body:   z.PopupBody,
		Image:  z.PopupImage,
	}
	if v.Title == "" {
		v.Title = DefaultPopupTitle
	}

	for _, b := range z.PopupButtons {
		if e.opts.Popups == PopupPersistent {
			if eff, ok := actionEffects[b.Action]; ok && e.state.Flag(eff.flag) {
				v.Body = eff.confirm
				continue
			}
		}
		v.Buttons = append(v.Buttons, b)
	}

	e.popup = popupState{open: true, zone: z, view: v}
	e.view.ShowPopup(v)
}

// ClosePopup hides the popup. Its content stays until the next open.
func (e *Engine) ClosePopup() {
	e.popup.open = false
	e.view.HidePopup()
}

// Dismiss closes the popup in response to a user trigger.
func (e *Engine) Dismiss(trigger DismissTrigger) {
	if !e.popup.open {
		return
	}
	e.logger.Debug("Popup dismissed", "zone", e.popup.zone.ID, "trigger", trigger)
	e.ClosePopup()
}

func (e *Engine) PopupOpen() bool {
	return e.popup.open
}

// Popup returns the popup content currently held, open or not.
func (e *Engine) Popup() PopupView {
	return e.popup.view
}

// PressButton runs the i-th button of the open popup. Out of range indexes,
// including presses after the buttons were consumed, do nothing.
func (e *Engine) PressButton(i int) bool {
	if !e.popup.open || i < 0 || i >= len(e.popup.view.Buttons) {
		return false
	}
	b := e.popup.view.Buttons[i]
	if err := e.HandlePopupAction(b.Action, e.popup.zone); err != nil {
		return false
	}
	return true
}

// HandlePopupAction applies action against the game state. The popup content
// is only replaced when zone is the popup currently open.
func (e *Engine) HandlePopupAction(action models.Action, zone models.Zone) error {
	eff, ok := actionEffects[action]
	if !ok {
		e.logger.Warn("No handler for popup action", "action", action, "zone", zone.ID)
		return fmt.Errorf("%s: %w", action, ErrUnknownAction)
	}

	eff.apply(e.state)
	e.logger.Info("Popup action", "action", action, "zone", zone.ID, "inventory", e.state.Inventory)

	if e.popup.open && e.popup.zone.ID == zone.ID {
		e.popup.view.Body = eff.confirm
		e.popup.view.Buttons = nil
		e.view.ShowPopup(e.popup.view)
	}
	return nil
}
