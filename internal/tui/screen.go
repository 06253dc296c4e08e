package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/revolution-of-the-dispossessed/Columbine/internal/engine"
	"github.com/revolution-of-the-dispossessed/Columbine/internal/models"
)

const (
	popupMaxWidth = 60
	popupMaxBody  = 8
	closeControl  = "[x]"
	buttonSpacing = 2
	bodyTop       = 1 // the marquee occupies row 0
	reservedRows  = 2 // marquee and status line
	minBodyHeight = 3
	defaultWidth  = 80
	defaultHeight = 24
)

var (
	marqueeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Background(lipgloss.Color("#000080")).
			Bold(true)

	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C0C0C0"))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFA500")).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#C0C0C0"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// popupLayout is where the popup and its controls sit on screen.
type popupLayout struct {
	lines   []string
	box     rect
	close   rect
	buttons []rect
}

// screen is the terminal presentation surface. It implements
// engine.Presenter and keeps everything needed to draw a frame.
type screen struct {
	width, height int

	rooms  map[string]bool
	active string
	zones  map[string][]models.Zone

	hint          []rune
	marqueeOffset int
	hintRestarts  int

	loading  bool
	segments int
	filled   int

	popup        engine.PopupView
	popupVisible bool
	body         viewport.Model
}

var _ engine.Presenter = (*screen)(nil)

func newScreen(roomIDs []string) *screen {
	s := &screen{
		width:  defaultWidth,
		height: defaultHeight,
		rooms:  make(map[string]bool, len(roomIDs)),
		zones:  make(map[string][]models.Zone),
		body:   viewport.New(popupMaxWidth, popupMaxBody),
	}
	for _, id := range roomIDs {
		s.rooms[id] = true
	}
	return s
}

func (s *screen) HasRoom(id string) bool {
	return s.rooms[id]
}

func (s *screen) ShowLoading(segments int) {
	s.segments = segments
	s.filled = 0
	s.loading = true
}

func (s *screen) HideLoading() {
	s.loading = false
}

func (s *screen) SetActiveRoom(id string) {
	s.active = ""
	if s.rooms[id] {
		s.active = id
	}
}

func (s *screen) RenderZones(roomID string, zones []models.Zone) {
	s.zones[roomID] = zones
}

func (s *screen) SetHint(text string) {
	s.hint = []rune(text)
	s.marqueeOffset = 0
	s.hintRestarts++
}

func (s *screen) ShowPopup(v engine.PopupView) {
	s.popup = v
	s.popupVisible = true
	s.refreshBody()
	s.body.GotoTop()
}

func (s *screen) HidePopup() {
	s.popupVisible = false
}

func (s *screen) resize(width, height int) {
	s.width = width
	s.height = height
	s.refreshBody()
}

func (s *screen) bodyHeight() int {
	return max(s.height-reservedRows, minBodyHeight)
}

func (s *screen) popupInnerWidth() int {
	return max(min(popupMaxWidth, s.width-4)-4, 10)
}

func (s *screen) refreshBody() {
	w := s.popupInnerWidth()
	wrapped := wordwrap.String(s.popup.Body, w)
	s.body.Width = w
	s.body.Height = min(strings.Count(wrapped, "\n")+1, popupMaxBody)
	s.body.SetContent(wrapped)
}

// tick advances the marquee and the loading bar by one frame.
func (s *screen) tick() {
	if n := len(s.hint); n > 0 {
		s.marqueeOffset = (s.marqueeOffset + 1) % (n + s.width)
	}
	if s.loading && s.filled < s.segments {
		s.filled++
	}
}

// toPercent maps a terminal cell in the room area to viewport percentages,
// using the cell centre.
func (s *screen) toPercent(x, y int) (float64, float64, bool) {
	row := y - bodyTop
	if row < 0 || row >= s.bodyHeight() || x < 0 || x >= s.width {
		return 0, 0, false
	}
	px := (float64(x) + 0.5) / float64(s.width) * 100
	py := (float64(row) + 0.5) / float64(s.bodyHeight()) * 100
	return px, py, true
}

func (s *screen) zoneRect(z models.Zone) rect {
	w, h := s.width, s.bodyHeight()
	x0 := int(z.X / 100 * float64(w))
	y0 := int(z.Y / 100 * float64(h))
	x1 := int((z.X + z.W) / 100 * float64(w))
	y1 := int((z.Y + z.H) / 100 * float64(h))
	return rect{x: x0, y: y0, w: max(x1-x0, 1), h: max(y1-y0, 1)}
}

func (s *screen) marquee() string {
	pad := []rune(strings.Repeat(" ", s.width))
	track := append(append([]rune{}, pad...), s.hint...)
	track = append(track, pad...)
	start := min(s.marqueeOffset, len(track)-s.width)
	return marqueeStyle.Render(string(track[start : start+s.width]))
}

func (s *screen) roomCanvas() string {
	w, h := s.width, s.bodyHeight()
	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", w))
	}
	set := func(x, y int, r rune) {
		if y >= 0 && y < h && x >= 0 && x < w {
			grid[y][x] = r
		}
	}

	for i, z := range s.zones[s.active] {
		r := s.zoneRect(z)
		right, bottom := r.x+r.w-1, r.y+r.h-1
		for x := r.x; x <= right; x++ {
			set(x, r.y, '─')
			set(x, bottom, '─')
		}
		for y := r.y; y <= bottom; y++ {
			set(r.x, y, '│')
			set(right, y, '│')
		}
		set(r.x, r.y, '┌')
		set(right, r.y, '┐')
		set(r.x, bottom, '└')
		set(right, bottom, '┘')

		label := fmt.Sprintf("%d %s", i+1, z.Label)
		inner := max(r.w-2, 1)
		label = truncate.StringWithTail(label, uint(inner), "…")
		ly := r.y + r.h/2
		lx := r.x + 1 + max((inner-lipgloss.Width(label))/2, 0)
		for j, ch := range []rune(label) {
			set(lx+j, ly, ch)
		}
	}

	lines := make([]string, h)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return roomStyle.Render(strings.Join(lines, "\n"))
}

func (s *screen) loadingCanvas() string {
	bar := strings.Repeat("█", s.filled) + strings.Repeat("░", max(s.segments-s.filled, 0))
	content := loadingStyle.Render("LOADING...\n\n[" + bar + "]")
	return lipgloss.Place(s.width, s.bodyHeight(), lipgloss.Center, lipgloss.Center, content)
}

func (s *screen) layoutPopup() popupLayout {
	inner := s.popupInnerWidth()
	var lay popupLayout

	title := truncate.StringWithTail(s.popup.Title, uint(max(inner-len(closeControl)-1, 1)), "…")
	gap := max(inner-lipgloss.Width(title)-len(closeControl), 1)
	content := []string{title + strings.Repeat(" ", gap) + closeControl, ""}
	content = append(content, strings.Split(s.body.View(), "\n")...)

	if s.popup.Image != "" {
		content = append(content, "", truncate.StringWithTail("[image: "+s.popup.Image+"]", uint(inner), "…"))
	}

	var buttonCols []int
	if len(s.popup.Buttons) > 0 {
		var row strings.Builder
		col := 0
		for i, b := range s.popup.Buttons {
			if i > 0 {
				row.WriteString(strings.Repeat(" ", buttonSpacing))
				col += buttonSpacing
			}
			label := fmt.Sprintf("[%d %s]", i+1, b.Label)
			buttonCols = append(buttonCols, col, lipgloss.Width(label))
			row.WriteString(buttonStyle.Render(label))
			col += lipgloss.Width(label)
		}
		content = append(content, "", row.String())
	}

	box := popupStyle.Render(strings.Join(content, "\n"))
	boxW, boxH := lipgloss.Width(box), lipgloss.Height(box)
	left := max((s.width-boxW)/2, 0)
	top := max((s.bodyHeight()-boxH)/2, 0)

	lay.box = rect{x: left, y: bodyTop + top, w: boxW, h: boxH}
	// border plus padding put content two columns in and one row down
	contentX, contentY := left+2, bodyTop+top+1
	lay.close = rect{x: contentX + inner - len(closeControl), y: contentY, w: len(closeControl), h: 1}
	for i := 0; i < len(buttonCols); i += 2 {
		lay.buttons = append(lay.buttons, rect{
			x: contentX + buttonCols[i],
			y: contentY + len(content) - 1,
			w: buttonCols[i+1],
			h: 1,
		})
	}

	pad := strings.Repeat(" ", left)
	for i := 0; i < top; i++ {
		lay.lines = append(lay.lines, "")
	}
	for _, line := range strings.Split(box, "\n") {
		lay.lines = append(lay.lines, pad+line)
	}
	return lay
}

// hitPopup resolves a click while the popup is visible.
func (s *screen) hitPopup(x, y int) (button int, closeHit, inside bool) {
	lay := s.layoutPopup()
	if lay.close.contains(x, y) {
		return -1, true, true
	}
	for i, b := range lay.buttons {
		if b.contains(x, y) {
			return i, false, true
		}
	}
	return -1, false, lay.box.contains(x, y)
}

func (s *screen) canvas() string {
	switch {
	case s.loading:
		return s.loadingCanvas()
	case s.popupVisible:
		lines := s.layoutPopup().lines
		for len(lines) < s.bodyHeight() {
			lines = append(lines, "")
		}
		return strings.Join(lines[:s.bodyHeight()], "\n")
	default:
		return s.roomCanvas()
	}
}

func (s *screen) view(status string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		s.marquee(),
		s.canvas(),
		helpStyle.Render(truncate.String(status, uint(s.width))),
	)
}
