package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/iamasit07/gomoku/backend/internal/domain"
	"github.com/mattn/go-runewidth"
)

const (
	cellWidth = 2
	padTop    = 2
	padLeft   = 4
)

const (
	emptyRune = '·'
	humanRune = 'X'
	aiRune    = 'O'
	space     = 32
)

// UI draws a Controller on a tcell screen and feeds it key presses.
type UI struct {
	screen tcell.Screen
	style  tcell.Style
	ctrl   *Controller
}

func NewUI(screen tcell.Screen, ctrl *Controller) *UI {
	style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	ui := &UI{screen: screen, style: style, ctrl: ctrl}
	ui.Draw()
	return ui
}

// Run polls terminal events until the player quits. The returned channel
// is closed on quit.
func (u *UI) Run() chan struct{} {
	quit := make(chan struct{})

	go func() {
		for {
			event := u.screen.PollEvent()
			switch ev := event.(type) {
			case *tcell.EventResize:
				u.screen.Sync()
				u.Draw()
			case *tcell.EventKey:
				if u.HandleKey(ev) {
					close(quit)
					return
				}
			case nil:
				// screen finalised
				close(quit)
				return
			}
		}
	}()

	return quit
}

// HandleKey applies one key press and redraws. It reports whether the
// player asked to quit.
func (u *UI) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyUp:
		u.ctrl.MoveCursor(-1, 0)
	case tcell.KeyDown:
		u.ctrl.MoveCursor(1, 0)
	case tcell.KeyLeft:
		u.ctrl.MoveCursor(0, -1)
	case tcell.KeyRight:
		u.ctrl.MoveCursor(0, 1)
	case tcell.KeyEnter:
		u.place()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			u.place()
		case 'u':
			u.ctrl.Undo()
		case 'h':
			u.ctrl.ShowHint()
		case 'n':
			u.ctrl.NewGame()
		}
	}

	u.Draw()
	return false
}

func (u *UI) place() {
	if u.ctrl.Game.IsFinished() {
		u.screen.Beep()
		return
	}
	if err := u.ctrl.Place(); err != nil {
		u.screen.Beep()
	}
}

// cellPos returns the screen position of a board cell.
func cellPos(row, col int) (x, y int) {
	return padLeft + col*cellWidth, padTop + row
}

func (u *UI) Draw() {
	u.screen.Clear()

	board := u.ctrl.Game.Board
	size := board.Size()
	curRow, curCol := u.ctrl.Cursor()

	u.print(padLeft, 0, "Gomoku vs "+domain.GetBotName(u.ctrl.Difficulty)+" ("+u.ctrl.Difficulty+")", u.style)

	dim := u.style.Foreground(tcell.ColorGrey)
	for row := 0; row < size; row++ {
		u.print(0, padTop+row, fmt.Sprintf("%3d", row+1), dim)

		for col := 0; col < size; col++ {
			index := board.Index(row, col)
			r, style := emptyRune, dim

			switch board.ValueAt(index) {
			case domain.Human:
				r, style = humanRune, u.style.Foreground(tcell.ColorAqua)
			case domain.AI:
				r, style = aiRune, u.style.Foreground(tcell.ColorRed)
				if index == u.ctrl.LastAI {
					style = style.Bold(true)
				}
			}
			if index == u.ctrl.Hint {
				r, style = '+', u.style.Foreground(tcell.ColorYellow)
			}
			if row == curRow && col == curCol {
				style = style.Reverse(true)
			}

			x, y := cellPos(row, col)
			u.screen.SetContent(x, y, r, nil, style)
		}
	}

	panel := padLeft + size*cellWidth + 3
	u.print(panel, padTop, u.ctrl.Message, u.style)
	u.print(panel, padTop+2, fmt.Sprintf("AI threat:    %d", u.ctrl.Threats.AIThreat), u.style)
	u.print(panel, padTop+3, fmt.Sprintf("Human threat: %d", u.ctrl.Threats.HumanThreat), u.style)
	u.print(panel, padTop+5, "<arrows> move  <space> place", dim)
	u.print(panel, padTop+6, "<u> undo  <h> hint", dim)
	u.print(panel, padTop+7, "<n> new game  <q> quit", dim)

	u.screen.Show()
}

func (u *UI) print(x, y int, str string, style tcell.Style) {
	for _, c := range str {
		var comb []rune
		w := runewidth.RuneWidth(c)
		if w == 0 {
			comb = []rune{c}
			c = space
			w = 1
		}
		u.screen.SetContent(x, y, c, comb, style)
		x += w
	}
}
