package loop

import (
	"fmt"

	"github.com/tomz197/orbitduel/internal/object"
)

// drawTitleScreen draws the launch screen.
func (s *session) drawTitleScreen() {
	centerX := s.canvas.TerminalWidth() / 2
	centerY := s.canvas.TerminalHeight() / 2

	title := "O R B I T   D U E L"
	s.out.WriteAt(centerX-len(title)/2, centerY-4, title)

	subtitle := "Press ENTER to start"
	s.out.WriteAt(centerX-len(subtitle)/2, centerY-1, subtitle)

	lines := []string{
		"Red:    arrows to thrust, SPACE to fire",
		"Purple: WASD to thrust, F to fire",
		"Shove the square into the enemy goal. Watch your hull. Q quits.",
	}
	for i, line := range lines {
		s.out.WriteAt(centerX-len(line)/2, centerY+2+i, line)
	}
}

// drawRoundEndScreen announces the round winner.
func (s *session) drawRoundEndScreen() {
	centerX := s.canvas.TerminalWidth() / 2
	centerY := s.canvas.TerminalHeight() / 2

	title := fmt.Sprintf("%s WINS THE ROUND", sideName(s.engine.Winner()))
	s.out.WriteAt(centerX-len(title)/2, centerY-3, title)

	red := s.engine.Player(object.SideRed)
	score := fmt.Sprintf("RED %d", red.Score)
	if purple := s.engine.Player(object.SidePurple); purple != nil {
		score = fmt.Sprintf("RED %d : %d PURPLE", red.Score, purple.Score)
	}
	s.out.WriteAt(centerX-len(score)/2, centerY-1, score)

	prompt := "Press ENTER to continue"
	s.out.WriteAt(centerX-len(prompt)/2, centerY+2, prompt)
}

// drawDraftScreen lists the loser's powerup options.
func (s *session) drawDraftScreen() {
	centerX := s.canvas.TerminalWidth() / 2
	centerY := s.canvas.TerminalHeight() / 2

	title := fmt.Sprintf("%s: CHOOSE AN UPGRADE", sideName(s.engine.DraftSide()))
	s.out.WriteAt(centerX-len(title)/2, centerY-4, title)

	for i, p := range s.engine.Draft() {
		line := fmt.Sprintf("[%d] %s - %s", i+1, p, p.Description())
		s.out.WriteAt(centerX-len(line)/2, centerY-1+i*2, line)
	}

	prompt := "Press the number of your pick"
	s.out.WriteAt(centerX-len(prompt)/2, centerY+6, prompt)
}
