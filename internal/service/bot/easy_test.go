package bot

import (
	"math/rand"
	"testing"

	"github.com/iamasit07/gomoku/backend/internal/domain"
)

func TestEasyOpensInCentre(t *testing.T) {
	b := buildBoard(t, 9)
	d, err := NewEasy(rand.New(rand.NewSource(1))).Evaluate(b, domain.AI)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if d.ChosenIndex != b.Center() || !d.HasMove {
		t.Fatalf("expected the centre %d, got %+v", b.Center(), d)
	}
}

func TestEasyPlaysNextToStones(t *testing.T) {
	b := buildBoard(t, 9, stone{4, 4, domain.Human}, stone{0, 8, domain.AI})
	easy := NewEasy(rand.New(rand.NewSource(7)))

	for i := 0; i < 20; i++ {
		d, err := easy.Evaluate(b, domain.AI)
		if err != nil {
			t.Fatalf("evaluate failed: %v", err)
		}
		if b.ValueAt(d.ChosenIndex) != domain.Empty {
			t.Fatalf("chose occupied cell %d", d.ChosenIndex)
		}
		if !hasNeighbour(b, d.ChosenIndex) {
			t.Fatalf("cell %d does not touch a stone", d.ChosenIndex)
		}
	}
}

func TestEasyStillBlocksAndWins(t *testing.T) {
	easy := NewEasy(rand.New(rand.NewSource(3)))

	block := buildBoard(t, 9, row(4, 2, 5, domain.Human)...)
	d, err := easy.Evaluate(block, domain.AI)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if d.ChosenIndex != block.Index(4, 1) {
		t.Fatalf("easy must block the open four, got %d", d.ChosenIndex)
	}

	win := buildBoard(t, 9, append(row(2, 1, 4, domain.AI), row(6, 2, 4, domain.Human)...)...)
	d, err = easy.Evaluate(win, domain.AI)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if !d.Terminal || d.Winner != domain.AI {
		t.Fatalf("easy must take the win, got %+v", d)
	}
}
