package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/iamasit07/gomoku/backend/internal/config"
	"github.com/iamasit07/gomoku/backend/internal/domain"
	"github.com/iamasit07/gomoku/backend/internal/terminal"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is optional for the local client
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	size := flag.Int("size", cfg.BoardSize, "board size (at least 5)")
	aiFirst := flag.String("ai-first", cfg.AIFirst, "who opens: true, false or random")
	difficulty := flag.String("difficulty", cfg.BotDifficulty, "easy, medium or hard")
	flag.Parse()

	ctrl, err := terminal.NewController(*size, *aiFirst, *difficulty)
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}

	var results []string
	ctrl.OnGameOver(func(winner domain.PlayerID) {
		results = append(results, domain.WinnerLabel(winner))
	})

	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}

	ui := terminal.NewUI(screen, ctrl)
	<-ui.Run()
	screen.Fini()

	if len(results) > 0 {
		fmt.Fprintf(os.Stdout, "Results: %v\n", results)
	}
	return nil
}
