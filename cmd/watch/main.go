// cmd/watch/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/igupta1/CannonShooter/pkg/config"
	"github.com/igupta1/CannonShooter/pkg/logging"
	"github.com/igupta1/CannonShooter/pkg/network"
	"github.com/igupta1/CannonShooter/pkg/render"
)

func main() {
	logger := logging.NewLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "failed to load environment configuration", err)
		os.Exit(1)
	}

	defaultAddr := fmt.Sprintf("%s:%d", envConfig.ServerAddr, envConfig.ServerPort)
	addr := flag.String("addr", defaultAddr, "Feed server address (host:port)")
	scale := flag.Float64("scale", 2.0, "World units per character cell")
	flag.Parse()

	client := network.NewFeedClient(envConfig)
	url := fmt.Sprintf("ws://%s/feed", *addr)
	if err := client.Connect(ctx, url); err != nil {
		logger.Error(ctx, "failed to connect to feed", err, "url", url)
		os.Exit(1)
	}
	defer client.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Error(ctx, "failed to create screen", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		logger.Error(ctx, "failed to initialize screen", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.HideCursor()

	view := render.NewSpectatorView(screen, *scale)

	// Keyboard handling runs beside the feed loop; q or ESC quits.
	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case msg, ok := <-client.Messages:
			if !ok {
				return
			}
			if msg.Type == network.MessageState && msg.State != nil {
				view.Draw(msg.State)
			}
		}
	}
}
