// Package main provides the reader control CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/speedreader/internal/api/connect"
	"github.com/osa030/speedreader/internal/app/notification"
	"github.com/osa030/speedreader/internal/app/playback"
	"github.com/osa030/speedreader/internal/domain/article"
	"github.com/osa030/speedreader/internal/infra/terminal"
)

var (
	app    = kingpin.New("speedreader-cli", "Speed reading server control client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "Control token").Envar("SPEEDREADER_AUTH_TOKEN").String()

	loadCmd   = app.Command("load", "Load a plain-text article")
	loadFile  = loadCmd.Arg("file", "Path to a text file").Required().ExistingFile()
	loadTitle = loadCmd.Flag("title", "Article title (default: file name)").String()

	playCmd   = app.Command("play", "Start or resume reading")
	pauseCmd  = app.Command("pause", "Pause reading")
	toggleCmd = app.Command("toggle", "Toggle between playing and paused")
	fasterCmd = app.Command("faster", "Increase the rate by one step")
	slowerCmd = app.Command("slower", "Decrease the rate by one step")

	rateCmd   = app.Command("rate", "Set the rate")
	rateValue = rateCmd.Arg("wpm", "Words per minute").Required().Int()

	seekCmd      = app.Command("seek", "Seek to a position")
	seekFraction = seekCmd.Arg("fraction", "Position between 0 and 1").Required().Float64()

	statusCmd    = app.Command("status", "Show the reader status")
	subscribeCmd = app.Command("subscribe", "Follow the reader in the terminal")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := apiconnect.NewReaderServiceClient(
		http.DefaultClient,
		*server,
		connect.WithInterceptors(apiconnect.NewTokenInterceptor(*token)),
	)

	ctx := context.Background()

	var (
		status apiconnect.Status
		err    error
	)
	switch command {
	case loadCmd.FullCommand():
		var a article.Article
		a, err = article.FromFile(*loadFile, *loadTitle)
		if err == nil {
			status, err = client.Load(ctx, a.Title, a.Text)
		}
	case playCmd.FullCommand():
		status, err = client.Play(ctx)
	case pauseCmd.FullCommand():
		status, err = client.Pause(ctx)
	case toggleCmd.FullCommand():
		status, err = client.Toggle(ctx)
	case fasterCmd.FullCommand():
		status, err = client.IncreaseRate(ctx)
	case slowerCmd.FullCommand():
		status, err = client.DecreaseRate(ctx)
	case rateCmd.FullCommand():
		status, err = client.SetRate(ctx, *rateValue)
	case seekCmd.FullCommand():
		status, err = client.Seek(ctx, *seekFraction)
	case statusCmd.FullCommand():
		status, err = client.GetStatus(ctx)
	case subscribeCmd.FullCommand():
		subscribe(ctx, client)
		return
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	printStatus(status)
}

func printStatus(s apiconnect.Status) {
	fmt.Println("Reader Status:")
	fmt.Printf("  Session ID: %s\n", s.SessionID)
	fmt.Printf("  Title: %s\n", s.Title)
	fmt.Printf("  Words: %d\n", s.WordCount)
	fmt.Printf("  State: %s\n", s.State)
	fmt.Printf("  Position: %d / %d (%.0f%%)\n", min(s.Index+1, s.Total), s.Total, s.Fraction*100)
	fmt.Printf("  Rate: %d WPM\n", s.Rate)
	fmt.Printf("  Word: %s\n", s.Word)
}

func subscribe(ctx context.Context, client *apiconnect.ReaderServiceClient) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nUnsubscribing...")
		cancel()
	}()

	presenter := terminal.NewPresenter(os.Stdout, terminal.WithColor(true))
	err := client.Subscribe(ctx, func(n *notification.Notification) error {
		render(presenter, n)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		fmt.Printf("\nStream error: %v\n", err)
		os.Exit(1)
	}
}

// render replays a notification on the terminal presenter.
func render(p *terminal.Presenter, n *notification.Notification) {
	p.SetTotal(n.Total)

	switch n.Type {
	case notification.TypeInitialState:
		p.RateChanged(n.Rate)
		p.Progress(n.Fraction)
		p.WordChanged(n.Before, n.Focus, n.After)
		if state, ok := playback.ParseState(n.State); ok {
			p.StatusChanged(state)
		}
	case notification.TypeWord:
		p.WordChanged(n.Before, n.Focus, n.After)
	case notification.TypeProgress:
		p.Progress(n.Fraction)
	case notification.TypeRate:
		p.RateChanged(n.Rate)
	case notification.TypeState:
		if state, ok := playback.ParseState(n.State); ok {
			p.StatusChanged(state)
		}
	}
}
