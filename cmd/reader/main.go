// Package main provides a terminal speed reader for plain-text files.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/osa030/speedreader/internal/app/playback"
	"github.com/osa030/speedreader/internal/app/reader"
	"github.com/osa030/speedreader/internal/domain/article"
	"github.com/osa030/speedreader/internal/infra/config"
	"github.com/osa030/speedreader/internal/infra/logger"
	"github.com/osa030/speedreader/internal/infra/terminal"
)

var (
	app        = kingpin.New("speedreader", "Read a text file one word at a time")
	file       = app.Arg("file", "Path to a text file").Required().ExistingFile()
	title      = app.Flag("title", "Article title (default: file name)").String()
	rate       = app.Flag("rate", "Initial rate in words per minute (default: from config)").Short('r').Int()
	configPath = app.Flag("config", "Path to config file").String()
	lang       = app.Flag("lang", "Language used to format numbers").Default("en").String()
	noColor    = app.Flag("no-color", "Do not highlight the focus letter").Bool()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file").Default("discard").String()
)

// finishWatcher signals when the article has been read to the end.
type finishWatcher struct {
	finished chan struct{}
}

func (w *finishWatcher) WordChanged(string, string, string) {}
func (w *finishWatcher) Progress(float64)                   {}
func (w *finishWatcher) RateChanged(int)                    {}

func (w *finishWatcher) StatusChanged(status playback.State) {
	if status != playback.StateFinished {
		return
	}
	select {
	case w.finished <- struct{}{}:
	default:
	}
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{Output: *logfile, Level: "info"}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if err := logger.Init(loggerConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		return err
	}

	tag, err := language.Parse(*lang)
	if err != nil {
		zlog.Warn().Msgf("Unknown language %q, using English", *lang)
		tag = language.English
	}

	a, err := article.FromFile(*file, *title)
	if err != nil {
		return err
	}

	initialRate := cfg.Reader.InitialRate
	if *rate > 0 {
		initialRate = *rate
	}

	session := reader.NewSession(reader.Config{
		InitialRate:   initialRate,
		Abbreviations: cfg.AbbreviationList(),
		EventBuffer:   cfg.Playback.EventBuffer,
	}, nil)
	defer session.Close()

	presenter := terminal.NewPresenter(os.Stdout,
		terminal.WithColor(!*noColor),
		terminal.WithLanguage(tag),
		terminal.WithTotal(len(a.Tokens())),
	)
	watcher := &finishWatcher{finished: make(chan struct{}, 1)}
	session.AddPresenter(presenter)
	session.AddPresenter(watcher)
	session.Start()

	if a.Title != "" {
		fmt.Printf("%s (%d words)\n", a.Title, a.WordCount())
	}
	fmt.Println("Enter: pause/resume  z: slower  x: faster  q: quit")

	session.Load(a)
	session.Play()

	commands := make(chan terminal.Command)
	go readCommands(commands)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			fmt.Println()
			return nil
		case <-watcher.finished:
			return nil
		case cmd, ok := <-commands:
			if !ok {
				// stdin closed; keep reading until the end
				commands = nil
				continue
			}
			switch cmd {
			case terminal.CommandToggle:
				session.Toggle()
			case terminal.CommandSlower:
				session.DecreaseRate()
			case terminal.CommandFaster:
				session.IncreaseRate()
			case terminal.CommandQuit:
				fmt.Println()
				return nil
			}
		}
	}
}

func readCommands(out chan<- terminal.Command) {
	defer close(out)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		out <- terminal.ParseCommand(scanner.Text())
	}
}
