package main

import (
	"context"
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"MatchTimer/audio"
	"MatchTimer/config"
	"MatchTimer/i18n"
	"MatchTimer/ui"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	i18n.Reload()

	cfg, err := config.Load(os.Getenv(config.EnvConfigPath))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	fyneApp := app.NewWithID(cfg.AppID)
	fyneApp.SetIcon(theme.HistoryIcon())

	var output audio.Output
	if spk, err := audio.NewSpeaker(audio.DefaultSampleRate); err != nil {
		log.Warn().Err(err).Msg("audio disabled, failed to initialize speaker")
	} else {
		output = spk
	}

	dashboard := &ui.Dashboard{}
	a, err := NewAppManager(cfg, fyneApp, dashboard, output, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create dashboard")
	}
	fyneApp.Settings().SetTheme(ui.NewVariantTheme(a.DarkMode()))

	w := ui.CreateMainWindow(a, fyneApp, dashboard)

	ctx, cancel := context.WithCancel(context.Background())
	w.SetOnClosed(func() {
		cancel()
		a.Shutdown()
	})

	a.Start(ctx)

	w.ShowAndRun()
}
