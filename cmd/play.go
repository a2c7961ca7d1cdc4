package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/zibao/internal/app"
	"github.com/abhisek/zibao/internal/clock"
	"github.com/abhisek/zibao/internal/feedback"
	"github.com/abhisek/zibao/internal/session"
	"github.com/abhisek/zibao/internal/speech"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the adventure",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	playCmd.Flags().Bool("no-intro", false, "Skip the welcome animation")
}

// runApp opens the store, builds the controller and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	voice := speech.FromEnv(e.log)
	defer voice.Stop()

	// Timers are delivered by the Bubble Tea loop, so controller state is
	// only touched from one goroutine.
	timers := clock.NewQueue()
	ctrl := session.New(session.Deps{
		Curriculum: e.cur,
		Progress:   e.progress,
		Treasures:  e.treasures,
		Library:    e.library,
		Effects:    feedback.New(timers, voice, feedback.WithLogger(e.log)),
		Stories:    e.storyService(cmd.Context()),
		Activity:   e.events,
		Logger:     e.log,
	})

	noIntro, _ := cmd.Flags().GetBool("no-intro")
	return app.Run(app.Options{
		Controller:  ctrl,
		Timers:      timers,
		EventRepo:   e.events,
		SkipWelcome: noIntro,
	})
}
