package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fwojciec/wenyan"
	bt "github.com/fwojciec/wenyan/bubbletea"
)

var errNotTerminal = errors.New("the interactive UI needs a terminal, use `wenyan query` instead")

func (a *app) runTUI(ctx context.Context, deep bool) error {
	in, inOK := a.stdin.(*os.File)
	out, outOK := a.stdout.(*os.File)
	if !inOK || !outOK || !interactive(in) || !interactive(out) {
		return errNotTerminal
	}

	notifier := bt.NewNotifier()
	client := a.client(notifier)
	coord := wenyan.NewCoordinator(client, wenyan.NewQuerySession(nil))
	m := bt.New(coord, wenyan.DefaultTheme(),
		bt.WithNotifier(notifier),
		bt.WithAdopt(client.AdoptAnswer),
		bt.WithDeepThinking(deep),
	)
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}
