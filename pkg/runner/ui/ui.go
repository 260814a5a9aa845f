// Package ui opens the interactive diary.
package ui

import (
	"context"

	"tableflip.dev/yourdiary/pkg/app"
	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/store"
	"tableflip.dev/yourdiary/pkg/tui/diary"
	"tableflip.dev/yourdiary/pkg/tui/theme"
)

// UI runs the Bubble Tea program until the user quits.
type UI struct {
	Client *app.Client
	Cache  store.Cache
	Toasts *notify.Queue
}

func (u *UI) Do(ctx context.Context) error {
	th := theme.ForTerminal()
	return diary.Run(diary.Options{
		Client:  u.Client,
		Cache:   u.Cache,
		Toasts:  u.Toasts,
		Watch:   u.Cache != nil,
		Context: ctx,
		Theme:   &th,
	})
}
