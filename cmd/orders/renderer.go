package main

import "github.com/dipdup-io/order-tracker/internal/storage"

// Renderer - presentation of the order statuses. Called after every state change,
// possibly from different goroutines.
type Renderer interface {
	Render(entries []storage.Entry)
}

// RendererFunc -
type RendererFunc func(entries []storage.Entry)

// Render -
func (f RendererFunc) Render(entries []storage.Entry) {
	f(entries)
}

type nopRenderer struct{}

func (nopRenderer) Render([]storage.Entry) {}
