package main

import (
	"sync"

	"github.com/dipdup-io/order-tracker/internal/storage"
)

type recordingRenderer struct {
	mx    sync.Mutex
	calls int
	last  []storage.Entry
}

func (r *recordingRenderer) Render(entries []storage.Entry) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.calls++
	r.last = entries
}

func (r *recordingRenderer) count() int {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.calls
}

func (r *recordingRenderer) lastSnapshot() []storage.Entry {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.last
}
