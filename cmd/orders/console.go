package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dipdup-io/order-tracker/internal/caller"
	"github.com/dipdup-io/order-tracker/internal/order"
	"github.com/dipdup-io/order-tracker/internal/storage"
	"github.com/pkg/errors"
)

const consoleHelp = `commands:
  <product> <quantity>  send new order
  list                  show orders
  refresh               poll order statuses now
  help                  show this message
  quit                  exit`

// Console - terminal presentation of the order form and the status area
type Console struct {
	out io.Writer
	mx  sync.Mutex
}

// NewConsole -
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Render - prints statuses as `id: status` lines
func (c *Console) Render(entries []storage.Entry) {
	var sb strings.Builder
	sb.WriteString("--- orders ---\n")
	for i := range entries {
		sb.WriteString(entries[i].ID)
		sb.WriteString(": ")
		sb.WriteString(entries[i].Status.String())
		sb.WriteByte('\n')
	}

	c.mx.Lock()
	defer c.mx.Unlock()
	_, _ = io.WriteString(c.out, sb.String())
}

func (c *Console) printf(format string, args ...any) {
	c.mx.Lock()
	defer c.mx.Unlock()
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}

// Run - reads commands until `quit`, end of input or ctx is done
func (c *Console) Run(ctx context.Context, in io.Reader, tracker *Tracker) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	c.printf("%s", consoleHelp)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if stop := c.handle(ctx, line, tracker, &wg); stop {
				return nil
			}
		}
	}
}

func (c *Console) handle(ctx context.Context, line string, tracker *Tracker, wg *sync.WaitGroup) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true
	case "help":
		c.printf("%s", consoleHelp)
	case "list":
		c.Render(tracker.Snapshot())
	case "refresh":
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.printf("orders processed: %d", tracker.Refresh(ctx))
		}()
	default:
		product := strings.Join(fields[:len(fields)-1], " ")
		quantity := fields[len(fields)-1]
		if len(fields) == 1 {
			product, quantity = fields[0], ""
		}

		result := tracker.Submit(ctx, product, quantity)
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.report(<-result)
		}()
	}
	return false
}

func (c *Console) report(result SubmitResult) {
	if result.Err == nil {
		c.printf("order %s sent", result.ID)
		return
	}

	var serverErr *caller.ServerError
	switch {
	case errors.Is(result.Err, order.ErrValidation):
		c.printf("error: %s", result.Err.Error())
	case errors.As(result.Err, &serverErr):
		c.printf("server error: %s", serverErr.Message)
	case errors.Is(result.Err, caller.ErrNetwork):
		c.printf("failed to send order: %s", result.Err.Error())
	default:
		c.printf("failed to prepare order: %s", result.Err.Error())
	}
}
