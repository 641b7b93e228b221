package order

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		product  string
		quantity int
		wantErr  bool
	}{
		{name: "valid", product: "Widget", quantity: 2},
		{name: "trimmed product", product: "  Widget  ", quantity: 1},
		{name: "empty product", product: "", quantity: 2, wantErr: true},
		{name: "blank product", product: "   ", quantity: 2, wantErr: true},
		{name: "zero quantity", product: "Widget", quantity: 0, wantErr: true},
		{name: "negative quantity", product: "Widget", quantity: -5, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := New(tt.product, tt.quantity)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrValidation))
				require.Empty(t, o.ID)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "Widget", o.Product)
			require.Equal(t, tt.quantity, o.Quantity)

			_, err = uuid.Parse(o.ID)
			require.NoError(t, err)
		})
	}
}

func TestFromForm(t *testing.T) {
	tests := []struct {
		name     string
		product  string
		quantity string
		want     int
		wantErr  bool
	}{
		{name: "valid", product: "Widget", quantity: "3", want: 3},
		{name: "spaces", product: " Widget ", quantity: " 7 ", want: 7},
		{name: "empty quantity", product: "Widget", quantity: "", wantErr: true},
		{name: "empty product", product: "", quantity: "1", wantErr: true},
		{name: "fractional", product: "Widget", quantity: "1.5", wantErr: true},
		{name: "letters", product: "Widget", quantity: "two", wantErr: true},
		{name: "zero", product: "Widget", quantity: "0", wantErr: true},
		{name: "negative", product: "Widget", quantity: "-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := FromForm(tt.product, tt.quantity)
			if tt.wantErr {
				require.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, o.Quantity)
			require.Equal(t, "Widget", o.Product)
		})
	}
}

func TestNew_UniqueIdentity(t *testing.T) {
	const count = 1000

	var (
		mx  sync.Mutex
		wg  sync.WaitGroup
		ids = make(map[string]struct{}, count)
	)
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := New("Widget", 1)
			if err != nil {
				return
			}
			mx.Lock()
			ids[o.ID] = struct{}{}
			mx.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, ids, count)
}
