package charts

import (
	"bytes"
	"errors"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestSpendingPie(t *testing.T) {
	t.Run("renders a png", func(t *testing.T) {
		img, err := SpendingPie("March 2024", []Slice{
			{Label: "Food", Amount: 320.50},
			{Label: "Housing", Amount: 1200},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.HasPrefix(img, pngMagic) {
			t.Error("expected PNG header")
		}
	})

	t.Run("no positive amounts", func(t *testing.T) {
		_, err := SpendingPie("empty", []Slice{{Label: "Refund", Amount: -20}})
		if !errors.Is(err, ErrNoData) {
			t.Errorf("expected ErrNoData, got %v", err)
		}
	})

	t.Run("nil slices", func(t *testing.T) {
		_, err := SpendingPie("empty", nil)
		if !errors.Is(err, ErrNoData) {
			t.Errorf("expected ErrNoData, got %v", err)
		}
	})
}
