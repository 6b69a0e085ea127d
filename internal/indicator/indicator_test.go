package indicator

import (
	"errors"
	"math"
	"testing"

	"github.com/stockmcp/stockmcp/internal/core"
)

func TestTrendAverage(t *testing.T) {
	// Mean of [10,20,30,40,50] over a full window of 5 is 30.
	values := []float64{10, 20, 30, 40, 50}

	avg, err := TrendAverage(values, 5)
	if err != nil {
		t.Fatalf("TrendAverage() error = %v", err)
	}
	if avg != 30 {
		t.Errorf("TrendAverage() = %f, want 30", avg)
	}
}

func TestTrendAverage_LastWindowOnly(t *testing.T) {
	values := []float64{1, 1, 1, 10, 20, 30}

	avg, err := TrendAverage(values, 3)
	if err != nil {
		t.Fatalf("TrendAverage() error = %v", err)
	}
	if avg != 20 {
		t.Errorf("TrendAverage() = %f, want 20 (mean of last 3)", avg)
	}
}

func TestTrendAverage_NotEnoughData(t *testing.T) {
	values := []float64{10, 20}

	_, err := TrendAverage(values, 5)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRSI_AllGains(t *testing.T) {
	// Strictly rising closes: no losing days, so the average loss is
	// floored and RSI stays just below 100.
	values := make([]float64, 20)
	for i := range values {
		values[i] = 100 + float64(i)
	}

	rsi, err := RSI(values, 14)
	if err != nil {
		t.Fatalf("RSI() error = %v", err)
	}
	if rsi <= 99 || rsi >= 100 {
		t.Errorf("RSI() = %f, want just below 100", rsi)
	}
}

func TestRSI_AllLosses(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 100 - float64(i)
	}

	rsi, err := RSI(values, 14)
	if err != nil {
		t.Fatalf("RSI() error = %v", err)
	}
	if rsi != 0 {
		t.Errorf("RSI() = %f, want 0 for all losing days", rsi)
	}
}

func TestRSI_Balanced(t *testing.T) {
	// Alternating equal gains and losses should land near 50.
	values := []float64{100, 101, 100, 101, 100, 101, 100, 101, 100, 101, 100, 101, 100, 101, 100}

	rsi, err := RSI(values, 14)
	if err != nil {
		t.Fatalf("RSI() error = %v", err)
	}
	if math.Abs(rsi-50) > 5 {
		t.Errorf("RSI() = %f, want near 50", rsi)
	}
}

func TestRSI_NotEnoughData(t *testing.T) {
	values := make([]float64, 14) // needs window+1

	_, err := RSI(values, 14)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
