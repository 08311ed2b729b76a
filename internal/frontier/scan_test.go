package frontier_test

import (
	"errors"
	"math"
	"testing"

	"github.com/epeers/frontier/internal/frontier"
)

func TestScanTwoAsset_BracketsMinimum(t *testing.T) {
	points, err := frontier.ScanTwoAsset(twoAssetStats(t), 0.55, 0.60, 51)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 51 {
		t.Fatalf("expected 51 points, got %d", len(points))
	}
	if points[0].Weight != 0.55 || math.Abs(points[50].Weight-0.60) > 1e-15 {
		t.Errorf("expected endpoints 0.55 and 0.60, got %g and %g", points[0].Weight, points[50].Weight)
	}

	best := points[0]
	for _, p := range points {
		if p.Variance < best.Variance {
			best = p
		}
		if math.Abs(p.StdDev*p.StdDev-p.Variance) > 1e-18 {
			t.Errorf("w1=%g: stdev² %g != variance %g", p.Weight, p.StdDev*p.StdDev, p.Variance)
		}
	}
	if math.Abs(best.Weight-closedFormW1()) > 1e-3 {
		t.Errorf("expected scan minimum near %.4f, got %.4f", closedFormW1(), best.Weight)
	}
}

func TestScanTwoAsset_RejectsBadInput(t *testing.T) {
	stats := twoAssetStats(t)
	if _, err := frontier.ScanTwoAsset(stats, 0.6, 0.5, 10); !errors.Is(err, frontier.ErrInvalidScan) {
		t.Errorf("expected ErrInvalidScan for a reversed range, got %v", err)
	}
	if _, err := frontier.ScanTwoAsset(stats, 0, 1, 1); !errors.Is(err, frontier.ErrInvalidScan) {
		t.Errorf("expected ErrInvalidScan for a single step, got %v", err)
	}
	if _, err := frontier.ScanTwoAsset(tenAssetStats(t), 0, 1, 10); !errors.Is(err, frontier.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for ten assets, got %v", err)
	}
}
