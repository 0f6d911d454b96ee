package navigation

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeState(t *testing.T) {
	available := timerange.Range{Start: date(2023, 1, 1), End: date(2024, 1, 1)}

	testCases := []struct {
		name             string
		current          timerange.Range
		expectLeft       bool
		expectRight      bool
		expectedFraction float64
	}{
		{
			"mid-range viewport",
			timerange.Range{Start: date(2023, 6, 1), End: date(2023, 7, 1)},
			true, true, 151.0 / 365.0,
		},
		{
			"viewport is the whole range",
			available,
			false, false, 0,
		},
		{
			"pinned to the left edge",
			timerange.Range{Start: date(2023, 1, 1), End: date(2023, 2, 1)},
			false, true, 0,
		},
		{
			"pinned to the right edge",
			timerange.Range{Start: date(2023, 12, 1), End: date(2024, 1, 1)},
			true, false, 334.0 / 365.0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state, err := ComputeState(tc.current, available)
			if err != nil {
				t.Fatalf("ComputeState failed: %v", err)
			}
			if state.CanNavigateLeft != tc.expectLeft {
				t.Errorf("Expected left=%v, got %v", tc.expectLeft, state.CanNavigateLeft)
			}
			if state.CanNavigateRight != tc.expectRight {
				t.Errorf("Expected right=%v, got %v", tc.expectRight, state.CanNavigateRight)
			}
			if math.Abs(state.PositionFraction-tc.expectedFraction) > 1e-9 {
				t.Errorf("Expected fraction=%v, got %v", tc.expectedFraction, state.PositionFraction)
			}
		})
	}
}

func TestComputeStateZeroSpanAvailable(t *testing.T) {
	at := date(2023, 6, 1)
	instant := timerange.Range{Start: at, End: at}

	state, err := ComputeState(instant, instant)
	if err != nil {
		t.Fatalf("ComputeState failed: %v", err)
	}
	if state.PositionFraction != 0 {
		t.Errorf("Expected fraction=0 for zero-span range, got %v", state.PositionFraction)
	}
	if state.CanNavigateLeft || state.CanNavigateRight {
		t.Error("Expected no pan affordances for a single-instant dataset")
	}
}

func TestComputeStateViewportOutsideAvailable(t *testing.T) {
	available := timerange.Range{Start: date(2023, 1, 1), End: date(2024, 1, 1)}
	before := timerange.Range{Start: date(2022, 1, 1), End: date(2022, 2, 1)}

	state, err := ComputeState(before, available)
	if err != nil {
		t.Fatal(err)
	}
	if state.PositionFraction != 0 {
		t.Errorf("Expected fraction clamped to 0, got %v", state.PositionFraction)
	}

	after := timerange.Range{Start: date(2025, 1, 1), End: date(2025, 2, 1)}
	state, err = ComputeState(after, available)
	if err != nil {
		t.Fatal(err)
	}
	if state.PositionFraction != 1 {
		t.Errorf("Expected fraction clamped to 1, got %v", state.PositionFraction)
	}
}

func TestShiftRoundTrip(t *testing.T) {
	available := timerange.Range{Start: date(2023, 1, 1), End: date(2024, 1, 1)}
	current := timerange.Range{Start: date(2023, 6, 1), End: date(2023, 7, 1)}

	left, err := ShiftLeft(current, available)
	if err != nil {
		t.Fatalf("ShiftLeft failed: %v", err)
	}
	if !left.Start.Equal(date(2023, 5, 2)) || !left.End.Equal(date(2023, 6, 1)) {
		t.Errorf("Expected [2023-05-02, 2023-06-01], got [%v, %v]", left.Start, left.End)
	}
	if left.Span() != current.Span() {
		t.Errorf("Shift changed the span: %v != %v", left.Span(), current.Span())
	}

	back, err := ShiftRight(left, available)
	if err != nil {
		t.Fatalf("ShiftRight failed: %v", err)
	}
	if !back.Start.Equal(current.Start) || !back.End.Equal(current.End) {
		t.Errorf("Round trip lost the original range: got [%v, %v]", back.Start, back.End)
	}
}

func TestShiftOutOfBounds(t *testing.T) {
	available := timerange.Range{Start: date(2023, 1, 1), End: date(2024, 1, 1)}

	// Viewport ending at the latest reading cannot move right.
	atRightEdge := timerange.Range{Start: date(2023, 12, 1), End: date(2024, 1, 1)}
	if _, err := ShiftRight(atRightEdge, available); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}

	atLeftEdge := timerange.Range{Start: date(2023, 1, 1), End: date(2023, 2, 1)}
	if _, err := ShiftLeft(atLeftEdge, available); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}

	// One week of headroom is not enough for a one-month shift.
	nearEdge := timerange.Range{Start: date(2023, 1, 8), End: date(2023, 2, 8)}
	if _, err := ShiftLeft(nearEdge, available); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds for partial headroom, got %v", err)
	}
}

func TestShiftDegenerateViewport(t *testing.T) {
	available := timerange.Range{Start: date(2023, 1, 1), End: date(2024, 1, 1)}
	instant := timerange.Range{Start: date(2023, 6, 1), End: date(2023, 6, 1)}

	if _, err := ShiftLeft(instant, available); !errors.Is(err, timerange.ErrDegenerateRange) {
		t.Errorf("Expected ErrDegenerateRange for zero-width shift, got %v", err)
	}
	if _, err := ShiftRight(instant, available); !errors.Is(err, timerange.ErrDegenerateRange) {
		t.Errorf("Expected ErrDegenerateRange for zero-width shift, got %v", err)
	}
}

func TestZoomRangeIn(t *testing.T) {
	available := timerange.Range{Start: date(2020, 1, 1), End: date(2025, 1, 1)}
	current := timerange.Range{Start: date(2023, 6, 1), End: date(2023, 6, 11)}

	// Halving the span around the middle trims a quarter from each side.
	zoomed, err := ZoomRange(current, available, 0.5, 0.5)
	if err != nil {
		t.Fatalf("ZoomRange failed: %v", err)
	}
	expectedStart := date(2023, 6, 1).Add(60 * time.Hour)
	expectedEnd := date(2023, 6, 1).Add(180 * time.Hour)
	if !zoomed.Start.Equal(expectedStart) || !zoomed.End.Equal(expectedEnd) {
		t.Errorf("Expected [%v, %v], got [%v, %v]",
			expectedStart, expectedEnd, zoomed.Start, zoomed.End)
	}

	// Anchoring at the left edge keeps the start fixed.
	zoomed, err = ZoomRange(current, available, 0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if !zoomed.Start.Equal(current.Start) {
		t.Errorf("Expected anchored start %v, got %v", current.Start, zoomed.Start)
	}
	if zoomed.Span() != current.Span()/2 {
		t.Errorf("Expected half span, got %v", zoomed.Span())
	}
}

func TestZoomRangeOutClamps(t *testing.T) {
	available := timerange.Range{Start: date(2023, 1, 1), End: date(2024, 1, 1)}

	// Zooming out near the left edge slides the window right instead of
	// reaching before the data.
	nearLeft := timerange.Range{Start: date(2023, 1, 3), End: date(2023, 1, 13)}
	zoomed, err := ZoomRange(nearLeft, available, 0.5, 2)
	if err != nil {
		t.Fatalf("ZoomRange failed: %v", err)
	}
	if !zoomed.Start.Equal(available.Start) {
		t.Errorf("Expected start clamped to earliest, got %v", zoomed.Start)
	}
	if zoomed.Span() != 20*24*time.Hour {
		t.Errorf("Expected preserved 20-day span, got %v", zoomed.Span())
	}
	if zoomed.End.After(available.End) {
		t.Error("Clamped window still exceeds the available range")
	}

	// Zooming out past the whole dataset returns the whole dataset.
	wide := timerange.Range{Start: date(2023, 3, 1), End: date(2023, 9, 1)}
	zoomed, err = ZoomRange(wide, available, 0.5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !zoomed.Start.Equal(available.Start) || !zoomed.End.Equal(available.End) {
		t.Errorf("Expected the whole available range, got [%v, %v]", zoomed.Start, zoomed.End)
	}
}

func TestZoomRangeInvalidInput(t *testing.T) {
	available := timerange.Range{Start: date(2023, 1, 1), End: date(2024, 1, 1)}
	current := timerange.Range{Start: date(2023, 6, 1), End: date(2023, 6, 11)}

	if _, err := ZoomRange(current, available, 0.5, 0); !errors.Is(err, ErrInvalidZoom) {
		t.Errorf("Expected ErrInvalidZoom for zero scale, got %v", err)
	}
	if _, err := ZoomRange(current, available, 1.5, 0.5); !errors.Is(err, ErrInvalidZoom) {
		t.Errorf("Expected ErrInvalidZoom for center outside [0,1], got %v", err)
	}

	instant := timerange.Range{Start: date(2023, 6, 1), End: date(2023, 6, 1)}
	if _, err := ZoomRange(instant, available, 0.5, 0.5); !errors.Is(err, timerange.ErrDegenerateRange) {
		t.Errorf("Expected ErrDegenerateRange for zero-width viewport, got %v", err)
	}
}

func TestZoomWindow(t *testing.T) {
	testCases := []struct {
		name          string
		window        Window
		center        float64
		scale         float64
		expectedStart float64
		expectedEnd   float64
	}{
		{"zoom in around the middle", Window{40, 60}, 0.5, 0.5, 45, 55},
		{"zoom out anchored left", Window{0, 20}, 0, 2, 0, 40},
		{"zoom out anchored right", Window{90, 100}, 1, 2, 80, 100},
		{"clamp slides right at the left edge", Window{0, 10}, 0.5, 2, 0, 20},
		{"zoom out past the whole dataset", Window{10, 30}, 0.5, 10, 0, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ZoomWindow(tc.window, tc.center, tc.scale)
			if err != nil {
				t.Fatalf("ZoomWindow failed: %v", err)
			}
			if math.Abs(got.StartPercent-tc.expectedStart) > 1e-9 ||
				math.Abs(got.EndPercent-tc.expectedEnd) > 1e-9 {
				t.Errorf("Expected [%v, %v], got [%v, %v]",
					tc.expectedStart, tc.expectedEnd, got.StartPercent, got.EndPercent)
			}
		})
	}
}

func TestZoomWindowInvalidInput(t *testing.T) {
	if _, err := ZoomWindow(Window{-5, 50}, 0.5, 0.5); !errors.Is(err, ErrInvalidZoom) {
		t.Errorf("Expected ErrInvalidZoom for window outside [0,100], got %v", err)
	}
	if _, err := ZoomWindow(Window{60, 40}, 0.5, 0.5); !errors.Is(err, ErrInvalidZoom) {
		t.Errorf("Expected ErrInvalidZoom for reversed window, got %v", err)
	}
	if _, err := ZoomWindow(Window{50, 50}, 0.5, 0.5); !errors.Is(err, timerange.ErrDegenerateRange) {
		t.Errorf("Expected ErrDegenerateRange for zero-width window, got %v", err)
	}
}
