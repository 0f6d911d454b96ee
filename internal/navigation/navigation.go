// Package navigation computes pan and zoom affordances for a chart viewport
// over a well's available data range. All functions are pure; callers own
// the viewport state and feed each result back in on the next interaction.
package navigation

import (
	"errors"
	"fmt"
	"time"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
)

// ErrOutOfBounds indicates a shift that would leave the available data
// range. The caller decides whether to clamp, disable the control, or tell
// the user they reached the edge of the data.
var ErrOutOfBounds = errors.New("shift leaves the available data range")

// ErrInvalidZoom indicates zoom parameters outside their domain.
var ErrInvalidZoom = errors.New("invalid zoom parameters")

// State describes the pan affordances of a viewport: whether panning in
// either direction can reveal more data and where the viewport starts
// relative to the full range.
type State struct {
	CanNavigateLeft  bool    `json:"can_navigate_left"`
	CanNavigateRight bool    `json:"can_navigate_right"`
	PositionFraction float64 `json:"position_fraction"`
}

// Window is a viewport expressed as percent of the loaded overview data,
// used before high-resolution data for an absolute range has been fetched.
type Window struct {
	StartPercent float64 `json:"start_percent"`
	EndPercent   float64 `json:"end_percent"`
}

// ComputeState derives pan affordances for a viewport within the available
// range. PositionFraction is the viewport start's relative position in
// [0,1]; an available range with zero span pins it to 0.
func ComputeState(current, available timerange.Range) (State, error) {
	if err := current.Validate(); err != nil {
		return State{}, err
	}
	if err := available.Validate(); err != nil {
		return State{}, err
	}

	fraction := 0.0
	if span := available.Span(); span > 0 {
		fraction = float64(current.Start.Sub(available.Start)) / float64(span)
		if fraction < 0 {
			fraction = 0
		} else if fraction > 1 {
			fraction = 1
		}
	}

	return State{
		CanNavigateLeft:  current.Start.After(available.Start),
		CanNavigateRight: current.End.Before(available.End),
		PositionFraction: fraction,
	}, nil
}

// ShiftLeft moves the viewport earlier by exactly one viewport width,
// keeping the span so the loaded resolution stays valid. The shift is
// rejected with ErrOutOfBounds when it would reach before the earliest
// available data; nothing is clamped here.
func ShiftLeft(current, available timerange.Range) (timerange.Range, error) {
	width, err := shiftWidth(current, available)
	if err != nil {
		return timerange.Range{}, err
	}

	shifted := current.Shift(-width)
	if shifted.Start.Before(available.Start) {
		return timerange.Range{}, fmt.Errorf("%w: start %s precedes earliest data %s",
			ErrOutOfBounds, shifted.Start.Format(time.RFC3339), available.Start.Format(time.RFC3339))
	}
	return shifted, nil
}

// ShiftRight moves the viewport later by exactly one viewport width.
// Rejected with ErrOutOfBounds past the latest available data.
func ShiftRight(current, available timerange.Range) (timerange.Range, error) {
	width, err := shiftWidth(current, available)
	if err != nil {
		return timerange.Range{}, err
	}

	shifted := current.Shift(width)
	if shifted.End.After(available.End) {
		return timerange.Range{}, fmt.Errorf("%w: end %s exceeds latest data %s",
			ErrOutOfBounds, shifted.End.Format(time.RFC3339), available.End.Format(time.RFC3339))
	}
	return shifted, nil
}

func shiftWidth(current, available timerange.Range) (time.Duration, error) {
	if err := current.Validate(); err != nil {
		return 0, err
	}
	if err := available.Validate(); err != nil {
		return 0, err
	}
	width := current.Span()
	if width <= 0 {
		return 0, fmt.Errorf("%w: cannot shift a zero-width viewport", timerange.ErrDegenerateRange)
	}
	return width, nil
}

// ZoomRange rescales the viewport span by scale around the point at
// centerFraction of the current span, in absolute time. Scale below 1
// zooms in, above 1 zooms out. The result is clamped to the available
// range by sliding the window, so the span is preserved unless it exceeds
// the whole range, in which case the whole range is returned.
func ZoomRange(current, available timerange.Range, centerFraction, scale float64) (timerange.Range, error) {
	if err := validateZoom(centerFraction, scale); err != nil {
		return timerange.Range{}, err
	}
	if err := current.Validate(); err != nil {
		return timerange.Range{}, err
	}
	if err := available.Validate(); err != nil {
		return timerange.Range{}, err
	}

	span := current.Span()
	if span <= 0 {
		return timerange.Range{}, fmt.Errorf("%w: cannot zoom a zero-width viewport", timerange.ErrDegenerateRange)
	}

	newSpan := time.Duration(float64(span) * scale)
	if newSpan >= available.Span() {
		return available, nil
	}

	// Keep the anchor point at the same relative position inside the new
	// window, the zoom-at-cursor rule.
	anchor := current.Start.Add(time.Duration(float64(span) * centerFraction))
	start := anchor.Add(-time.Duration(float64(newSpan) * centerFraction))
	end := start.Add(newSpan)

	if start.Before(available.Start) {
		end = end.Add(available.Start.Sub(start))
		start = available.Start
	}
	if end.After(available.End) {
		start = start.Add(available.End.Sub(end))
		end = available.End
	}
	return timerange.Range{Start: start, End: end}, nil
}

// ZoomWindow is ZoomRange in percent-of-dataset space, for overview mode
// where the viewport is a [0,100] percent window over the loaded data.
func ZoomWindow(w Window, centerFraction, scale float64) (Window, error) {
	if err := validateZoom(centerFraction, scale); err != nil {
		return Window{}, err
	}
	if w.StartPercent < 0 || w.EndPercent > 100 || w.StartPercent > w.EndPercent {
		return Window{}, fmt.Errorf("%w: window [%v, %v] outside [0,100]",
			ErrInvalidZoom, w.StartPercent, w.EndPercent)
	}

	width := w.EndPercent - w.StartPercent
	if width <= 0 {
		return Window{}, fmt.Errorf("%w: cannot zoom a zero-width window", timerange.ErrDegenerateRange)
	}

	newWidth := width * scale
	if newWidth >= 100 {
		return Window{StartPercent: 0, EndPercent: 100}, nil
	}

	anchor := w.StartPercent + width*centerFraction
	start := anchor - newWidth*centerFraction
	end := start + newWidth

	if start < 0 {
		end -= start
		start = 0
	}
	if end > 100 {
		start -= end - 100
		end = 100
	}
	return Window{StartPercent: start, EndPercent: end}, nil
}

func validateZoom(centerFraction, scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidZoom, scale)
	}
	if centerFraction < 0 || centerFraction > 1 {
		return fmt.Errorf("%w: center fraction %v outside [0,1]", ErrInvalidZoom, centerFraction)
	}
	return nil
}
