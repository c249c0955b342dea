package natural_test

import (
	"errors"
	"testing"
	"time"

	"quickcal/src-server/natural"
)

func TestExtractWeekdayWithClockTime(t *testing.T) {
	extractor := natural.NewDateTimeExtractor(nil, time.UTC)
	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

	timeRange, err := extractor.Extract("Team meeting Thursday at 2pm", now)
	if err != nil {
		t.Fatal(err)
	}
	if timeRange.AllDay {
		t.Error("clock time was given, should not be all-day")
	}
	if timeRange.Start.Weekday() != time.Thursday {
		t.Error("wrong weekday", timeRange.Start.Weekday())
	}
	if timeRange.Start.Hour() != 14 {
		t.Error("wrong hour", timeRange.Start.Hour())
	}
	if timeRange.End.Sub(timeRange.Start) != time.Hour {
		t.Error("missing end must default to start+1h, got", timeRange.End.Sub(timeRange.Start))
	}
}

func TestExtractDateOnlyIsAllDay(t *testing.T) {
	extractor := natural.NewDateTimeExtractor(nil, time.UTC)
	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

	timeRange, err := extractor.Extract("Conference next Monday", now)
	if err != nil {
		t.Fatal(err)
	}
	if !timeRange.AllDay {
		t.Error("date-only input should be all-day")
	}
	if timeRange.Start.Weekday() != time.Monday {
		t.Error("wrong weekday", timeRange.Start.Weekday())
	}
}

func TestExtractRelativeHoursNotAllDay(t *testing.T) {
	extractor := natural.NewDateTimeExtractor(nil, time.UTC)
	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

	timeRange, err := extractor.Extract("Call in 2 hours", now)
	if err != nil {
		t.Fatal(err)
	}
	if timeRange.AllDay {
		t.Error("hour-granular relative input should not be all-day")
	}
}

func TestExtractExplicitEnd(t *testing.T) {
	extractor := natural.NewDateTimeExtractor(nil, time.UTC)
	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

	timeRange, err := extractor.Extract("Review from 2pm to 4pm", now)
	if err != nil {
		t.Fatal(err)
	}
	if timeRange.Start.Hour() != 14 {
		t.Error("wrong start hour", timeRange.Start.Hour())
	}
	if timeRange.End.Sub(timeRange.Start) != 2*time.Hour {
		t.Error("explicit end ignored, duration", timeRange.End.Sub(timeRange.Start))
	}
}

func TestExtractNoDate(t *testing.T) {
	extractor := natural.NewDateTimeExtractor(nil, time.UTC)
	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

	for _, text := range []string{"asdf qwerty", "hello world", ""} {
		if _, err := extractor.Extract(text, now); !errors.Is(err, natural.ErrNoDateFound) {
			t.Error("expected ErrNoDateFound for", text, "got", err)
		}
	}
}
