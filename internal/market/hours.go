package market

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/scmhub/calendar"
)

// Hours answers venue market-hours questions so callers can decide which
// symbol sets are eligible to sample at a given moment. Holiday schedules come
// from the exchange calendars (XNYS for the US session, XKRX for Korea); when
// a calendar is unavailable the predicates degrade to weekday/session-clock
// checks.
type Hours struct {
	usCal  *calendar.Calendar
	krCal  *calendar.Calendar
	usLoc  *time.Location
	krLoc  *time.Location
	logger zerolog.Logger

	now func() time.Time
}

// NewHours builds the venue clock helper.
func NewHours(logger zerolog.Logger) *Hours {
	h := &Hours{
		usCal:  calendar.GetCalendar("xnys"),
		krCal:  calendar.GetCalendar("xkrx"),
		logger: logger.With().Str("component", "market_hours").Logger(),
		now:    time.Now,
	}

	if h.usCal != nil {
		h.usLoc = h.usCal.Loc
	}
	if h.usLoc == nil {
		h.usLoc, _ = time.LoadLocation("America/New_York")
	}
	if h.usLoc == nil {
		h.usLoc = time.UTC
	}

	if h.krCal != nil {
		h.krLoc = h.krCal.Loc
	}
	if h.krLoc == nil {
		h.krLoc, _ = time.LoadLocation("Asia/Seoul")
	}
	if h.krLoc == nil {
		h.krLoc = time.UTC
	}

	return h
}

// USMarketOpen reports whether the US regular session (09:30-16:00 New York)
// is currently trading.
func (h *Hours) USMarketOpen() bool {
	t := h.now().In(h.usLoc)
	if !h.tradingDay(h.usCal, t) {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= 9*60+30 && minutes < 16*60
}

// KRMarketOpen reports whether the KRX regular session (09:00-15:30 Seoul) is
// currently trading.
func (h *Hours) KRMarketOpen() bool {
	t := h.now().In(h.krLoc)
	if !h.tradingDay(h.krCal, t) {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= 9*60 && minutes <= 15*60+30
}

// Weekend reports whether the current moment falls on a Saturday or Sunday in
// New York. Crypto and index futures remain eligible on weekends; everything
// else is not.
func (h *Hours) Weekend() bool {
	wd := h.now().In(h.usLoc).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (h *Hours) tradingDay(cal *calendar.Calendar, t time.Time) bool {
	if cal != nil {
		return cal.IsBusinessDay(t)
	}
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
