// Package astro computes daily sunrise/sunset schedules for a fixed
// geographic position. The astronomical model (official sunrise/sunset,
// centre of the solar disc 0.833 degrees below the horizon) is delegated
// to github.com/nathan-osman/go-sunrise.
package astro

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/rs/zerolog/log"
)

// Position is a geographic position in decimal degrees.
// Negative latitude is south, negative longitude is west.
type Position struct {
	Lat float64
	Lon float64
}

// TimeZone selects the UTC offset for local-time conversion. The offset in
// effect depends on whether daylight saving time applies at the evaluated
// instant, which is determined from Loc.
type TimeZone struct {
	Loc            *time.Location
	StdOffsetHours int
	DSTOffsetHours int
}

// OffsetHours returns the UTC offset in effect at t.
func (tz TimeZone) OffsetHours(t time.Time) int {
	if t.In(tz.Loc).IsDST() {
		return tz.DSTOffsetHours
	}
	return tz.StdOffsetHours
}

// Schedule holds one calendar day's sunrise and sunset as absolute
// timestamps. Sunrise < Sunset for all non-polar latitudes.
type Schedule struct {
	Date    time.Time // midnight local
	Sunrise time.Time
	Sunset  time.Time
}

// IsDark reports whether t falls outside daylight. Daylight holds exactly
// when Sunrise <= t < Sunset; everything else on the same day is dark,
// including the span between midnight and sunrise.
func (s Schedule) IsDark(t time.Time) bool {
	if (t.Equal(s.Sunrise) || t.After(s.Sunrise)) && t.Before(s.Sunset) {
		return false
	}
	return true
}

// Calculator computes sun times for a fixed position.
type Calculator struct {
	Pos Position
}

// SunTimes returns sunrise and sunset as minutes past local midnight for
// the given calendar date and UTC offset. Both values are in [0, 1440).
func (c Calculator) SunTimes(year int, month time.Month, day int, utcOffsetHours int) (riseMinutes, setMinutes float64) {
	rise, set := sunrise.SunriseSunset(c.Pos.Lat, c.Pos.Lon, year, month, day)

	zone := time.FixedZone("", utcOffsetHours*3600)
	riseMinutes = minuteOfDay(rise.In(zone))
	setMinutes = minuteOfDay(set.In(zone))
	return riseMinutes, setMinutes
}

// ScheduleFor computes the schedule for the calendar day containing now.
// It is cheap enough to call on every evaluation cycle, which also makes
// the schedule self-correcting after clock steps.
func (c Calculator) ScheduleFor(now time.Time, tz TimeZone) Schedule {
	local := now.In(tz.Loc)
	year, month, day := local.Date()
	offset := tz.OffsetHours(now)

	riseMin, setMin := c.SunTimes(year, month, day, offset)

	log.Debug().
		Str("date", local.Format("2006-01-02")).
		Float64("sunrise_minutes", riseMin).
		Float64("sunset_minutes", setMin).
		Int("utc_offset", offset).
		Msg("computed sun times")

	return Schedule{
		Date:    time.Date(year, month, day, 0, 0, 0, 0, tz.Loc),
		Sunrise: time.Date(year, month, day, int(riseMin)/60, int(riseMin)%60, 0, 0, tz.Loc),
		Sunset:  time.Date(year, month, day, int(setMin)/60, int(setMin)%60, 0, 0, tz.Loc),
	}
}

func minuteOfDay(t time.Time) float64 {
	return float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
}
