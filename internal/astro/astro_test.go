package astro

import (
	"testing"
	"time"
)

// Omaha, NE — the sign's home coordinates.
const (
	testLat = 41.2565
	testLon = -95.9345
)

func chicago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func testZone(t *testing.T) TimeZone {
	return TimeZone{Loc: chicago(t), StdOffsetHours: -6, DSTOffsetHours: -5}
}

func TestSunTimesSummerSolsticeOmaha(t *testing.T) {
	calc := Calculator{Pos: Position{Lat: testLat, Lon: testLon}}

	// 2024-06-21 with DST offset (UTC-5): sunrise around 05:00-05:10,
	// sunset around 20:50-21:05 local.
	rise, set := calc.SunTimes(2024, time.June, 21, -5)

	if rise < 5*60 || rise > 5*60+10 {
		t.Errorf("sunrise = %.1f minutes (%02d:%02d), want between 05:00 and 05:10",
			rise, int(rise)/60, int(rise)%60)
	}
	if set < 20*60+50 || set > 21*60+5 {
		t.Errorf("sunset = %.1f minutes (%02d:%02d), want between 20:50 and 21:05",
			set, int(set)/60, int(set)%60)
	}
}

func TestSunTimesRangeAndOrdering(t *testing.T) {
	positions := []Position{
		{Lat: testLat, Lon: testLon}, // Omaha
		{Lat: 51.5074, Lon: -0.1278}, // London
		{Lat: -33.8688, Lon: 151.2093}, // Sydney
		{Lat: 0.0, Lon: 0.0},         // equator
		{Lat: 60.1695, Lon: 24.9354}, // Helsinki
	}
	dates := []struct {
		y int
		m time.Month
		d int
	}{
		{2024, time.March, 20},
		{2024, time.June, 21},
		{2024, time.September, 22},
		{2024, time.December, 21},
	}

	for _, pos := range positions {
		calc := Calculator{Pos: pos}
		// Offset chosen so local solar noon lands mid-day.
		offset := int(pos.Lon / 15)
		for _, d := range dates {
			rise, set := calc.SunTimes(d.y, d.m, d.d, offset)
			if rise < 0 || rise >= 1440 {
				t.Errorf("pos=%v date=%v: sunrise %.1f out of [0,1440)", pos, d, rise)
			}
			if set < 0 || set >= 1440 {
				t.Errorf("pos=%v date=%v: sunset %.1f out of [0,1440)", pos, d, set)
			}
			if rise >= set {
				t.Errorf("pos=%v date=%v: sunrise %.1f >= sunset %.1f", pos, d, rise, set)
			}
		}
	}
}

func TestScheduleForBuildsLocalTimestamps(t *testing.T) {
	tz := testZone(t)
	calc := Calculator{Pos: Position{Lat: testLat, Lon: testLon}}

	now := time.Date(2024, time.June, 21, 12, 0, 0, 0, tz.Loc)
	sched := calc.ScheduleFor(now, tz)

	if !sched.Date.Equal(time.Date(2024, time.June, 21, 0, 0, 0, 0, tz.Loc)) {
		t.Errorf("schedule date = %v, want local midnight 2024-06-21", sched.Date)
	}
	if sched.Sunrise.Second() != 0 {
		t.Errorf("sunrise seconds = %d, want 0", sched.Sunrise.Second())
	}
	if sched.Sunset.Second() != 0 {
		t.Errorf("sunset seconds = %d, want 0", sched.Sunset.Second())
	}
	if y, m, d := sched.Sunrise.Date(); y != 2024 || m != time.June || d != 21 {
		t.Errorf("sunrise on %04d-%02d-%02d, want 2024-06-21", y, m, d)
	}
	if !sched.Sunrise.Before(sched.Sunset) {
		t.Errorf("sunrise %v not before sunset %v", sched.Sunrise, sched.Sunset)
	}
}

func TestIsDarkHalfOpenInterval(t *testing.T) {
	tz := testZone(t)
	sched := Schedule{
		Date:    time.Date(2024, time.June, 21, 0, 0, 0, 0, tz.Loc),
		Sunrise: time.Date(2024, time.June, 21, 5, 4, 0, 0, tz.Loc),
		Sunset:  time.Date(2024, time.June, 21, 20, 58, 0, 0, tz.Loc),
	}

	cases := []struct {
		name string
		t    time.Time
		dark bool
	}{
		{"midnight", sched.Date, true},
		{"one minute before sunrise", sched.Sunrise.Add(-time.Minute), true},
		{"exactly sunrise", sched.Sunrise, false},
		{"noon", time.Date(2024, time.June, 21, 12, 0, 0, 0, tz.Loc), false},
		{"one minute before sunset", sched.Sunset.Add(-time.Minute), false},
		{"exactly sunset", sched.Sunset, true},
		{"23:00", time.Date(2024, time.June, 21, 23, 0, 0, 0, tz.Loc), true},
	}

	for _, tc := range cases {
		if got := sched.IsDark(tc.t); got != tc.dark {
			t.Errorf("%s: IsDark = %v, want %v", tc.name, got, tc.dark)
		}
	}
}

func TestIsDarkIdempotent(t *testing.T) {
	tz := testZone(t)
	calc := Calculator{Pos: Position{Lat: testLat, Lon: testLon}}
	now := time.Date(2024, time.June, 21, 23, 0, 0, 0, tz.Loc)

	sched := calc.ScheduleFor(now, tz)
	first := sched.IsDark(now)
	for i := 0; i < 10; i++ {
		if got := sched.IsDark(now); got != first {
			t.Fatalf("IsDark changed between identical calls: %v then %v", first, got)
		}
	}
	if !first {
		t.Error("23:00 local on the solstice should be dark")
	}
}

func TestScheduleForEndToEndScenario(t *testing.T) {
	tz := testZone(t)
	calc := Calculator{Pos: Position{Lat: testLat, Lon: testLon}}

	noon := time.Date(2024, time.June, 21, 12, 0, 0, 0, tz.Loc)
	sched := calc.ScheduleFor(noon, tz)
	if sched.IsDark(noon) {
		t.Error("noon on the summer solstice classified as dark")
	}

	night := time.Date(2024, time.June, 21, 23, 0, 0, 0, tz.Loc)
	if !sched.IsDark(night) {
		t.Error("23:00 on the summer solstice classified as daylight")
	}
}

func TestOffsetHoursSelectsDST(t *testing.T) {
	tz := testZone(t)

	january := time.Date(2024, time.January, 15, 12, 0, 0, 0, tz.Loc)
	if got := tz.OffsetHours(january); got != -6 {
		t.Errorf("January offset = %d, want -6 (standard)", got)
	}

	july := time.Date(2024, time.July, 15, 12, 0, 0, 0, tz.Loc)
	if got := tz.OffsetHours(july); got != -5 {
		t.Errorf("July offset = %d, want -5 (daylight)", got)
	}
}
