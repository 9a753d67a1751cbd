package timeslot_test

import (
	"encoding/json"
	"testing"

	"github.com/mtzs0/kockabarlang-party-planner/timeslot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseTime(t *testing.T) {
	t.Parallel()

	t.Run("with and without seconds", func(t *testing.T) {
		t.Parallel()
		short, err := timeslot.ParseTime("14:30")
		require.NoError(t, err)
		long, err := timeslot.ParseTime("14:30:00")
		require.NoError(t, err)
		assert.Equal(t, short, long)
		assert.Equal(t, 14*60+30, short.Minutes())
		assert.Equal(t, "14:30", short.String())
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		for _, text := range []string{"garbage", "", "14", "ab:30", "14:xx", "24:00", "12:60", "-1:00", "+5:00", "5:+0", "1e:00", "123:00", "12: 5"} {
			got, err := timeslot.ParseTime(text)
			require.ErrorIs(t, err, timeslot.ErrMalformedTime, text)
			assert.Equal(t, timeslot.Midnight, got, text)
		}
	})

	t.Run("tolerant fallback logs a warning", func(t *testing.T) {
		t.Parallel()
		core, logs := observer.New(zapcore.WarnLevel)
		logger := zap.New(core)

		got := timeslot.ParseTimeOr("garbage", timeslot.Midnight, logger)
		assert.Equal(t, timeslot.TimeOfDay(0), got)
		assert.Equal(t, 1, logs.Len())

		got = timeslot.ParseTimeOr("09:15", timeslot.Midnight, logger)
		assert.Equal(t, timeslot.NewTimeOfDay(9, 15), got)
		assert.Equal(t, 1, logs.Len())
	})
}

func TestFormatHHMM(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "11:00", timeslot.FormatHHMM("11:00:00"))
	assert.Equal(t, "14:00", timeslot.FormatHHMM("14:00-17:00"))
	assert.Equal(t, "9:00", timeslot.FormatHHMM("9:00"))
}

func TestParseRange(t *testing.T) {
	t.Parallel()

	r, err := timeslot.ParseRange("10:00-13:00")
	require.NoError(t, err)
	assert.Equal(t, timeslot.NewTimeOfDay(10, 0), r.Start)
	assert.Equal(t, timeslot.NewTimeOfDay(13, 0), r.End)
	assert.Equal(t, "10:00-13:00", r.Label)
	assert.False(t, r.IsPoint())

	p, err := timeslot.ParseRange("14:00")
	require.NoError(t, err)
	assert.True(t, p.IsPoint())

	_, err = timeslot.ParseRange("13:00-10:00")
	require.Error(t, err)

	_, err = timeslot.ParseRange("10:00-10:00")
	require.Error(t, err, "an explicit range must not be empty")

	_, err = timeslot.ParseRange("10:00-late")
	require.ErrorIs(t, err, timeslot.ErrMalformedTime)
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	mk := func(text string) timeslot.Range {
		r, err := timeslot.ParseRange(text)
		require.NoError(t, err)
		return r
	}

	ranges := []timeslot.Range{
		mk("09:00-10:00"), mk("10:00-11:00"), mk("09:30-10:30"),
		mk("08:00-12:00"), mk("12:30-14:30"), mk("14:00-17:00"),
	}

	t.Run("symmetric", func(t *testing.T) {
		t.Parallel()
		for _, a := range ranges {
			for _, b := range ranges {
				assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "%s vs %s", a, b)
			}
		}
	})

	t.Run("reflexive for non-empty ranges", func(t *testing.T) {
		t.Parallel()
		for _, a := range ranges {
			assert.True(t, a.Overlaps(a), a.String())
		}
	})

	t.Run("touching ranges do not overlap", func(t *testing.T) {
		t.Parallel()
		assert.False(t, mk("09:00-10:00").Overlaps(mk("10:00-11:00")))
	})

	t.Run("point ranges overlap nothing", func(t *testing.T) {
		t.Parallel()
		p := mk("10:00")
		assert.False(t, p.Overlaps(p))
		assert.False(t, p.Overlaps(mk("09:00-11:00")))
	})

	t.Run("contains is half-open", func(t *testing.T) {
		t.Parallel()
		r := mk("10:00-13:00")
		assert.True(t, r.Contains(timeslot.NewTimeOfDay(10, 0)))
		assert.True(t, r.Contains(timeslot.NewTimeOfDay(12, 59)))
		assert.False(t, r.Contains(timeslot.NewTimeOfDay(13, 0)))
	})
}

func TestRangeJSON(t *testing.T) {
	t.Parallel()
	r, err := timeslot.ParseRange("10:00-13:00")
	require.NoError(t, err)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"10:00","end":"13:00","label":"10:00-13:00"}`, string(b))

	var back timeslot.Range
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, r, back)
}
