package tmygen

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Wind16(t *testing.T) {
	// 南西の風
	spd, dir := Wind16(1.0, 1.0)
	assert.InDelta(t, math.Sqrt2, spd, 1e-9)
	assert.InDelta(t, 225.0, dir, 1e-9)

	// 北風は 0°
	spd, dir = Wind16(0.0, -2.0)
	assert.InDelta(t, 2.0, spd, 1e-9)
	assert.Equal(t, 0.0, dir)

	// 16方位への丸め: 10° は北に丸め、速さは cos(10°) 倍
	rad := 10.0 * math.Pi / 180
	spd, dir = Wind16(-math.Sin(rad), -math.Cos(rad))
	assert.Equal(t, 0.0, dir)
	assert.InDelta(t, math.Cos(rad), spd, 1e-9)

	// 東風
	spd, dir = Wind16(-3.0, 0.0)
	assert.InDelta(t, 3.0, spd, 1e-9)
	assert.InDelta(t, 90.0, dir, 1e-9)
}

func Test_WindVectorToDirAndSpeed(t *testing.T) {
	w := NewWeather([]string{"UGRD", "VGRD"})
	w.Append(HourlyRecord{
		Date:   time.Date(2001, time.June, 1, 0, 0, 0, 0, time.UTC),
		Values: map[string]float64{"UGRD": 1.0, "VGRD": 1.0},
	})

	require.NoError(t, w.WindVectorToDirAndSpeed(DefaultWindColumns()))
	assert.Equal(t, []string{"UGRD", "VGRD", "windspeed", "winddir"}, w.Vars)
	assert.InDelta(t, math.Sqrt2, w.Data["windspeed"][0], 1e-9)
	assert.InDelta(t, 225.0, w.Data["winddir"][0], 1e-9)

	// 再計算しても列は増えない
	require.NoError(t, w.WindVectorToDirAndSpeed(DefaultWindColumns()))
	assert.Len(t, w.Vars, 4)

	err := w.WindVectorToDirAndSpeed(WindColumns{U: "u", V: "v", Speed: "s", Direction: "d"})
	assert.ErrorIs(t, err, ErrConfiguration)
}
