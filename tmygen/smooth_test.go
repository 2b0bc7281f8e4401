package tmygen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2000年1月30～31日 + 2000年2月1～2日 + 2005年3月1～2日 (各48行)
func patchwork() *Weather {
	w := NewWeather([]string{"temp", "ghi"})
	n := 0
	add := func(start time.Time) {
		for i := 0; i < 48; i++ {
			w.Append(HourlyRecord{
				Date: start.Add(time.Duration(i) * time.Hour),
				Values: map[string]float64{
					"temp": float64((n*37)%11) - 3,
					"ghi":  float64((n * 13) % 7),
				},
			})
			n++
		}
	}
	add(time.Date(2000, time.January, 30, 0, 0, 0, 0, time.UTC))
	add(time.Date(2000, time.February, 1, 0, 0, 0, 0, time.UTC))
	add(time.Date(2005, time.March, 1, 0, 0, 0, 0, time.UTC))
	return w
}

// 区間 [start, end) が直線であること
func assertRamp(t *testing.T, col []float64, start int, end int) {
	t.Helper()
	step := (col[end-1] - col[start]) / float64(end-start-1)
	for i := start + 1; i < end; i++ {
		assert.InDelta(t, step, col[i]-col[i-1], 1e-9, "index %d", i)
		if step >= 0 {
			assert.GreaterOrEqual(t, col[i], col[i-1])
		} else {
			assert.LessOrEqual(t, col[i], col[i-1])
		}
	}
}

func Test_monthSegments(t *testing.T) {
	segs := monthSegments(patchwork())
	assert.Equal(t, []monthSegment{{0, 48}, {48, 96}, {96, 144}}, segs)
	assert.Empty(t, monthSegments(NewWeather(nil)))
}

func Test_SmoothMonthEdges(t *testing.T) {
	w := patchwork()
	input := w.Clone()

	out, err := SmoothMonthEdges(w, DefaultSmoothOptions())
	require.NoError(t, err)

	// 入力は変更されない
	assert.Equal(t, input, w)

	windows := [][2]int{{0, 8}, {40, 48}, {48, 56}, {88, 96}, {96, 104}, {136, 144}}
	inWindow := func(i int) bool {
		for _, win := range windows {
			if i >= win[0] && i < win[1] {
				return true
			}
		}
		return false
	}

	for _, v := range []string{"temp", "ghi"} {
		col := out.Data[v]
		for _, win := range windows {
			// 区間の両端は変わらない
			assert.Equal(t, w.Data[v][win[0]], col[win[0]])
			assert.Equal(t, w.Data[v][win[1]-1], col[win[1]-1])
			assertRamp(t, col, win[0], win[1])
		}
		// 区間外は変わらない
		for i := range col {
			if !inWindow(i) {
				assert.Equal(t, w.Data[v][i], col[i], "%s[%d]", v, i)
			}
		}
	}

	// 暦の列は変わらない
	assert.Equal(t, w.Date, out.Date)
	assert.Equal(t, w.Hour, out.Hour)
}

func Test_SmoothMonthEdges_internalOnly(t *testing.T) {
	w := patchwork()
	opts := DefaultSmoothOptions()
	opts.InternalOnly = true

	out, err := SmoothMonthEdges(w, opts)
	require.NoError(t, err)

	// 年の始端・終端は変わらない
	assert.Equal(t, w.Data["temp"][0:8], out.Data["temp"][0:8])
	assert.Equal(t, w.Data["temp"][136:144], out.Data["temp"][136:144])
	assertRamp(t, out.Data["temp"], 40, 48)
	assertRamp(t, out.Data["temp"], 96, 104)
}

func Test_SmoothMonthEdges_skipContinuous(t *testing.T) {
	w := patchwork()
	opts := DefaultSmoothOptions()
	opts.SkipContinuous = true

	out, err := SmoothMonthEdges(w, opts)
	require.NoError(t, err)

	// 1月31日23時と2月1日0時は連続しているため変わらない
	assert.Equal(t, w.Data["temp"][40:56], out.Data["temp"][40:56])

	// 2000年2月と2005年3月の接合部は円滑化される
	assertRamp(t, out.Data["temp"], 88, 96)
	assertRamp(t, out.Data["temp"], 96, 104)
}

func Test_SmoothMonthEdges_vars(t *testing.T) {
	w := patchwork()
	opts := SmoothOptions{Hours: 4, Vars: []string{"temp"}}

	out, err := SmoothMonthEdges(w, opts)
	require.NoError(t, err)

	assert.Equal(t, w.Data["ghi"], out.Data["ghi"])
	assertRamp(t, out.Data["temp"], 44, 48)
	assert.Equal(t, w.Data["temp"][4:44], out.Data["temp"][4:44])
}

func Test_SmoothMonthEdges_shortMonth(t *testing.T) {
	// 6時間しかない月は前後3時間ずつ
	w := NewWeather([]string{"temp"})
	start := time.Date(2001, time.April, 30, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		w.Append(HourlyRecord{Date: start.Add(time.Duration(i) * time.Hour), Values: map[string]float64{"temp": float64(i * i)}})
	}

	out, err := SmoothMonthEdges(w, DefaultSmoothOptions())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 4, 9, 17, 25}, out.Data["temp"])
}

func Test_SmoothMonthEdges_errors(t *testing.T) {
	w := patchwork()

	_, err := SmoothMonthEdges(w, SmoothOptions{Hours: -1})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = SmoothMonthEdges(w, SmoothOptions{Hours: 8, Vars: []string{"dni"}})
	assert.ErrorIs(t, err, ErrConfiguration)

	w.Data["ghi"] = w.Data["ghi"][:3]
	_, err = SmoothMonthEdges(w, DefaultSmoothOptions())
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
