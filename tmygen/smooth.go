package tmygen

import (
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// **** 円滑化処理 ****

// 接合部の円滑化の条件
type SmoothOptions struct {
	// 月の始端・終端から円滑化する時間数
	Hours int

	// 円滑化する気象要素。nil の場合はすべての気象要素。
	Vars []string

	// true の場合、年の始端(最初の月の始端)と年の終端(最後の月の終端)は円滑化しない
	InternalOnly bool

	// true の場合、元データで時刻が連続している接合部は円滑化しない
	SkipContinuous bool
}

// 既定の円滑化条件 (前後8時間)
func DefaultSmoothOptions() SmoothOptions {
	return SmoothOptions{Hours: 8}
}

// 同一年月の連続区間 [Start, End)
type monthSegment struct {
	Start, End int
}

// 年月が変わる位置で区間に分割します。
func monthSegments(w *Weather) []monthSegment {
	segs := []monthSegment{}
	for i := 0; i < w.Len(); i++ {
		if i == 0 || w.Year[i] != w.Year[i-1] || w.Month[i] != w.Month[i-1] {
			if len(segs) > 0 {
				segs[len(segs)-1].End = i
			}
			segs = append(segs, monthSegment{Start: i})
		}
	}
	if len(segs) > 0 {
		segs[len(segs)-1].End = w.Len()
	}
	return segs
}

// 月の接合部を滑らかに加工したデータを返します。入力 w は変更しません。
//
// 各月の始端の Hours 時間と終端の Hours 時間の値を、その区間の最初の値から
// 最後の値への直線で置き換えます。区間は月の長さの半分を超えません。
func SmoothMonthEdges(w *Weather, opts SmoothOptions) (*Weather, error) {
	if opts.Hours < 0 {
		return nil, errors.Wrapf(ErrConfiguration, "smoothing hours must be >= 0, got %d", opts.Hours)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	vars := opts.Vars
	if vars == nil {
		vars = w.Vars
	}
	for _, v := range vars {
		if !w.HasVar(v) {
			return nil, errors.Wrapf(ErrConfiguration, "smoothing variable %q not in weather data", v)
		}
	}

	out := w.Clone()
	segs := monthSegments(out)

	for i, seg := range segs {
		h := opts.Hours
		if n := seg.End - seg.Start; h > n/2 {
			h = n / 2
		}
		if h < 2 {
			continue
		}

		// 前の月からの接合部(月の始端)
		head := true
		if i == 0 {
			head = !opts.InternalOnly
		} else if opts.SkipContinuous && continuous(out, segs[i-1], seg) {
			head = false
		}

		// 次の月への接合部(月の終端)
		tail := true
		if i == len(segs)-1 {
			tail = !opts.InternalOnly
		} else if opts.SkipContinuous && continuous(out, seg, segs[i+1]) {
			tail = false
		}

		for _, v := range vars {
			col := out.Data[v]
			if head {
				ramp(col[seg.Start : seg.Start+h])
			}
			if tail {
				ramp(col[seg.End-h : seg.End])
			}
		}
	}

	return out, nil
}

// 区間 before の最後の時刻の1時間後が区間 after の最初の時刻か
func continuous(w *Weather, before monthSegment, after monthSegment) bool {
	return w.Date[after.Start].Sub(w.Date[before.End-1]) == time.Hour
}

// 区間の最初の値から最後の値への直線で置き換える
func ramp(window []float64) {
	last := window[len(window)-1]
	floats.Span(window, window[0], last)
	window[len(window)-1] = last
}
