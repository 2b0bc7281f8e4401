package tmygen

import (
	"math"
	"sort"

	"github.com/hhkbp2/go-logging"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

//FS(Finkelstein Schafer statistics)による候補年の順位付け

// ある年月の日平均値
type DailyAggregate struct {
	Year  int
	Month int
	Days  []int                //日 (昇順)
	Means map[string][]float64 //気象要素ごとの日平均値 (Days と同じ並び)
}

// ある年月の FS 計算結果
type FSResult struct {
	Month     int
	Year      int
	Score     float64            //重みづけした FS 値の合計 (小さいほど代表的)
	Distances map[string]float64 //気象要素ごとの FS 値
	Daily     DailyAggregate
}

// 月 month の年ごとの日平均値を計算します。結果は年の昇順です。
//
// 有限でない値は欠測として日平均値から除きます。有効な日が1日もない年は含みません。
func dailyMeans(w *Weather, month int, vars []string) []DailyAggregate {
	type yearDays struct {
		days  []int
		index map[int]int
		hours map[string][][]float64
	}

	// 年・日ごとの1時間値を集める
	groups := make(map[int]*yearDays)
	for i := 0; i < w.Len(); i++ {
		if w.Month[i] != month {
			continue
		}
		y := w.Year[i]
		g, ok := groups[y]
		if !ok {
			g = &yearDays{
				index: make(map[int]int, 31),
				hours: make(map[string][][]float64, len(vars)),
			}
			groups[y] = g
		}
		d, ok := g.index[w.Day[i]]
		if !ok {
			d = len(g.days)
			g.index[w.Day[i]] = d
			g.days = append(g.days, w.Day[i])
			for _, v := range vars {
				g.hours[v] = append(g.hours[v], make([]float64, 0, 24))
			}
		}
		for _, v := range vars {
			// 欠測 (NaN, ±Inf) は日平均値に含めない
			if x := w.Data[v][i]; !math.IsNaN(x) && !math.IsInf(x, 0) {
				g.hours[v][d] = append(g.hours[v][d], x)
			}
		}
	}

	years := make([]int, 0, len(groups))
	for y := range groups {
		years = append(years, y)
	}
	sort.Ints(years)

	daily := make([]DailyAggregate, 0, len(years))
	for _, y := range years {
		g := groups[y]

		// いずれかの気象要素で有効な値が1つもない日は除く
		order := make([]int, 0, len(g.days))
		for i := range g.days {
			valid := true
			for _, v := range vars {
				if len(g.hours[v][i]) == 0 {
					valid = false
					break
				}
			}
			if valid {
				order = append(order, i)
			}
		}
		if len(order) == 0 {
			continue
		}

		// 日の昇順に並べ替え
		sort.Slice(order, func(i, j int) bool { return g.days[order[i]] < g.days[order[j]] })

		agg := DailyAggregate{
			Year:  y,
			Month: month,
			Days:  make([]int, len(order)),
			Means: make(map[string][]float64, len(vars)),
		}
		for i, d := range order {
			agg.Days[i] = g.days[d]
		}
		for _, v := range vars {
			means := make([]float64, len(order))
			for i, d := range order {
				means[i] = stat.Mean(g.hours[v][d], nil)
			}
			agg.Means[v] = means
		}
		daily = append(daily, agg)
	}

	return daily
}

// 累積度数分布(CDF)
//
// values は重複のない昇順の値、count は values[i] 以下となる個数、n は標本数です。
// 割合ではなく個数で持ち、FS 値の計算の最後に一度だけ割り算をします。
type ecdf struct {
	values []float64
	count  []int
	n      int
}

// 昇順に並べ替え済みの標本 sorted から CDF を作成します。
func newECDF(sorted []float64) ecdf {
	e := ecdf{n: len(sorted)}
	for i, v := range sorted {
		if len(e.values) > 0 && e.values[len(e.values)-1] == v {
			e.count[len(e.count)-1] = i + 1
			continue
		}
		e.values = append(e.values, v)
		e.count = append(e.count, i+1)
	}
	return e
}

// q 以下となる個数
func (e ecdf) at(q float64) int {
	// q より大きい最初の値
	i := sort.Search(len(e.values), func(i int) bool { return e.values[i] > q })
	if i == 0 {
		return 0
	}
	return e.count[i-1]
}

// FS値: 標本 sample と基準 ref の CDF の差の絶対値の最大値
//
// 標本数の異なる2つの CDF を比較するため、両方の標本に現れる値の和集合を
// 評価点とします。差は |cs/ns - cr/nr| = |cs*nr - cr*ns| / (ns*nr) を整数で
// 求めるため、数学的に等しい FS 値は浮動小数点数としても等しくなります。
func fsDistance(sample ecdf, ref ecdf) float64 {
	if sample.n == 0 || ref.n == 0 {
		return math.NaN()
	}

	grid := make([]float64, 0, len(ref.values)+len(sample.values))
	grid = append(grid, ref.values...)
	grid = append(grid, sample.values...)
	sort.Float64s(grid)

	maxDiff := 0
	for i, q := range grid {
		if i > 0 && grid[i-1] == q {
			continue
		}
		d := sample.at(q)*ref.n - ref.at(q)*sample.n
		if d < 0 {
			d = -d
		}
		if d > maxDiff {
			maxDiff = d
		}
	}

	return float64(maxDiff) / float64(sample.n*ref.n)
}

// 月 month について、候補年を重みづけした FS 値の昇順に並べて返します。
//
// weights は気象要素名から重みへの対応です。重みの合計が1でない場合も
// そのまま相対的な重みとして扱います。FS 値が同じ場合は若い年が先になります。
func RankMonth(w *Weather, month int, weights map[string]float64) ([]FSResult, error) {
	logger := logging.GetLogger(LoggerName)

	if month < 1 || month > 12 {
		return nil, errors.Wrapf(ErrConfiguration, "month %d out of range", month)
	}
	vars, err := weightedVars(w, month, weights)
	if err != nil {
		return nil, err
	}

	daily := dailyMeans(w, month, vars)
	if len(daily) == 0 {
		return nil, errors.Wrapf(ErrInsufficientData, "month %d: no candidate years", month)
	}
	if len(daily) == 1 {
		logger.Warnf("月%d: 候補年が%d年のみです", month, daily[0].Year)
	}

	// 全年の日平均値による基準の CDF
	refs := make(map[string]ecdf, len(vars))
	for _, v := range vars {
		pool := []float64{}
		for _, d := range daily {
			pool = append(pool, d.Means[v]...)
		}
		sort.Float64s(pool)
		refs[v] = newECDF(pool)
	}

	results := make([]FSResult, 0, len(daily))
	for _, d := range daily {
		r := FSResult{
			Month:     month,
			Year:      d.Year,
			Distances: make(map[string]float64, len(vars)),
			Daily:     d,
		}
		for _, v := range vars {
			sample := append([]float64{}, d.Means[v]...)
			sort.Float64s(sample)
			dist := fsDistance(newECDF(sample), refs[v])
			r.Distances[v] = dist
			r.Score += weights[v] * dist
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return scoreLess(results[i].Score, results[j].Score)
	})

	for _, r := range results {
		logger.Debugf("月%d: %d年 FS=%.6f", month, r.Year, r.Score)
	}

	return results, nil
}

// 重みの検証を行い、重みづけされた気象要素名を昇順で返します。
func weightedVars(w *Weather, month int, weights map[string]float64) ([]string, error) {
	if len(weights) == 0 {
		return nil, errors.Wrapf(ErrConfiguration, "month %d: no weighted variables", month)
	}

	vars := make([]string, 0, len(weights))
	sum := 0.0
	for v, wt := range weights {
		if !w.HasVar(v) {
			return nil, errors.Wrapf(ErrConfiguration, "month %d: variable %q not in weather data", month, v)
		}
		if math.IsNaN(wt) || wt < 0 {
			return nil, errors.Wrapf(ErrConfiguration, "month %d: invalid weight %v for %q", month, wt, v)
		}
		sum += wt
		vars = append(vars, v)
	}
	sort.Strings(vars)

	if math.Abs(sum-1.0) > 1e-9 {
		logging.GetLogger(LoggerName).Warnf("月%d: 重みの合計が1ではありません (%g)", month, sum)
	}

	return vars, nil
}

// NaN は最後に並べる
func scoreLess(a float64, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a < b
}
