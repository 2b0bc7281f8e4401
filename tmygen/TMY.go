package tmygen

import (
	"math"
	"sort"

	"github.com/hhkbp2/go-logging"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

//標準年(TMY)の計算モジュール
//
// 月ごとに FS 値が最も小さい年を代表年として選び、
// 代表年の月データを1月から12月まで接合したのち、接合部を円滑化する。

// 月 → 気象要素名 → 重み
type WeightTable map[int]map[string]float64

// 月別の代表年 (1月から12月の順)
type ChosenYear []FSResult

// 代表年の年のリスト
func (c ChosenYear) Years() []int {
	years := make([]int, len(c))
	for i, r := range c {
		years[i] = r.Year
	}
	return years
}

// 標準年の計算条件
type Options struct {
	// タイブレーク前に残す FS 上位の候補数 (1以上)
	TopK int

	// 候補の絞り込みに用いる気象要素。日平均値の標準偏差が小さい年を選ぶ。
	// 空文字列の場合は FS 値が最小の年を採用する。
	TieBreakVar string

	// 接合部の円滑化の条件。Hours が0の場合は円滑化しない。
	Smooth SmoothOptions

	// ベクトル風速から風速・風向を計算する場合に指定する
	WindVector *WindColumns
}

// 既定の計算条件
func DefaultOptions() Options {
	return Options{
		TopK:        1,
		TieBreakVar: "windspeed",
		Smooth:      DefaultSmoothOptions(),
	}
}

// 標準年の計算結果
type TMY struct {
	Chosen ChosenYear //月別の代表年
	Series *Weather   //接合・円滑化した1年分の1時間値
}

// 月ごとの計算結果
type monthAndResult struct {
	Index  int
	Result FSResult
	Err    error
}

// 月別に代表年を決定します。
//
// w は日時の昇順である必要があります。重み表 table は1月から12月のすべてを含む必要があります。
// いずれかの月で代表年を決められない場合はエラーを返します。
func SelectMonths(w *Weather, table WeightTable, opts Options) (ChosenYear, error) {
	if err := validateOptions(w, table, opts); err != nil {
		return nil, err
	}

	// 月ごとに独立に計算
	c := make(chan monthAndResult, 12)
	for m := 1; m <= 12; m++ {
		go func(index int, month int) {
			r, err := selectMonth(w, month, table[month], opts)
			c <- monthAndResult{index, r, err}
		}(m-1, m)
	}

	chosen := make(ChosenYear, 12)
	errs := make([]error, 12)
	for i := 0; i < 12; i++ {
		ret := <-c
		chosen[ret.Index] = ret.Result
		errs[ret.Index] = ret.Err
	}

	// 1月から順に最初のエラーを返す
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return chosen, nil
}

func validateOptions(w *Weather, table WeightTable, opts Options) error {
	if err := w.ValidateOrder(); err != nil {
		return err
	}
	if opts.TopK < 1 {
		return errors.Wrapf(ErrConfiguration, "top_k must be >= 1, got %d", opts.TopK)
	}
	for m := 1; m <= 12; m++ {
		if _, ok := table[m]; !ok {
			return errors.Wrapf(ErrConfiguration, "weight table has no entry for month %d", m)
		}
	}
	if opts.TopK > 1 && opts.TieBreakVar != "" && !w.HasVar(opts.TieBreakVar) {
		return errors.Wrapf(ErrConfiguration, "tie-break variable %q not in weather data", opts.TieBreakVar)
	}
	return nil
}

// 月 month の代表年を決定します。
func selectMonth(w *Weather, month int, weights map[string]float64, opts Options) (FSResult, error) {
	ranked, err := RankMonth(w, month, weights)
	if err != nil {
		return FSResult{}, err
	}

	// FS 上位 k 件
	if len(ranked) > opts.TopK {
		ranked = ranked[:opts.TopK]
	}

	// 日平均値の標準偏差が小さい年を優先
	if len(ranked) > 1 && opts.TieBreakVar != "" {
		std := make(map[int]float64, len(ranked))
		for _, r := range ranked {
			std[r.Year] = dailyStdDev(w, r, opts.TieBreakVar)
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return scoreLess(std[ranked[i].Year], std[ranked[j].Year])
		})
	}

	return ranked[0], nil
}

// 候補 r の気象要素 name の日平均値の標準偏差(不偏)
func dailyStdDev(w *Weather, r FSResult, name string) float64 {
	means, ok := r.Daily.Means[name]
	if !ok {
		// 重みづけされていない気象要素は日平均値を計算し直す
		d := dailyMeans(w.ExtractYearMonth(r.Year, r.Month), r.Month, []string{name})
		if len(d) == 0 {
			return math.NaN()
		}
		means = d[0].Means[name]
	}
	if len(means) < 2 {
		return math.NaN()
	}
	return stat.StdDev(means, nil)
}

// 月別の代表年の1時間値を1月から12月の順に接合します。
func Assemble(w *Weather, chosen ChosenYear) (*Weather, error) {
	parts := make([]*Weather, 0, len(chosen))
	for _, r := range chosen {
		part := w.ExtractYearMonth(r.Year, r.Month)
		if part.Len() == 0 {
			return nil, errors.Wrapf(ErrInsufficientData, "no hourly data for %d-%02d", r.Year, r.Month)
		}
		parts = append(parts, part)
	}
	return Concat(parts...)
}

// 複数年の1時間値 w から標準年を作成します。
func Generate(w *Weather, table WeightTable, opts Options) (*TMY, error) {
	logger := logging.GetLogger(LoggerName)

	if opts.WindVector != nil {
		w = w.Clone()
		if err := w.WindVectorToDirAndSpeed(*opts.WindVector); err != nil {
			return nil, err
		}
	}

	// 月別に代表的な年を取得
	chosen, err := SelectMonths(w, table, opts)
	if err != nil {
		return nil, err
	}
	logger.Infof("代表年: %v", chosen.Years())

	// 月別に代表的な年から接合した1年間のデータを作成
	patchwork, err := Assemble(w, chosen)
	if err != nil {
		return nil, err
	}

	// 接合部の円滑化
	if opts.Smooth.Hours != 0 {
		patchwork, err = SmoothMonthEdges(patchwork, opts.Smooth)
		if err != nil {
			return nil, err
		}
	}

	// ベクトル風速から風速・風向を再計算
	if opts.WindVector != nil {
		if err := patchwork.WindVectorToDirAndSpeed(*opts.WindVector); err != nil {
			return nil, err
		}
	}

	return &TMY{Chosen: chosen, Series: patchwork}, nil
}
