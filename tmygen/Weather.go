package tmygen

import (
	"sort"
	"time"

	"github.com/pkg/errors"
)

// 1時間ごとの観測値(行)
type HourlyRecord struct {
	Date   time.Time          //参照時刻
	Year   int                //年
	Month  int                //月 (1～12)
	Day    int                //日 (1～31)
	Hour   int                //時 (0～23)
	Values map[string]float64 //気象要素ごとの値
}

// 時系列の気象データ(列指向)
//
// Date, Year, Month, Day, Hour は暦の列であり、スムージングの対象外です。
// Vars に列挙された気象要素の値が Data に格納されます。
type Weather struct {
	Date  []time.Time //参照時刻(昇順)
	Year  []int
	Month []int
	Day   []int
	Hour  []int

	Vars []string             //気象要素名(列順)
	Data map[string][]float64 //気象要素ごとの値
}

// 気象要素 vars を列にもつ空のデータを作成します。
func NewWeather(vars []string) *Weather {
	w := &Weather{
		Vars: append([]string{}, vars...),
		Data: make(map[string][]float64, len(vars)),
	}
	for _, v := range vars {
		w.Data[v] = []float64{}
	}
	return w
}

// 行数
func (w *Weather) Len() int {
	return len(w.Date)
}

// 気象要素 name の列を持つか
func (w *Weather) HasVar(name string) bool {
	_, ok := w.Data[name]
	return ok
}

// 気象要素 name の列を返します。存在しない場合は nil を返します。
func (w *Weather) Column(name string) []float64 {
	return w.Data[name]
}

// 行を追加します。
// Year, Month, Day, Hour が0の場合は Date から求めます。
// r.Values に含まれない気象要素は NaN ではなく 0 として扱います。
func (w *Weather) Append(r HourlyRecord) {
	if r.Year == 0 && r.Month == 0 && r.Day == 0 {
		r.Year = r.Date.Year()
		r.Month = int(r.Date.Month())
		r.Day = r.Date.Day()
		r.Hour = r.Date.Hour()
	}
	w.Date = append(w.Date, r.Date)
	w.Year = append(w.Year, r.Year)
	w.Month = append(w.Month, r.Month)
	w.Day = append(w.Day, r.Day)
	w.Hour = append(w.Hour, r.Hour)
	for _, v := range w.Vars {
		w.Data[v] = append(w.Data[v], r.Values[v])
	}
}

// i行目を返します。
func (w *Weather) Record(i int) HourlyRecord {
	values := make(map[string]float64, len(w.Vars))
	for _, v := range w.Vars {
		values[v] = w.Data[v][i]
	}
	return HourlyRecord{
		Date:   w.Date[i],
		Year:   w.Year[i],
		Month:  w.Month[i],
		Day:    w.Day[i],
		Hour:   w.Hour[i],
		Values: values,
	}
}

// 列の長さがそろっているかを確認します。
func (w *Weather) Validate() error {
	n := len(w.Date)
	cal := [...]struct {
		name string
		l    int
	}{{"year", len(w.Year)}, {"month", len(w.Month)}, {"day", len(w.Day)}, {"hour", len(w.Hour)}}
	for _, c := range cal {
		if c.l != n {
			return errors.Wrapf(ErrDimensionMismatch, "column %s has %d rows, date has %d", c.name, c.l, n)
		}
	}
	for _, v := range w.Vars {
		col, ok := w.Data[v]
		if !ok {
			return errors.Wrapf(ErrDimensionMismatch, "column %s is declared but missing", v)
		}
		if len(col) != n {
			return errors.Wrapf(ErrDimensionMismatch, "column %s has %d rows, date has %d", v, len(col), n)
		}
	}
	return nil
}

// 日時が昇順であり、年月が前の行より戻らないことを確認します。
// 接合後の標準年は年が前後するため、複数年の元データに対してのみ用います。
func (w *Weather) ValidateOrder() error {
	if err := w.Validate(); err != nil {
		return err
	}
	for i := 1; i < w.Len(); i++ {
		if !w.Date[i].After(w.Date[i-1]) {
			return errors.Wrapf(ErrConfiguration, "row %d: %s is not after %s", i,
				w.Date[i].Format("2006-01-02 15:04:05"), w.Date[i-1].Format("2006-01-02 15:04:05"))
		}
		if w.Year[i]*100+w.Month[i] < w.Year[i-1]*100+w.Month[i-1] {
			return errors.Wrapf(ErrConfiguration, "row %d: %d-%02d comes after %d-%02d", i,
				w.Year[i], w.Month[i], w.Year[i-1], w.Month[i-1])
		}
	}
	return nil
}

// 複製を作成します。
func (w *Weather) Clone() *Weather {
	return w.slice(0, w.Len())
}

// start行目から end行目の手前までを複製します。
func (w *Weather) slice(start int, end int) *Weather {
	c := &Weather{
		Date:  append([]time.Time{}, w.Date[start:end]...),
		Year:  append([]int{}, w.Year[start:end]...),
		Month: append([]int{}, w.Month[start:end]...),
		Day:   append([]int{}, w.Day[start:end]...),
		Hour:  append([]int{}, w.Hour[start:end]...),
		Vars:  append([]string{}, w.Vars...),
		Data:  make(map[string][]float64, len(w.Vars)),
	}
	for _, v := range w.Vars {
		c.Data[v] = append([]float64{}, w.Data[v][start:end]...)
	}
	return c
}

// 年 year 月 month のデータを抜き出して新しい構造体を作成します。
// 該当する行がない場合は0行のデータを返します。
// 行は年月の昇順である必要があります (ValidateOrder を参照)。
func (w *Weather) ExtractYearMonth(year int, month int) *Weather {
	key := year*100 + month
	start := sort.Search(w.Len(), func(i int) bool {
		return w.Year[i]*100+w.Month[i] >= key
	})
	end := sort.Search(w.Len(), func(i int) bool {
		return w.Year[i]*100+w.Month[i] > key
	})
	return w.slice(start, end)
}

// 複数のデータを順に接合します。気象要素は先頭のデータに合わせます。
func Concat(parts ...*Weather) (*Weather, error) {
	if len(parts) == 0 {
		return NewWeather(nil), nil
	}
	out := NewWeather(parts[0].Vars)
	for _, p := range parts {
		for _, v := range out.Vars {
			if !p.HasVar(v) {
				return nil, errors.Wrapf(ErrConfiguration, "variable %q missing from part", v)
			}
		}
		out.Date = append(out.Date, p.Date...)
		out.Year = append(out.Year, p.Year...)
		out.Month = append(out.Month, p.Month...)
		out.Day = append(out.Day, p.Day...)
		out.Hour = append(out.Hour, p.Hour...)
		for _, v := range out.Vars {
			out.Data[v] = append(out.Data[v], p.Data[v]...)
		}
	}
	return out, nil
}

// 列を追加または置換します。
func (w *Weather) setColumn(name string, values []float64) {
	if !w.HasVar(name) {
		w.Vars = append(w.Vars, name)
	}
	w.Data[name] = values
}
