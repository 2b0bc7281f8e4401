package tmygen

import (
	"compress/gzip"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hhkbp2/go-logging"
	"github.com/pkg/errors"
)

// 日時列として扱う列名
var dateColumns = []string{"dt", "date"}

// 暦の列 (日時から求めるため読み飛ばす)
var calendarColumns = []string{"year", "month", "day", "hour"}

// 日時の書式
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// CSV形式の複数年の1時間値を読み込みます。
//
// 1行目はヘッダ行です。dt (または date) 列を日時とし、year, month, day, hour 列は
// 日時から求めるため読み飛ばします。その他の列はすべて数値の気象要素として読み込みます。
// 日時は昇順である必要があります。NaN は欠測として読み込み、無限大はエラーとします。
func ReadWeatherCSV(r io.Reader) (*Weather, error) {
	csvReader := csv.NewReader(r)
	csvReader.ReuseRecord = true

	row, err := csvReader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	header := append([]string{}, row...)

	dateIndex := -1
	varIndex := []int{}
	vars := []string{}
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch {
		case dateIndex < 0 && contains(dateColumns, name):
			dateIndex = i
		case contains(calendarColumns, strings.ToLower(name)):
			// 読み飛ばし
		default:
			varIndex = append(varIndex, i)
			vars = append(vars, name)
		}
	}
	if dateIndex < 0 {
		return nil, errors.Wrapf(ErrConfiguration, "no date column (%s) in header", strings.Join(dateColumns, ", "))
	}

	w := NewWeather(vars)
	line := 1
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		date, err := parseDate(row[dateIndex])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if n := w.Len(); n > 0 && !date.After(w.Date[n-1]) {
			return nil, errors.Wrapf(ErrConfiguration, "line %d: %s is not after %s", line,
				date.Format(dateLayouts[0]), w.Date[n-1].Format(dateLayouts[0]))
		}

		values := make(map[string]float64, len(vars))
		for k, i := range varIndex {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d column %s", line, vars[k])
			}
			if math.IsInf(v, 0) {
				return nil, errors.Wrapf(ErrConfiguration, "line %d column %s: infinite value", line, vars[k])
			}
			values[vars[k]] = v
		}

		w.Append(HourlyRecord{Date: date, Values: values})
	}

	return w, nil
}

// ファイル path から1時間値を読み込みます。拡張子が .gz の場合は gzip として展開します。
func LoadWeatherFile(path string) (*Weather, error) {
	logger := logging.GetLogger(LoggerName)
	logger.Infof("気象データ読み込み: %s", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open weather file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gf, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "gzip %s", path)
		}
		defer gf.Close()
		r = gf
	}

	w, err := ReadWeatherCSV(r)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	logger.Infof("気象データ読み込み完了: %d行 %v", w.Len(), w.Vars)
	return w, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unknown date format %q", s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
