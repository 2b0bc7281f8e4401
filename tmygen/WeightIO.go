package tmygen

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CSV形式の重み表を読み込みます。
//
// 1列目が月(1～12)、2列目以降が気象要素ごとの重みです。1行目はヘッダ行です。
//
//	month,temp,ghi,windspeed
//	1,0.5,0.3,0.2
func ReadWeightsCSV(r io.Reader) (WeightTable, error) {
	csvReader := csv.NewReader(r)
	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read weight table")
	}
	if len(rows) < 2 {
		return nil, errors.Wrap(ErrConfiguration, "weight table has no rows")
	}

	header := rows[0]
	table := make(WeightTable, 12)
	for n, row := range rows[1:] {
		m, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, errors.Wrapf(ErrConfiguration, "row %d: invalid month %q", n+2, row[0])
		}
		weights := make(map[string]float64, len(header)-1)
		for i := 1; i < len(header); i++ {
			s := strings.TrimSpace(row[i])
			if s == "" {
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrConfiguration, "row %d column %s: %v", n+2, header[i], err)
			}
			weights[strings.TrimSpace(header[i])] = v
		}
		if err := table.add(m, weights); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// YAML形式の重み表を読み込みます。
//
//	1: {temp: 0.5, ghi: 0.3, windspeed: 0.2}
//	2: {temp: 0.5, ghi: 0.3, windspeed: 0.2}
func ReadWeightsYAML(r io.Reader) (WeightTable, error) {
	var raw map[int]map[string]float64
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrapf(ErrConfiguration, "decode weight table: %v", err)
	}
	table := make(WeightTable, len(raw))
	for m, weights := range raw {
		if err := table.add(m, weights); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// ファイル path から重み表を読み込みます。拡張子が .yaml, .yml の場合はYAML、それ以外はCSVとして扱います。
func LoadWeightsFile(path string) (WeightTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open weight file")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadWeightsYAML(f)
	default:
		return ReadWeightsCSV(f)
	}
}

func (t WeightTable) add(month int, weights map[string]float64) error {
	if month < 1 || month > 12 {
		return errors.Wrapf(ErrConfiguration, "month %d out of range", month)
	}
	if _, ok := t[month]; ok {
		return errors.Wrapf(ErrConfiguration, "duplicate month %d", month)
	}
	t[month] = weights
	return nil
}
