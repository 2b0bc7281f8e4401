// tmygen
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/hhkbp2/go-logging"
	"github.com/udawtr/tmygen-go/tmygen"
)

func main() {
	// コマンドライン引数の処理
	parser := argparse.NewParser("tmygen", "Generates a Typical Meteorological Year using Finkelstein-Schafer ranking")

	weather := parser.String("w", "weather", &argparse.Options{
		Required: true,
		Help:     "複数年の1時間値のCSVファイル (.csv or .csv.gz)"})

	weights := parser.String("f", "weights", &argparse.Options{
		Required: true,
		Help:     "月別の重み表 (CSV or YAML)"})

	filename := parser.String("o", "output", &argparse.Options{
		Default: "",
		Help:    "保存ファイルパス (未指定の場合は標準出力)"})

	topK := parser.Int("", "top_k", &argparse.Options{
		Default: 1,
		Help:    "タイブレーク前に残すFS上位の候補数"})

	tieBreak := parser.String("", "tie_break", &argparse.Options{
		Default: "windspeed",
		Help:    "候補の絞り込みに用いる気象要素 (none=FS最小の年を採用)"})

	hours := parser.Int("", "hours", &argparse.Options{
		Default: 8,
		Help:    "接合部の円滑化時間数 (0=円滑化しない)"})

	internalOnly := parser.Flag("", "internal_only", &argparse.Options{
		Help: "年の始端・終端は円滑化しない"})

	skipContinuous := parser.Flag("", "skip_continuous", &argparse.Options{
		Help: "元データで連続している接合部は円滑化しない"})

	windU := parser.String("", "wind_u", &argparse.Options{
		Default: "",
		Help:    "東西のベクトル風速の列名 (指定した場合 windspeed, winddir を計算)"})

	windV := parser.String("", "wind_v", &argparse.Options{
		Default: "",
		Help:    "南北のベクトル風速の列名"})

	log := parser.Selector("", "log", []string{"DEBUG", "INFO", "WARN", "ERROR", "CRITICAL"}, &argparse.Options{
		Default: "ERROR",
		Help:    "ログレベルの設定"})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	// ログレベル設定
	logger := logging.GetLogger(tmygen.LoggerName)
	switch *log {
	case "DEBUG":
		logger.SetLevel(logging.LevelDebug)
	case "INFO":
		logger.SetLevel(logging.LevelInfo)
	case "WARN":
		logger.SetLevel(logging.LevelWarn)
	case "ERROR":
		logger.SetLevel(logging.LevelError)
	case "CRITICAL":
		logger.SetLevel(logging.LevelCritical)
	}

	opts := tmygen.DefaultOptions()
	opts.TopK = *topK
	opts.TieBreakVar = *tieBreak
	if *tieBreak == "none" {
		opts.TieBreakVar = ""
	}
	opts.Smooth.Hours = *hours
	opts.Smooth.InternalOnly = *internalOnly
	opts.Smooth.SkipContinuous = *skipContinuous
	if *windU != "" || *windV != "" {
		cols := tmygen.DefaultWindColumns()
		if *windU != "" {
			cols.U = *windU
		}
		if *windV != "" {
			cols.V = *windV
		}
		opts.WindVector = &cols
	}

	if err := run(*weather, *weights, *filename, opts); err != nil {
		logger.Errorf("%+v", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	logger.Infof("計算が終了しました")
}

func run(weatherPath string, weightPath string, filename string, opts tmygen.Options) error {
	logger := logging.GetLogger(tmygen.LoggerName)

	w, err := tmygen.LoadWeatherFile(weatherPath)
	if err != nil {
		return err
	}

	table, err := tmygen.LoadWeightsFile(weightPath)
	if err != nil {
		return err
	}

	// 標準年の計算
	res, err := tmygen.Generate(w, table, opts)
	if err != nil {
		return err
	}

	// 保存
	var buf *bytes.Buffer = bytes.NewBuffer([]byte{})
	res.Series.ToCSV(buf)

	if filename == "" {
		fmt.Print(buf.String())
		return nil
	}

	logger.Infof("CSV保存: %s (%d行)", filename, res.Series.Len())
	return os.WriteFile(filename, buf.Bytes(), 0644)
}
