package tmygen

import (
	"github.com/pkg/errors"
)

var (
	// 重み表や気象要素の指定が不正
	ErrConfiguration = errors.New("configuration error")

	// 候補となる年が存在しない
	ErrInsufficientData = errors.New("insufficient data")

	// 列の長さが一致しない
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// ロガー名
const LoggerName = "tmygen"
