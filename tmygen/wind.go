package tmygen

import (
	"math"

	"github.com/pkg/errors"
)

//--------------------------------------
// 風速風向計算
//--------------------------------------

// ベクトル風速の列と、計算した風速・風向を格納する列の名前
type WindColumns struct {
	U         string //東西のベクトル成分 (m/s)
	V         string //南北のベクトル成分 (m/s)
	Speed     string //風速 (m/s)
	Direction string //風向 (°)
}

// 既定の列名 (MSM の UGRD, VGRD)
func DefaultWindColumns() WindColumns {
	return WindColumns{U: "UGRD", V: "VGRD", Speed: "windspeed", Direction: "winddir"}
}

// ベクトル風速 U, V から16方位の風向風速を計算し、列 Speed, Direction に格納します。
func (w *Weather) WindVectorToDirAndSpeed(cols WindColumns) error {
	if !w.HasVar(cols.U) || !w.HasVar(cols.V) {
		return errors.Wrapf(ErrConfiguration, "wind vector columns %q, %q not in weather data", cols.U, cols.V)
	}
	if cols.Speed == "" || cols.Direction == "" || cols.Speed == cols.Direction {
		return errors.Wrapf(ErrConfiguration, "invalid wind output columns %q, %q", cols.Speed, cols.Direction)
	}

	u := w.Data[cols.U]
	v := w.Data[cols.V]
	spd := make([]float64, len(u))
	dir := make([]float64, len(u))
	for i := range u {
		spd[i], dir[i] = Wind16(u[i], v[i])
	}

	w.setColumn(cols.Speed, spd)
	w.setColumn(cols.Direction, dir)
	return nil
}

// 16方位の1区分 (°)
const compassSector = 360.0 / 16

// 東西成分 u, 南北成分 v のベクトル風速を16方位に丸めます。
//
// direction は風が吹いてくる方位 (北=0°、時計回り、0 以上 360 未満)、
// speed は風速ベクトルを丸めた方位へ射影した大きさです。
func Wind16(u float64, v float64) (speed float64, direction float64) {
	from := math.Mod(math.Atan2(u, v)*180/math.Pi+180, 360)
	sector := math.Round(from / compassSector)

	direction = math.Mod(sector*compassSector, 360)
	speed = math.Hypot(u, v) * math.Cos((from-sector*compassSector)*math.Pi/180)
	return speed, direction
}
