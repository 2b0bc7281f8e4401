package tmygen

import (
	"bytes"
	"strconv"
)

// CSV形式
//
// 1列目は日時 (dt)、2列目以降は Vars の順の気象要素です。
func (w *Weather) ToCSV(buf *bytes.Buffer) {
	buf.WriteString("dt")
	for _, v := range w.Vars {
		buf.WriteString(",")
		buf.WriteString(v)
	}
	buf.WriteString("\n")

	writeFloat := func(v float64) {
		buf.WriteString(",")
		buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	for i := 0; i < w.Len(); i++ {
		buf.WriteString(w.Date[i].Format("2006-01-02 15:04:05"))
		for _, v := range w.Vars {
			writeFloat(w.Data[v][i])
		}
		buf.WriteString("\n")
	}
}
