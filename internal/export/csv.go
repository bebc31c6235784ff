package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/fdpde/internal/storage"
)

// WriteCSV writes s in long form, one "index,time,x,value" row per node.
func WriteCSV(w io.Writer, s *storage.Surface) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "time", "x", "value"}); err != nil {
		return err
	}
	for i, layer := range s.Values {
		idx := strconv.Itoa(s.TimeIndices[i])
		t := strconv.FormatFloat(s.Times[i], 'g', -1, 64)
		for j, v := range layer {
			row := []string{idx, t, strconv.FormatFloat(s.Space[j], 'g', -1, 64), strconv.FormatFloat(v, 'g', -1, 64)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
