package recording

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/blocklab/blocksim/sim"
)

// A CSVLogWriter stores simulation logs into a CSV file, one column per
// signal and one row per sampling instant.
type CSVLogWriter struct {
	path string
	file *os.File
}

// NewCSVLogWriter creates a CSVLogWriter that writes to path. If path is
// empty, a unique name is generated.
func NewCSVLogWriter(path string) *CSVLogWriter {
	return &CSVLogWriter{path: path}
}

// Init creates the CSV file. The file must not exist yet. The file is closed
// when the process exits.
func (w *CSVLogWriter) Init() {
	if w.path == "" {
		w.path = "blocksim_log_" + xid.New().String()
	}

	filename := w.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	w.file = file

	atexit.Register(func() {
		w.Close()
	})
}

// WriteLog writes the whole log into the file.
func (w *CSVLogWriter) WriteLog(l *sim.Log) error {
	cw := csv.NewWriter(w.file)

	keys := l.Keys()
	if err := cw.Write(keys); err != nil {
		return err
	}

	for i := 0; i < l.Len(); i++ {
		row := make([]string, 0, len(keys))
		for _, k := range keys {
			row = append(row,
				strconv.FormatFloat(l.Series(k)[i], 'g', -1, 64))
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// Close closes the underlying file. Closing twice is safe.
func (w *CSVLogWriter) Close() {
	if w.file == nil {
		return
	}

	w.file.Close()
	w.file = nil
}
