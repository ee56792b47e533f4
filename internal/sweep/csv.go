package sweep

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteCSV writes one line per offer: offer, price, then quantity and
// response per building, then total load.
func WriteCSV(w io.Writer, res *Result) error {
	cw := csv.NewWriter(w)

	header := []string{"offer", "price"}
	for _, name := range res.Buildings {
		header = append(header, name+"_kw", name+"_response")
	}
	header = append(header, "total_load")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range res.Rows {
		row := []string{fmtFloat(r.Offer), fmtFloat(r.Price)}
		for _, l := range r.Loads {
			row = append(row, fmtFloat(l.Quantity), fmtFloat(l.Response))
		}
		row = append(row, fmtFloat(r.TotalLoad))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the result to path, creating parent directories.
func WriteCSVFile(path string, res *Result) error {
	return writeFile(path, res, WriteCSV)
}

// WriteTableFile is WriteTable into a file at path.
func WriteTableFile(path string, res *Result) error {
	return writeFile(path, res, WriteTable)
}

func writeFile(path string, res *Result, write func(io.Writer, *Result) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
