// Package writers renders simulation results.
package writers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/verte-zerg/soilwb/internal/balance"
)

// Header is the column layout of the result table.
var Header = []string{
	"Day",
	"Rainfall (mm)",
	"Runoff + Excess (mm)",
	"Crop Water Uptake (mm)",
	"Soil Moisture (mm)",
	"Percolation to Groundwater (mm)",
}

// OutputName returns the default result file name for a soil.
func OutputName(soil balance.Soil) string {
	return fmt.Sprintf("soil_water_balance_%s.csv", soil)
}

// FormatFloat renders v with precision decimal places, or in shortest
// round-trip form when precision is negative.
func FormatFloat(v float64, precision int) string {
	if precision < 0 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(int32(precision))
}

// WriteDailyCSV writes the header and one row per record.
func WriteDailyCSV(w io.Writer, records []balance.DailyRecord, precision int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	row := make([]string, len(Header))
	for _, r := range records {
		row[0] = strconv.Itoa(r.Day)
		row[1] = FormatFloat(r.Rainfall, precision)
		row[2] = FormatFloat(r.RunoffExcess, precision)
		row[3] = FormatFloat(r.Uptake, precision)
		row[4] = FormatFloat(r.SoilMoisture, precision)
		row[5] = FormatFloat(r.Percolation, precision)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSeriesCSV writes a Day column and one rainfall column named column.
func WriteSeriesCSV(w io.Writer, column string, values []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Day", column}); err != nil {
		return err
	}
	for i, v := range values {
		if err := cw.Write([]string{strconv.Itoa(i + 1), FormatFloat(v, -1)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
