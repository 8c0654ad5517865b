package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/soilwb/internal/balance"
	"github.com/verte-zerg/soilwb/internal/model"
	"github.com/verte-zerg/soilwb/internal/writers"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders a single-line ASCII sparkline for the values, scaled
// between their min and max.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample reduces values to at most width points by averaging buckets.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return append([]float64(nil), values...)
	}
	out := make([]float64, width)
	for i := range out {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// SoilMoistureSeries extracts end-of-day soil moisture.
func SoilMoistureSeries(records []balance.DailyRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.SoilMoisture
	}
	return out
}

// RenderSummary prints the season totals of one soil.
func RenderSummary(w io.Writer, soil balance.Soil, sum balance.Summary) error {
	lines := []string{
		fmt.Sprintf("Summary (%s)", soil),
		fmt.Sprintf("Days: %d", sum.Days),
		fmt.Sprintf("Rainfall: %.2f mm", sum.Rainfall),
		fmt.Sprintf("Runoff + Excess: %.2f mm", sum.RunoffExcess),
		fmt.Sprintf("Crop Water Uptake: %.2f mm", sum.Uptake),
		fmt.Sprintf("Percolation: %.2f mm", sum.Percolation),
		fmt.Sprintf("Final Soil Moisture: %.2f mm", sum.FinalSoilMoisture),
		fmt.Sprintf("Peak Soil Moisture: %.2f mm", sum.PeakSoilMoisture),
		fmt.Sprintf("Stress Days: %d", sum.StressDays),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RunTableHeaders are the columns of the run history table.
var RunTableHeaders = []string{"ID", "Date", "Soil", "Days", "Rain", "Runoff", "Uptake", "Perc", "Final SM", "Stress"}

// RunTableRows formats runs for a table.
func RunTableRows(runs []model.RunAggregate) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		sum := run.Summary
		rows = append(rows, []string{
			strconv.FormatInt(run.RunID, 10),
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(run.Soil),
			strconv.Itoa(sum.Days),
			fmt.Sprintf("%.1f", sum.Rainfall),
			fmt.Sprintf("%.1f", sum.RunoffExcess),
			fmt.Sprintf("%.1f", sum.Uptake),
			fmt.Sprintf("%.1f", sum.Percolation),
			fmt.Sprintf("%.1f", sum.FinalSoilMoisture),
			strconv.Itoa(sum.StressDays),
		})
	}
	return rows
}

// RenderRunTable prints the run history.
func RenderRunTable(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	rightAlign := map[int]bool{0: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true, 9: true}
	for _, line := range formatTable(RunTableHeaders, RunTableRows(runs), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderDayTable prints daily records with the result file's columns.
func RenderDayTable(w io.Writer, records []balance.DailyRecord, precision int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No days recorded.")
		return err
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Day),
			writers.FormatFloat(r.Rainfall, precision),
			writers.FormatFloat(r.RunoffExcess, precision),
			writers.FormatFloat(r.Uptake, precision),
			writers.FormatFloat(r.SoilMoisture, precision),
			writers.FormatFloat(r.Percolation, precision),
		})
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(writers.Header, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSoils prints the soil profiles and the runoff bands of params.
func RenderSoils(w io.Writer, params *balance.Params) error {
	rows := make([][]string, 0, len(balance.Soils))
	for _, soil := range balance.Soils {
		profile, err := params.Profile(soil)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			string(soil),
			fmt.Sprintf("%.0f", profile.Capacity),
			fmt.Sprintf("%.0f%%", profile.GroundwaterFraction*100),
		})
	}
	lines := formatTable([]string{"Soil", "Capacity (mm)", "Percolation"}, rows, map[int]bool{1: true, 2: true})
	lines = append(lines, "", fmt.Sprintf("Crop water uptake: %.1f mm/day", params.CropUptake), "")

	bands := make([][]string, 0, len(params.Runoff))
	for _, band := range params.Runoff {
		high := "-"
		if !math.IsInf(band.High, 1) {
			high = fmt.Sprintf("%.0f", band.High)
		}
		bands = append(bands, []string{
			fmt.Sprintf("%.0f", band.Low),
			high,
			fmt.Sprintf("%.1f", band.Coefficient),
		})
	}
	lines = append(lines, formatTable([]string{"Rain from (mm)", "Rain below (mm)", "Runoff coeff"}, bands, map[int]bool{0: true, 1: true, 2: true})...)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
