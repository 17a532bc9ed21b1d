package qeeg

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
)

// WriteCSV writes all numerical results to w as CSV sections. It only reads
// the result; rendering and report layout stay with the caller.
func WriteCSV(w io.Writer, result *AnalysisResult) error {
	cw := csv.NewWriter(w)

	bandHeader := []string{"Channel"}
	for _, band := range Bands() {
		bandHeader = append(bandHeader, band.String())
	}

	writeRow := func(fields ...string) {
		cw.Write(fields)
	}

	writeRow("=== Artifact Rejection ===")
	threshold := "none"
	if !math.IsInf(result.Artifacts.ThresholdUV, 1) {
		threshold = fmt.Sprintf("%.0f uV", result.Artifacts.ThresholdUV)
	}
	writeRow(
		fmt.Sprintf("Threshold: %s", threshold),
		fmt.Sprintf("Clean epochs: %d/%d", result.Artifacts.CleanEpochs, result.Artifacts.TotalEpochs),
		fmt.Sprintf("Rejected: %.1f%%", result.Artifacts.PercentRejected()),
	)
	writeRow()

	writeRow("=== Band Powers (Absolute) ===")
	cw.Write(bandHeader)
	for i, ch := range result.ChannelNames {
		row := []string{ch}
		for _, band := range Bands() {
			row = append(row, fmt.Sprintf("%.6e", result.BandPowers[band][i]))
		}
		cw.Write(row)
	}
	writeRow()

	writeRow("=== Relative Powers ===")
	cw.Write(bandHeader)
	for i, ch := range result.ChannelNames {
		row := []string{ch}
		for _, band := range Bands() {
			row = append(row, fmt.Sprintf("%.4f", result.RelativePowers[band][i]))
		}
		cw.Write(row)
	}
	writeRow()

	writeRow("=== Z-Scores (within-subject) ===")
	cw.Write(bandHeader)
	for i, ch := range result.ChannelNames {
		row := []string{ch}
		for _, band := range Bands() {
			row = append(row, fmt.Sprintf("%.3f", result.ZScores[band][i]))
		}
		cw.Write(row)
	}
	writeRow()

	writeRow("=== Hemispheric Asymmetry (ln(R) - ln(L)) ===")
	pairHeader := []string{"Pair"}
	for _, band := range Bands() {
		pairHeader = append(pairHeader, band.String())
	}
	cw.Write(pairHeader)
	for pairIdx, value := range result.Asymmetry[Delta] {
		row := []string{fmt.Sprintf("%s-%s", value.Left, value.Right)}
		for _, band := range Bands() {
			row = append(row, fmt.Sprintf("%.4f", result.Asymmetry[band][pairIdx].Value))
		}
		cw.Write(row)
	}
	writeRow()

	writeRow("=== Peak Frequencies ===")
	cw.Write([]string{"Channel", "Alpha Peak (Hz)", "Dominant Freq (Hz)"})
	for i, ch := range result.ChannelNames {
		cw.Write([]string{
			ch,
			fmt.Sprintf("%.2f", result.PeakFreqs[i].AlphaPeak),
			fmt.Sprintf("%.2f", result.PeakFreqs[i].Dominant),
		})
	}

	cw.Flush()
	return cw.Error()
}
