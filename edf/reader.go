package edf

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/Q-the-Q/EEG-Viewer/logging"
)

const (
	mainHeaderSize    = 256
	channelHeaderSize = 256
)

// oldToNew maps old 10-20 nomenclature to the current ACNS 2006 names.
var oldToNew = map[string]string{
	"T3": "T7",
	"T4": "T8",
	"T5": "P7",
	"T6": "P8",
}

// labelPrefixes are device prefixes stripped from channel labels, tried in
// order. A prefix is only stripped when something remains afterwards.
var labelPrefixes = []string{"EEG ", "EEG-", "EEG"}

// microvoltUnits are the accepted spellings of a microvolt physical dimension
// (compared case-insensitively after trimming).
var microvoltUnits = map[string]bool{
	"uv":         true,
	"µv":         true,
	"microvolt":  true,
	"microvolts": true,
}

// FormatError reports an unrecoverable problem with the container: a buffer
// too short to hold the declared headers, or a required numeric header field
// that fails to parse.
type FormatError struct {
	Field string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("edf: invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("edf: invalid %s", e.Field)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Decode parses an EDF container from buf and returns the decoded recording
// with all samples converted to volts.
//
// The header layout is fixed-width space-padded ASCII: a 256-byte main header
// followed by one 256-byte header per channel, stored column-major (all labels
// first, then all transducer fields, and so on). Data records follow as
// little-endian signed 16-bit samples, channel-major within each record.
//
// A malformed header yields a *FormatError. A data section that ends
// mid-record is not an error: reading stops at the last complete record and
// the returned recording covers however many full records were present.
func Decode(buf []byte) (*Recording, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "edf_decoder",
	})

	if len(buf) < mainHeaderSize {
		return nil, &FormatError{Field: "header", Err: fmt.Errorf("buffer holds %d bytes, need %d", len(buf), mainHeaderSize)}
	}

	h := headerScanner{buf: buf}

	meta := Metadata{
		Version:     h.text(8),
		PatientID:   h.text(80),
		RecordingID: h.text(80),
		StartDate:   h.text(8),
		StartTime:   h.text(8),
	}

	var err error
	if meta.HeaderBytes, err = h.integer(8); err != nil {
		return nil, &FormatError{Field: "header bytes", Err: err}
	}
	h.skip(44) // reserved

	if meta.DataRecords, err = h.integer(8); err != nil {
		return nil, &FormatError{Field: "data record count", Err: err}
	}
	if meta.RecordDuration, err = h.float(8); err != nil {
		return nil, &FormatError{Field: "record duration", Err: err}
	}
	if meta.NumChannels, err = h.integer(4); err != nil {
		return nil, &FormatError{Field: "channel count", Err: err}
	}
	if meta.NumChannels < 0 {
		return nil, &FormatError{Field: "channel count", Err: fmt.Errorf("negative count %d", meta.NumChannels)}
	}

	if len(buf) < mainHeaderSize+meta.NumChannels*channelHeaderSize {
		return nil, &FormatError{Field: "channel headers", Err: fmt.Errorf("buffer truncated inside channel headers")}
	}

	n := meta.NumChannels

	// Channel header fields are stored column-major across channels.
	labels := h.textColumn(16, n)
	h.skip(80 * n) // transducer type
	units := h.textColumn(8, n)

	physMin, err := h.floatColumn(8, n)
	if err != nil {
		return nil, &FormatError{Field: "physical minimum", Err: err}
	}
	physMax, err := h.floatColumn(8, n)
	if err != nil {
		return nil, &FormatError{Field: "physical maximum", Err: err}
	}
	digMin, err := h.floatColumn(8, n)
	if err != nil {
		return nil, &FormatError{Field: "digital minimum", Err: err}
	}
	digMax, err := h.floatColumn(8, n)
	if err != nil {
		return nil, &FormatError{Field: "digital maximum", Err: err}
	}
	h.skip(80 * n) // prefiltering
	samplesPerRecord, err := h.integerColumn(8, n)
	if err != nil {
		return nil, &FormatError{Field: "samples per record", Err: err}
	}
	for i, spr := range samplesPerRecord {
		if spr < 0 {
			return nil, &FormatError{Field: "samples per record", Err: fmt.Errorf("channel %d: negative count %d", i, spr)}
		}
	}
	h.skip(32 * n) // reserved

	channels := make([]ChannelSeries, n)
	recordSize := 0
	for i := range channels {
		scale, offset := 0.0, 0.0
		if digRange := digMax[i] - digMin[i]; digRange != 0 {
			scale = (physMax[i] - physMin[i]) / digRange
			offset = physMin[i] - digMin[i]*scale
		}
		channels[i] = ChannelSeries{
			Name:             cleanLabel(labels[i]),
			Unit:             units[i],
			Scale:            scale,
			Offset:           offset,
			SamplesPerRecord: samplesPerRecord[i],
		}
		recordSize += samplesPerRecord[i] * 2
	}

	// Read as many complete data records as the buffer holds. A record cut
	// off by the end of the buffer stops reading; it is not an error. A
	// negative declared count means the writer did not know it; read whatever
	// is there.
	records := meta.DataRecords
	if recordSize > 0 {
		available := (len(buf) - h.pos) / recordSize
		if records < 0 {
			logger.Warn("declared record count unknown, reading available records", logging.Fields{
				"declared_records": meta.DataRecords,
				"complete_records": available,
			})
			records = available
		} else if available < records {
			logger.Warn("data section truncated", logging.Fields{
				"declared_records": meta.DataRecords,
				"complete_records": available,
			})
			records = available
		}
	}
	if records < 0 {
		logger.Warn("declared record count negative with empty records, treating as zero", logging.Fields{
			"declared_records": meta.DataRecords,
		})
		records = 0
	}

	for i := range channels {
		channels[i].Samples = make([]float64, 0, records*channels[i].SamplesPerRecord)
	}

	pos := h.pos
	for rec := 0; rec < records; rec++ {
		for i := range channels {
			ch := &channels[i]
			for s := 0; s < ch.SamplesPerRecord; s++ {
				raw := int16(binary.LittleEndian.Uint16(buf[pos : pos+2]))
				ch.Samples = append(ch.Samples, float64(raw)*ch.Scale+ch.Offset)
				pos += 2
			}
		}
	}

	// Rescale microvolt channels so every stored sample is in volts.
	for i := range channels {
		if microvoltUnits[strings.ToLower(strings.TrimSpace(channels[i].Unit))] {
			for s := range channels[i].Samples {
				channels[i].Samples[s] *= 1e-6
			}
		}
	}

	if n > 0 && meta.RecordDuration > 0 {
		meta.SampleRate = float64(samplesPerRecord[0]) / meta.RecordDuration
	}
	meta.Duration = float64(records) * meta.RecordDuration
	meta.DataRecords = records

	logger.Debug("recording decoded", logging.Fields{
		"channels":    n,
		"records":     records,
		"sample_rate": meta.SampleRate,
		"duration":    meta.Duration,
	})

	return &Recording{Metadata: meta, Channels: channels}, nil
}

// cleanLabel strips a device prefix and renames legacy 10-20 labels.
func cleanLabel(label string) string {
	name := label
	for _, prefix := range labelPrefixes {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}
	if renamed, ok := oldToNew[name]; ok {
		return renamed
	}
	return name
}

// headerScanner walks the fixed-width ASCII header fields of the container.
type headerScanner struct {
	buf []byte
	pos int
}

func (h *headerScanner) text(width int) string {
	s := strings.TrimSpace(string(h.buf[h.pos : h.pos+width]))
	h.pos += width
	return s
}

func (h *headerScanner) skip(width int) {
	h.pos += width
}

func (h *headerScanner) integer(width int) (int, error) {
	s := h.text(width)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return v, nil
}

func (h *headerScanner) float(width int) (float64, error) {
	s := h.text(width)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

func (h *headerScanner) textColumn(width, n int) []string {
	col := make([]string, n)
	for i := range col {
		col[i] = h.text(width)
	}
	return col
}

func (h *headerScanner) integerColumn(width, n int) ([]int, error) {
	col := make([]int, n)
	for i := range col {
		v, err := h.integer(width)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		col[i] = v
	}
	return col, nil
}

func (h *headerScanner) floatColumn(width, n int) ([]float64, error) {
	col := make([]float64, n)
	for i := range col {
		v, err := h.float(width)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		col[i] = v
	}
	return col, nil
}
