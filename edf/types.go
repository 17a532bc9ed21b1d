package edf

// Metadata holds the recording-level header fields of an EDF container.
// Identity and date/time fields are kept as the opaque trimmed strings the
// header carries; nothing here is parsed as a calendar type.
type Metadata struct {
	Version     string `json:"version"`
	PatientID   string `json:"patient_id"`
	RecordingID string `json:"recording_id"`
	StartDate   string `json:"start_date"`
	StartTime   string `json:"start_time"`
	HeaderBytes int    `json:"header_bytes"`
	DataRecords int    `json:"data_records"`
	// RecordDuration is the duration of one data record in seconds.
	RecordDuration float64 `json:"record_duration"`
	NumChannels    int     `json:"num_channels"`
	// SampleRate in Hz, derived from samples-per-record / record duration.
	SampleRate float64 `json:"sample_rate"`
	// Duration of the full recording in seconds.
	Duration float64 `json:"duration"`
}

// ChannelSeries is one named channel with its decoded samples.
// Samples are always stored in volts regardless of the physical dimension
// declared in the header.
type ChannelSeries struct {
	// Name is the canonical label after prefix stripping and legacy 10-20
	// renaming (T3->T7 etc).
	Name string `json:"name"`
	// Unit is the raw physical dimension string from the header.
	Unit string `json:"unit"`
	// Scale and Offset map a raw digital sample to physical units:
	// physical = raw*Scale + Offset. Both are zero for a flat channel whose
	// digital range is empty.
	Scale  float64 `json:"scale"`
	Offset float64 `json:"offset"`
	// SamplesPerRecord is the channel's sample count per data record.
	SamplesPerRecord int `json:"samples_per_record"`
	// Samples holds the decoded signal in volts.
	Samples []float64 `json:"-"`
}

// Recording is a fully decoded EDF container. It is created once by Decode
// and is read-only afterwards.
type Recording struct {
	Metadata Metadata        `json:"metadata"`
	Channels []ChannelSeries `json:"channels"`
}

// standard1020 is the set of standard 10-20 scalp electrode names (ACNS 2006
// nomenclature). Channels outside this set (ECG, reference, annotations) are
// excluded from EEG analysis.
var standard1020 = map[string]bool{
	"Fp1": true, "Fp2": true,
	"F7": true, "F3": true, "Fz": true, "F4": true, "F8": true,
	"T7": true, "C3": true, "Cz": true, "C4": true, "T8": true,
	"P7": true, "P3": true, "Pz": true, "P4": true, "P8": true,
	"O1": true, "O2": true,
}

// IsStandard1020 reports whether name is a standard 10-20 scalp position.
func IsStandard1020(name string) bool {
	return standard1020[name]
}

// EEGChannels returns the ordered subset of channels whose names are standard
// 10-20 scalp positions.
func (r *Recording) EEGChannels() []ChannelSeries {
	var eeg []ChannelSeries
	for _, ch := range r.Channels {
		if standard1020[ch.Name] {
			eeg = append(eeg, ch)
		}
	}
	return eeg
}

// Channel returns the channel with the given canonical name, or nil if the
// recording has no such channel.
func (r *Recording) Channel(name string) *ChannelSeries {
	for i := range r.Channels {
		if r.Channels[i].Name == name {
			return &r.Channels[i]
		}
	}
	return nil
}
