package qeeg

// Region groups scalp channels for region-averaged spectra.
type Region string

const (
	RegionFrontal   Region = "Frontal"
	RegionCentral   Region = "Central"
	RegionPosterior Region = "Posterior"
)

var regionMap = map[Region][]string{
	RegionFrontal:   {"Fp1", "Fp2", "F7", "F3", "Fz", "F4", "F8"},
	RegionCentral:   {"T7", "C3", "Cz", "C4", "T8"},
	RegionPosterior: {"P7", "P3", "Pz", "P4", "P8", "O1", "O2"},
}

// RegionChannels returns the standard channel names belonging to a region.
func RegionChannels(region Region) []string {
	channels := regionMap[region]
	out := make([]string, len(channels))
	copy(out, channels)
	return out
}

// AsymmetryPairs returns the homologous left/right electrode pairs used for
// hemispheric asymmetry, as [left, right].
func AsymmetryPairs() [][2]string {
	pairs := [][2]string{
		{"Fp1", "Fp2"},
		{"F7", "F8"},
		{"F3", "F4"},
		{"T7", "T8"},
		{"C3", "C4"},
		{"P7", "P8"},
		{"P3", "P4"},
		{"O1", "O2"},
	}
	return pairs
}
