package isotope

// Approximate values, for teaching purposes.
var builtin = MustNew(
	Record{
		ID:           "C-14",
		Name:         "Carbon-14",
		HalfLife:     5730,
		HalfLifeUnit: Years,
		DecayMode:    "β⁻",
		Applications: "Radiocarbon dating in archaeology and geology.",
	},
	Record{
		ID:           "U-238",
		Name:         "Uranium-238",
		HalfLife:     4.468e9,
		HalfLifeUnit: Years,
		DecayMode:    "α",
		Applications: "Geological clocks and a source of Earth's internal heat.",
	},
	Record{
		ID:           "I-131",
		Name:         "Iodine-131",
		HalfLife:     8.02,
		HalfLifeUnit: Days,
		DecayMode:    "β⁻, γ",
		Applications: "Diagnosis and treatment of thyroid disorders.",
	},
	Record{
		ID:           "Co-60",
		Name:         "Cobalt-60",
		HalfLife:     5.27,
		HalfLifeUnit: Years,
		DecayMode:    "β⁻, γ",
		Applications: "Radiotherapy and industrial gamma radiography.",
	},
	Record{
		ID:           "Tc-99m",
		Name:         "Technetium-99m",
		HalfLife:     6,
		HalfLifeUnit: Hours,
		DecayMode:    "isomeric transition → γ",
		Applications: "Medical imaging (nuclear medicine).",
	},
	Record{
		ID:           "Cs-137",
		Name:         "Caesium-137",
		HalfLife:     30.17,
		HalfLifeUnit: Years,
		DecayMode:    "β⁻, γ",
		Applications: "Detector calibration and environmental tracing.",
	},
	Record{
		ID:           "Rn-222",
		Name:         "Radon-222",
		HalfLife:     3.8235,
		HalfLifeUnit: Days,
		DecayMode:    "α",
		Applications: "Tracer in ventilation studies and geophysics.",
	},
	Record{
		ID:           "Pu-239",
		Name:         "Plutonium-239",
		HalfLife:     24100,
		HalfLifeUnit: Years,
		DecayMode:    "α",
		Applications: "Reactor fuel and neutron sources.",
	},
)

// Default returns the built-in registry. It is created once at package
// initialization and shared by every caller.
func Default() *Registry { return builtin }
