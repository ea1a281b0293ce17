package extract

// Domain lexicon seeded from common engineered-system vocabulary. The
// lexicon only suggests entities the utterance actually mentions; it is
// never used to invent content.

// componentNouns are bare nouns that read as component mentions.
var componentNouns = []string{
	"engine", "motor", "pump", "valve", "sensor", "controller", "battery",
	"tank", "compressor", "fan", "alternator", "radiator", "turbine",
	"generator", "heater", "cooler", "actuator",
}

// componentAliases normalize equivalent spellings to one canonical name.
var componentAliases = map[string]string{
	"ac":               "AcSystem",
	"a/c":              "AcSystem",
	"air conditioning": "AcSystem",
	"air conditioner":  "AcSystem",
	"hvac":             "AcSystem",
	"v6":               "Engine",
	"v8":               "Engine",
}

// stateNouns are recognized bare state-variable names with plausible
// defaults, used only when the utterance names the state without a value.
var stateNouns = map[string]float64{
	"temperature": 90.0,
	"temp":        90.0,
	"pressure":    100.0,
	"rpm":         1800.0,
	"speed":       1800.0,
	"voltage":     12.0,
	"current":     5.0,
	"flow_rate":   10.0,
	"power":       200.0,
	"efficiency":  0.85,
	"torque":      300.0,
	"vibration":   0.1,
	"accuracy":    0.95,
	"position":    50.0,
	"charge":      80.0,
	"fuel":        50.0,
	"capacity":    100.0,
}

// stateNounAliases fold variant spellings onto canonical state names.
var stateNounAliases = map[string]string{
	"temp":      "temperature",
	"flow rate": "flow_rate",
	"flowrate":  "flow_rate",
}

// faultVerbs map capability verbs ("can overheat") to fault mode names.
var faultVerbs = map[string]string{
	"explode":     "explosion",
	"combust":     "combustion",
	"fail":        "mechanical_failure",
	"break":       "mechanical_failure",
	"malfunction": "malfunction",
	"overheat":    "overheating",
	"leak":        "leak",
	"stick":       "stuck",
	"stall":       "stall",
	"seize":       "seizure",
}

// faultNouns are recognized bare fault-mode names. Deliberately no bare
// "failure": it appears inside too many compound phrases to stand alone.
var faultNouns = []string{
	"explosion", "combustion", "malfunction",
	"overheating", "leak", "dropout", "cavitation", "seal_leak",
	"motor_failure", "bearing_wear", "short_circuit", "corrosion",
	"blockage", "fatigue",
}
