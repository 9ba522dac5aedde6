package config

// Default pattern sets and lookup tables. Everything here is overridable
// through the config file; these are the values the scout ships with.

var defaultUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// defaultCities maps known city names to canton codes. Bienne/Biel map to BE
// on purpose: they resolve, but resolve outside Romandie.
var defaultCities = map[string]string{
	"Geneva":            "GE",
	"Genève":            "GE",
	"Lausanne":          "VD",
	"Sion":              "VS",
	"Neuchatel":         "NE",
	"Neuchâtel":         "NE",
	"Fribourg":          "FR",
	"Yverdon":           "VD",
	"Yverdon-les-Bains": "VD",
	"Montreux":          "VD",
	"Nyon":              "VD",
	"Morges":            "VD",
	"Vevey":             "VD",
	"Renens":            "VD",
	"Prilly":            "VD",
	"Bienne":            "BE",
	"Biel":              "BE",
	"Delémont":          "JU",
	"Sierre":            "VS",
	"Martigny":          "VS",
	"Monthey":           "VS",
}

var defaultDisciplineKeywords = map[string][]string{
	"process": {
		"process engineer",
		"process engineering",
		"chemical engineer",
		"manufacturing engineer",
	},
	"automation": {
		"automation engineer",
		"automation engineering",
		"control engineer",
		"control systems",
		"instrumentation engineer",
		"plc",
		"scada",
		"dcs",
	},
	"energy": {
		"energy engineer",
		"energy engineering",
		"power engineer",
		"power systems",
		"renewable energy",
		"electrical engineer",
	},
}

var defaultFrenchPatterns = []string{
	`(?i)\bfrançais\b`,
	`(?i)\bfrancais\b`,
	`(?i)\bfrench\s*(:|required|fluent|native|courant|mandatory)`,
	`(?i)\blangue\s+maternelle\b`,
	`(?i)\bcourant\s+requis\b`,
}

var defaultGermanPatterns = []string{
	`(?i)\bgerman\s*(:|required|fluent|native|mandatory)`,
	`(?i)\bdeutsch\b`,
	`(?i)\ballemand\b`,
	`(?i)\bmuttersprache\b`,
	`(?i)\bfließend\b`,
}

var defaultSeniorPatterns = []string{
	`(?i)\bsenior\b`,
	`(?i)\blead\b`,
	`(?i)\bprincipal\b`,
	`(?i)\bmanager\b`,
	`(?i)\bdirector\b`,
}

var defaultEntryLevelPatterns = []string{
	`(?i)\bentry[- ]level\b`,
	`(?i)\bjunior\b`,
	`(?i)\bgraduate\b`,
	`(?i)\brecent graduate\b`,
	`(?i)\btrainee\b`,
	`(?i)\bintern(?:ship)?\b`,
	`(?i)\b0[- ]?2\s*years?\b`,
	`(?i)\b1[- ]?2\s*years?\b`,
	`(?i)\b0[- ]?1\s*years?\b`,
}

var defaultEnrollmentPatterns = []string{
	`(?i)\bcurrently\s+enrolled\b`,
	`(?i)\bmust\s+be\s+enrolled\b`,
	`(?i)\bactive\s+student\b`,
	`(?i)\bregistered\s+student\b`,
	`(?i)\benrolled\s+in\s+a\s+(university|master|bachelor|degree)\b`,
}

var defaultInternshipPatterns = []string{
	`(?i)\bintern(?:ship)?\b`,
	`(?i)\bstage\b`,
	`(?i)\bstagiaire\b`,
}
