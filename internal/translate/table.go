package translate

// defaultNames maps known Spanish holiday names to English
var defaultNames = map[string]string{
	// Fixed holidays
	"Año Nuevo":                      "New Year's Day",
	"Día del Trabajador":             "Labor Day",
	"Día de la Revolución de Mayo":   "May Revolution Day",
	"Día de la Independencia":        "Independence Day",
	"Día de la Soberanía Nacional":   "National Sovereignty Day",
	"Inmaculada Concepción de María": "Immaculate Conception of Mary",
	"Navidad":                        "Christmas",

	// Movable holidays
	"Carnaval":          "Carnival",
	"Pascuas":           "Easter",
	"Jueves Santo":      "Holy Thursday",
	"Viernes Santo":     "Good Friday",
	"Día de la Bandera": "Flag Day",

	"Día de la Memoria por la Verdad y la Justicia":             "Day of Remembrance for Truth and Justice",
	"Día Nacional de la Memoria por la Verdad y la Justicia":    "National Day of Remembrance for Truth and Justice",
	"Día del Veterano y de los Caídos en la Guerra de Malvinas": "Veterans Day and Day of the Fallen in the Malvinas War",
	"Día del Respeto a la Diversidad Cultural":                  "Day of Respect for Cultural Diversity",

	"Paso a la Inmortalidad del General Martín Miguel de Güemes": "Passing to Immortality of General Martín Miguel de Güemes",
	"Paso a la Inmortalidad del General Manuel Belgrano":         "Passing to Immortality of General Manuel Belgrano",
	"Paso a la Inmortalidad del General José de San Martín":      "Passing to Immortality of General José de San Martín",

	// Organization days
	"Revolt Day Off": "Revolt Day Off",

	// Bridge holidays
	"Puente turístico no laborable": "Tourist Bridge Holiday",
	"Feriado con fines turísticos":  "Tourist Bridge Holiday",
	"Puente":                        "Bridge Holiday",
}

// kindEntry maps a holiday source type to English
type kindEntry struct {
	spanish string
	english string
}

// kinds is ordered: the first substring hit wins
var kinds = []kindEntry{
	{"inamovible", "fixed"},
	{"trasladable", "movable"},
	{"no laborable", "non-working"},
	{"turístico", "tourist"},
	{"puente", "bridge"},
}
