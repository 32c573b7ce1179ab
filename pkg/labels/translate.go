package labels

import (
	"strings"
	"unicode"
)

// turkishNames maps the general-purpose model's English class names to the
// localized display vocabulary. Names absent from the map fall back to
// Display formatting.
var turkishNames = map[string]string{
	"Music":                      "Müzik",
	"Musical instrument":         "Müzik aleti",
	"Guitar":                     "Gitar",
	"Acoustic guitar":            "Akustik gitar",
	"Electric guitar":            "Elektro gitar",
	"Bass guitar":                "Bas gitar",
	"Steel guitar, slide guitar": "Slayt gitar",
	"Banjo":                      "Banço",
	"Mandolin":                   "Mandolin",
	"Ukulele":                    "Ukulele",
	"Sitar":                      "Sitar",
	"Strum":                      "Tınlama",
	"Piano":                      "Piyano",
	"Electric piano":             "Elektro piyano",
	"Keyboard (musical)":         "Klavye",
	"Organ":                      "Org",
	"Electronic organ":           "Elektronik org",
	"Synthesizer":                "Sentezleyici",
	"Harpsichord":                "Klavsen",
	"Drum kit":                   "Bateri",
	"Drum":                       "Davul",
	"Snare drum":                 "Trampet",
	"Bass drum":                  "Bas davul",
	"Timpani":                    "Timpani",
	"Tabla":                      "Tabla",
	"Cymbal":                     "Zil",
	"Hi-hat":                     "Hi-hat",
	"Tambourine":                 "Tef",
	"Marimba, xylophone":         "Ksilofon",
	"Glockenspiel":               "Çelik çalgı",
	"Vibraphone":                 "Vibrafon",
	"Violin, fiddle":             "Keman",
	"Cello":                      "Çello",
	"Double bass":                "Kontrbas",
	"Harp":                       "Arp",
	"Trumpet":                    "Trompet",
	"Trombone":                   "Trombon",
	"French horn":                "Korno",
	"Saxophone":                  "Saksofon",
	"Clarinet":                   "Klarnet",
	"Oboe":                       "Obua",
	"Flute":                      "Flüt",
	"Bagpipes":                   "Gayda",
	"Accordion":                  "Akordeon",
	"Harmonica":                  "Mızıka",
	"Didgeridoo":                 "Didgeridoo",
	"Bell":                       "Çan",
	"Singing":                    "Şarkı söyleme",
	"Choir":                      "Koro",
	"Whistling":                  "Islık",
	"Speech":                     "Konuşma",
	"Silence":                    "Sessizlik",
}

// instrumentWhitelist is the closed vocabulary of instrument-category labels
// the general-purpose pipeline may report. Highly ranked non-instrument
// classes (speech, ambient noise, generic music) are skipped during top-K
// selection without consuming a slot.
var instrumentWhitelist = map[string]struct{}{
	"Gitar":          {},
	"Akustik gitar":  {},
	"Elektro gitar":  {},
	"Bas gitar":      {},
	"Slayt gitar":    {},
	"Banço":          {},
	"Mandolin":       {},
	"Ukulele":        {},
	"Sitar":          {},
	"Piyano":         {},
	"Elektro piyano": {},
	"Klavye":         {},
	"Org":            {},
	"Elektronik org": {},
	"Sentezleyici":   {},
	"Klavsen":        {},
	"Bateri":         {},
	"Davul":          {},
	"Trampet":        {},
	"Bas davul":      {},
	"Timpani":        {},
	"Tabla":          {},
	"Zil":            {},
	"Hi-hat":         {},
	"Tef":            {},
	"Ksilofon":       {},
	"Çelik çalgı":    {},
	"Vibrafon":       {},
	"Keman":          {},
	"Çello":          {},
	"Kontrbas":       {},
	"Arp":            {},
	"Trompet":        {},
	"Trombon":        {},
	"Korno":          {},
	"Saksofon":       {},
	"Klarnet":        {},
	"Obua":           {},
	"Flüt":           {},
	"Gayda":          {},
	"Akordeon":       {},
	"Mızıka":         {},
	"Didgeridoo":     {},
}

// Translate maps an English class name into the localized vocabulary.
// Unknown names fall back to Display formatting.
func Translate(name string) string {
	if localized, ok := turkishNames[name]; ok {
		return localized
	}
	return Display(name)
}

// Display converts a raw class name to a presentable label: underscores
// become spaces and the first letter is capitalized.
func Display(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	runes := []rune(name)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// IsInstrument reports whether a localized label belongs to the instrument
// whitelist.
func IsInstrument(label string) bool {
	_, ok := instrumentWhitelist[label]
	return ok
}
