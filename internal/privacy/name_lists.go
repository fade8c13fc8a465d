package privacy

import "strings"

// givenNames and familyNames are a curated, deliberately small set of
// common English, French and Portuguese personal names used to flag
// single- or two-token values that look like a person's name. This list
// is not drawn from a name corpus and is intentionally conservative: it
// catches common names only and is not exhaustive.
var givenNames = map[string]struct{}{
	"john": {}, "mary": {}, "james": {}, "robert": {}, "michael": {}, "william": {},
	"david": {}, "richard": {}, "joseph": {}, "thomas": {}, "charles": {}, "daniel": {},
	"maria": {}, "jose": {}, "jean": {}, "pierre": {}, "marie": {}, "francois": {},
	"muhammad": {}, "aaliyah": {}, "fatima": {}, "ahmed": {}, "wei": {}, "li": {},
	"joao": {}, "antonio": {}, "carlos": {}, "paulo": {}, "ana": {}, "luiz": {},
	"emma": {}, "olivia": {}, "sophia": {}, "isabella": {}, "noah": {}, "liam": {},
}

var familyNames = map[string]struct{}{
	"smith": {}, "johnson": {}, "williams": {}, "brown": {}, "jones": {}, "garcia": {},
	"miller": {}, "davis": {}, "rodriguez": {}, "martinez": {}, "tremblay": {}, "gagnon": {},
	"roy": {}, "cote": {}, "silva": {}, "santos": {}, "oliveira": {}, "souza": {},
	"pereira": {}, "ferreira": {}, "costa": {}, "rodrigues": {}, "almeida": {}, "lima": {},
}

// isLikelyName reports whether value looks like a person's single name or
// a "given family" pair, by curated-list membership only -- no grammar or
// capitalization heuristic, since clinical terms (Treatment, Control) are
// just as often capitalized as real names.
func isLikelyName(value string) bool {
	words := strings.Fields(value)
	if len(words) == 0 || len(words) > 2 {
		return false
	}
	for _, w := range words {
		lower := strings.ToLower(w)
		if _, ok := givenNames[lower]; ok {
			return true
		}
		if _, ok := familyNames[lower]; ok {
			return true
		}
	}
	return false
}
