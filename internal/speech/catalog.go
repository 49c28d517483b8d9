package speech

import "strings"

// Language is a coarse voice language bucket.
type Language string

const (
	Vietnamese Language = "Vietnamese"
	English    Language = "English"
	Chinese    Language = "Chinese"
	Japanese   Language = "Japanese"
	Other      Language = "Other"
)

// Languages lists the buckets in display order.
var Languages = []Language{Vietnamese, English, Chinese, Japanese, Other}

// Gender is a guessed voice gender.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// Genders lists the genders in display order.
var Genders = []Gender{Male, Female}

// Classifier assigns a language bucket and gender to a voice.
type Classifier interface {
	Classify(v Voice) (Language, Gender)
}

// HeuristicClassifier guesses from substrings of the voice name and locale.
// Voices without a feminine marker are reported as Male.
type HeuristicClassifier struct{}

var (
	feminineMarkers = []string{"female", "woman", "girl", "nữ"}
	languageMarkers = []struct {
		lang    Language
		markers []string
	}{
		{Vietnamese, []string{"vietnam", "vi-vn", "vi_vn"}},
		{English, []string{"en-us", "en-gb", "en_us", "en_gb", "english"}},
		{Chinese, []string{"chinese", "zh", "cmn"}},
		{Japanese, []string{"japan", "jp", "ja"}},
	}
)

func (HeuristicClassifier) Classify(v Voice) (Language, Gender) {
	hay := strings.ToLower(v.Name + " " + v.Locale)

	gender := Male
	for _, m := range feminineMarkers {
		if strings.Contains(hay, m) {
			gender = Female
			break
		}
	}
	for _, lm := range languageMarkers {
		for _, m := range lm.markers {
			if strings.Contains(hay, m) {
				return lm.lang, gender
			}
		}
	}
	return Other, gender
}

// Catalog groups voices by language and gender. It is built once and only
// read afterwards.
type Catalog struct {
	all    []Voice
	groups map[Language]map[Gender][]Voice
}

// NewCatalog classifies voices with c (HeuristicClassifier when nil).
// A voice that already carries a language or gender keeps it.
func NewCatalog(voices []Voice, c Classifier) *Catalog {
	if c == nil {
		c = HeuristicClassifier{}
	}
	cat := &Catalog{groups: make(map[Language]map[Gender][]Voice, len(Languages))}
	for _, lang := range Languages {
		cat.groups[lang] = map[Gender][]Voice{Male: nil, Female: nil}
	}
	for _, v := range voices {
		lang, gender := c.Classify(v)
		if _, ok := cat.groups[v.Language]; !ok {
			v.Language = lang
		}
		if v.Gender != Male && v.Gender != Female {
			v.Gender = gender
		}
		cat.all = append(cat.all, v)
		cat.groups[v.Language][v.Gender] = append(cat.groups[v.Language][v.Gender], v)
	}
	return cat
}

// All returns every voice in catalog order.
func (c *Catalog) All() []Voice {
	return append([]Voice(nil), c.all...)
}

// Len returns the number of voices.
func (c *Catalog) Len() int { return len(c.all) }

// Genders returns the genders that have at least one voice for lang.
func (c *Catalog) Genders(lang Language) []Gender {
	var out []Gender
	for _, g := range Genders {
		if len(c.groups[lang][g]) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// Voices returns the voices of one language/gender group.
func (c *Catalog) Voices(lang Language, gender Gender) []Voice {
	return append([]Voice(nil), c.groups[lang][gender]...)
}

// ByID looks up a voice anywhere in the catalog.
func (c *Catalog) ByID(id string) (Voice, bool) {
	for _, v := range c.all {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// First returns the first voice of the catalog.
func (c *Catalog) First() (Voice, bool) {
	if len(c.all) == 0 {
		return Voice{}, false
	}
	return c.all[0], true
}
