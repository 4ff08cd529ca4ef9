// Package roll turns the fixed grid of a roll page into records.
package roll

import "github.com/a3tai/roll-extractor/internal/layout"

// Partial is a row as it comes off the page: only fields that produced text
// are present.
type Partial map[string]string

// Record is a normalized row. Every canonical field is present; missing
// fields are empty strings.
type Record struct {
	Name            string `json:"name"`
	NIN             string `json:"nin"`
	Sex             string `json:"sex"`
	Address         string `json:"address"`
	Circumscription string `json:"circumscription"`
	Place           string `json:"place"`
}

// Normalize fills every absent field of p with an empty string. Values
// already present are kept as they are.
func Normalize(p Partial) Record {
	return Record{
		Name:            p[layout.FieldName],
		NIN:             p[layout.FieldNIN],
		Sex:             p[layout.FieldSex],
		Address:         p[layout.FieldAddress],
		Circumscription: p[layout.FieldCircumscription],
		Place:           p[layout.FieldPlace],
	}
}

// NormalizeAll normalizes a page worth of rows, keeping their order.
func NormalizeAll(rows []Partial) []Record {
	records := make([]Record, 0, len(rows))
	for _, p := range rows {
		records = append(records, Normalize(p))
	}
	return records
}

// Values returns the fields in canonical order.
func (r Record) Values() []string {
	return []string{r.Name, r.NIN, r.Sex, r.Address, r.Circumscription, r.Place}
}

// Map returns the record keyed by canonical field name, always with all six
// keys.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(layout.CanonicalFields))
	for i, v := range r.Values() {
		m[layout.CanonicalFields[i]] = v
	}
	return m
}

// Partial converts the record back into a partial row. Normalizing the
// result yields r again.
func (r Record) Partial() Partial {
	return Partial(r.Map())
}

// Empty reports whether every field is empty.
func (r Record) Empty() bool {
	for _, v := range r.Values() {
		if v != "" {
			return false
		}
	}
	return true
}
