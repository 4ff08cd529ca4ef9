package output

import "github.com/a3tai/roll-extractor/internal/roll"

// Collector keeps records in memory, page by page
type Collector struct {
	Pages [][]roll.Record
}

// NewCollector returns an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// WritePage stores a copy of the page records
func (c *Collector) WritePage(records []roll.Record) error {
	c.Pages = append(c.Pages, append([]roll.Record(nil), records...))
	return nil
}

// Records returns every collected record in page then row order
func (c *Collector) Records() []roll.Record {
	var all []roll.Record
	for _, page := range c.Pages {
		all = append(all, page...)
	}
	return all
}
