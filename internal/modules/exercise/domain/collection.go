package domain

// Collection is the ordered set of records for one session. Order matches
// on-screen list order.
type Collection struct {
	records []*Record
}

func NewCollection(records ...*Record) *Collection {
	c := &Collection{}
	for _, r := range records {
		c.Append(r)
	}
	return c
}

func (c *Collection) Append(r *Record) {
	c.records = append(c.records, r)
}

// All returns the records in insertion order. The slice is a copy; the
// records are shared.
func (c *Collection) All() []*Record {
	out := make([]*Record, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Collection) Len() int {
	return len(c.records)
}

func (c *Collection) FindByID(id string) (*Record, bool) {
	for _, r := range c.records {
		if r.id == id {
			return r, true
		}
	}
	return nil, false
}

func (c *Collection) ResetAll() {
	c.records = nil
}
