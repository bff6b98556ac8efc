package records

// Record is one entity instance, a mapping from JSON field names to
// typed values. Decimal fields hold float64, everything else strings,
// which matches what encoding/json produces when decoding a response
// body into a map.
type Record map[string]any

func (r Record) Clone() Record {
	clone := make(Record, len(r))
	for name, value := range r {
		clone[name] = value
	}
	return clone
}

// Key returns the record's own unique key value under the given schema.
// Note that the console never uses this for addressing requests; the
// search key serves that purpose.
func (r Record) Key(s Schema) string {
	key, _ := r[s.Key].(string)
	return key
}
