package records

import (
	"fmt"
	"strings"
	"time"
)

type FieldKind int

const (
	KindString FieldKind = iota
	KindDecimal
	KindDate
	KindEnum
)

// Field describes a single named attribute of a record type.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Enum     []string
	Required bool

	// NotFuture rejects date values after the current date.
	NotFuture bool
}

// Schema describes one record type: its REST resource, its unique key
// field and the full set of attributes. The console instantiates one
// screen per schema, so adding a record type is a matter of adding a
// schema, not a screen implementation.
type Schema struct {
	Type     string
	Resource string
	Key      string
	Fields   []Field
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) KeyField() Field {
	f, _ := s.Field(s.Key)
	return f
}

// NewDraft returns a draft record with the schema's default values:
// empty strings, zero amounts, today's date and the first enum member.
func (s Schema) NewDraft(now time.Time) Record {
	draft := Record{}

	for _, f := range s.Fields {
		switch f.Kind {
		case KindDecimal:
			draft[f.Name] = float64(0)
		case KindDate:
			draft[f.Name] = now.Format(DateLayout)
		case KindEnum:
			draft[f.Name] = f.Enum[0]
		default:
			draft[f.Name] = ""
		}
	}

	return draft
}

// ValidateDraft checks the create time preconditions for a draft. Every
// required field must hold a non-empty (or non-zero) value.
func (s Schema) ValidateDraft(r Record) error {
	missing := make([]string, 0, len(s.Fields))

	for _, f := range s.Fields {
		if !f.Required {
			continue
		}

		value, ok := r[f.Name]
		if !ok || isZeroValue(f, value) {
			missing = append(missing, f.Name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("required fields are missing or empty: %s", strings.Join(missing, ", "))
	}

	return nil
}

func isZeroValue(f Field, value any) bool {
	switch f.Kind {
	case KindDecimal:
		amount, ok := value.(float64)
		return !ok || amount == 0
	default:
		str, ok := value.(string)
		return !ok || strings.TrimSpace(str) == ""
	}
}
