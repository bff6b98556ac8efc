package console

import (
	"fmt"
	"strings"

	"github.com/insurdesk/backoffice/pkg/records"
)

// Mode is the currently selected operation of a screen. Any mode can be
// switched to any other mode, and switching never clears the draft or
// the result set, so a record can be read first and then edited.
type Mode int

const (
	ModeRead Mode = iota
	ModeCreate
	ModeUpdate
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeRead:
		return "read"
	case ModeUpdate:
		return "update"
	case ModeDelete:
		return "delete"
	}
	return "unknown"
}

func ParseMode(arg string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "create":
		return ModeCreate, nil
	case "read":
		return ModeRead, nil
	case "update":
		return ModeUpdate, nil
	case "delete":
		return ModeDelete, nil
	}
	return ModeRead, fmt.Errorf("unknown operation %q (expected create, read, update or delete)", arg)
}

// EditableFields returns the subset of draft fields that the mode
// exposes for editing. Create exposes everything including the unique
// key, update everything except the key (addressing happens via the
// search key instead), and read/delete expose no draft fields at all.
func (m Mode) EditableFields(s records.Schema) []records.Field {
	switch m {
	case ModeCreate:
		return s.Fields
	case ModeUpdate:
		editable := make([]records.Field, 0, len(s.Fields))
		for _, f := range s.Fields {
			if f.Name != s.Key {
				editable = append(editable, f)
			}
		}
		return editable
	}
	return nil
}

func (m Mode) allowsEdit(s records.Schema, fieldName string) bool {
	for _, f := range m.EditableFields(s) {
		if f.Name == fieldName {
			return true
		}
	}
	return false
}
