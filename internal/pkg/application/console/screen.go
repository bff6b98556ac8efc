package console

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/insurdesk/backoffice/pkg/records"
	"github.com/insurdesk/backoffice/pkg/records/client"
	"github.com/insurdesk/backoffice/pkg/records/errors"
)

// Screen holds the complete state of one entity screen: the selected
// operation, the editable draft, the search key, the result set of the
// last dispatched operation and the loading flag. All mutations go
// through its methods, which keeps impossible combinations (such as a
// cleared loading flag with a half applied result) out of reach.
type Screen struct {
	schema records.Schema
	client client.RecordClient
	now    func() time.Time

	mu        sync.Mutex
	mode      Mode
	draft     records.Record
	searchKey string
	resultSet []records.Record
	loading   bool

	// generation tags every dispatch; a completion is applied only
	// if no newer dispatch has been issued since.
	generation     uint64
	cancelInflight context.CancelFunc
}

// Outcome describes a successfully completed dispatch.
type Outcome struct {
	Mode    Mode
	Message string
}

func WithClock(now func() time.Time) func(*Screen) {
	return func(s *Screen) {
		s.now = now
	}
}

func NewScreen(schema records.Schema, c client.RecordClient, options ...func(*Screen)) *Screen {
	s := &Screen{
		schema: schema,
		client: c,
		now:    time.Now,
		mode:   ModeRead,
	}

	for _, option := range options {
		option(s)
	}

	s.draft = schema.NewDraft(s.now())

	return s
}

func (s *Screen) Schema() records.Schema {
	return s.schema
}

func (s *Screen) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SelectMode switches the screen to another operation. The draft, the
// search key and the result set all survive the switch.
func (s *Screen) SelectMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

func (s *Screen) SearchKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchKey
}

func (s *Screen) SetSearchKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchKey = strings.TrimSpace(key)
}

// EditField parses raw input for the named field and stores the typed
// value in the draft. Only fields that the selected mode exposes can be
// edited; in particular the unique key is frozen outside create mode.
func (s *Screen) EditField(name, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.schema.Field(name); !ok {
		return fmt.Errorf("%s has no field named %q", s.schema.Type, name)
	}

	if !s.mode.allowsEdit(s.schema, name) {
		return fmt.Errorf("field %q is not editable in %s mode", name, s.mode)
	}

	value, err := s.schema.ParseInput(name, raw, s.now())
	if err != nil {
		return errors.NewValidationError(err.Error())
	}

	s.draft[name] = value
	return nil
}

func (s *Screen) Draft() records.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// ResultSet returns the records produced by the last dispatched
// operation, or nil if there has been none (or the last one was a
// delete).
func (s *Screen) ResultSet() []records.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultSet
}

func (s *Screen) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Dispatch validates the local preconditions for the selected mode and
// issues exactly one request. A validation failure short circuits
// before any network activity. Issuing a dispatch supersedes any still
// running one: the older request is cancelled and its response, should
// it still arrive, is discarded rather than applied to the result set.
func (s *Screen) Dispatch(ctx context.Context) (Outcome, error) {
	s.mu.Lock()

	mode := s.mode
	searchKey := s.searchKey
	draft := s.draft.Clone()

	if err := precondition(s.schema, mode, searchKey, draft); err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}

	s.generation++
	generation := s.generation

	if s.cancelInflight != nil {
		s.cancelInflight()
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancelInflight = cancel
	s.loading = true

	s.mu.Unlock()

	outcome, resultSet, err := s.perform(ctx, mode, searchKey, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer cancel()

	if generation != s.generation {
		// a newer dispatch owns the screen now
		return outcome, err
	}

	s.loading = false
	s.cancelInflight = nil

	if err != nil {
		return Outcome{}, err
	}

	s.resultSet = resultSet
	return outcome, nil
}

func (s *Screen) perform(ctx context.Context, mode Mode, searchKey string, draft records.Record) (Outcome, []records.Record, error) {
	switch mode {
	case ModeCreate:
		created, err := s.client.Create(ctx, draft)
		if err != nil {
			return Outcome{}, nil, err
		}
		return Outcome{
			Mode:    mode,
			Message: fmt.Sprintf("%s %s created", strings.ToLower(s.schema.Type), created.Key(s.schema)),
		}, []records.Record{created}, nil

	case ModeUpdate:
		updated, err := s.client.Update(ctx, searchKey, draft)
		if err != nil {
			return Outcome{}, nil, err
		}
		return Outcome{
			Mode:    mode,
			Message: fmt.Sprintf("%s %s updated", strings.ToLower(s.schema.Type), searchKey),
		}, []records.Record{updated}, nil

	case ModeDelete:
		message, err := s.client.Delete(ctx, searchKey)
		if err != nil {
			return Outcome{}, nil, err
		}
		// the result set is cleared, never populated from the
		// deletion response
		return Outcome{Mode: mode, Message: message}, nil, nil

	default:
		resultSet, err := s.client.Query(ctx, searchKey)
		if err != nil {
			return Outcome{}, nil, err
		}
		return Outcome{Mode: mode}, resultSet, nil
	}
}

func precondition(schema records.Schema, mode Mode, searchKey string, draft records.Record) error {
	switch mode {
	case ModeCreate:
		if err := schema.ValidateDraft(draft); err != nil {
			return errors.NewValidationError(err.Error())
		}
	case ModeUpdate, ModeDelete:
		if searchKey == "" {
			return errors.NewValidationError(
				fmt.Sprintf("a %s is required to %s a %s", schema.KeyField().Label, mode, strings.ToLower(schema.Type)),
			)
		}
	}
	return nil
}
