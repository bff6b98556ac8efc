package console

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	testutils "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"
	"github.com/insurdesk/backoffice/internal/pkg/infrastructure/apistub"
	"github.com/insurdesk/backoffice/pkg/records"
	"github.com/insurdesk/backoffice/pkg/records/client"
	recorderrors "github.com/insurdesk/backoffice/pkg/records/errors"

	"github.com/matryer/is"
)

var Expects = testutils.Expects
var Returns = testutils.Returns
var anyInput = expects.AnyInput

var testNow = func() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestScreen(t *testing.T, resource string) (*is.I, *Screen, func()) {
	is := is.New(t)

	api := httptest.NewServer(apistub.New("backoffice-api-test"))

	schema, ok := records.ByResource(resource)
	is.True(ok)

	screen := NewScreen(schema, client.New(api.URL, resource), WithClock(testNow))

	return is, screen, api.Close
}

func fillClaimDraft(is *is.I, screen *Screen) {
	is.NoErr(screen.EditField("claim_id", "C1"))
	is.NoErr(screen.EditField("description", "fender"))
	is.NoErr(screen.EditField("amount", "500"))
	is.NoErr(screen.EditField("date", "2024-01-01"))
	is.NoErr(screen.EditField("status", "Pending"))
	is.NoErr(screen.EditField("policy_id", "P1"))
}

// newClaimFixture serves the stub with a policyholder and a policy
// already in place, so claim creation passes the foreign key checks.
func newClaimFixture(t *testing.T) (*is.I, *Screen, func()) {
	is := is.New(t)

	api := httptest.NewServer(apistub.New("backoffice-api-test"))

	seed := func(resource string, body string) {
		resp, err := http.Post(api.URL+"/"+resource, "application/json", strings.NewReader(body))
		is.NoErr(err)
		resp.Body.Close()
		is.Equal(resp.StatusCode, http.StatusCreated)
	}

	seed("policyholders", `{"policyholder_id":"PH1","name":"Ada","contact_info":"ada@example.com"}`)
	seed("policies", `{"policy_id":"P1","policy_type":"auto","coverage_amount":10000,"start_date":"2024-01-01","end_date":"2026-01-01","policyholder_id":"PH1"}`)

	screen := NewScreen(records.Claim(), client.New(api.URL, "claims"), WithClock(testNow))

	return is, screen, api.Close
}

func TestInitialScreenState(t *testing.T) {
	is, screen, teardown := newClaimFixture(t)
	defer teardown()

	is.Equal(screen.Mode(), ModeRead) // initial state is read
	is.Equal(screen.SearchKey(), "")
	is.True(screen.ResultSet() == nil)
	is.True(!screen.Loading())
	is.Equal(screen.Draft()["date"], "2025-06-01") // draft date defaults to today
}

func TestCreateThenReadByKeyReturnsEqualRecord(t *testing.T) {
	is, screen, teardown := newClaimFixture(t)
	defer teardown()
	ctx := context.Background()

	screen.SelectMode(ModeCreate)
	fillClaimDraft(is, screen)
	draft := screen.Draft()

	_, err := screen.Dispatch(ctx)
	is.NoErr(err)

	screen.SelectMode(ModeRead)
	screen.SetSearchKey("C1")

	_, err = screen.Dispatch(ctx)
	is.NoErr(err)

	resultSet := screen.ResultSet()
	is.Equal(len(resultSet), 1)   // read by key wraps the single record
	is.Equal(resultSet[0], draft) // field for field equal to the submitted draft
	is.True(!screen.Loading())
}

func TestReadAllOnEmptyCollectionYieldsEmptyResultSet(t *testing.T) {
	is, screen, teardown := newTestScreen(t, "claims")
	defer teardown()

	_, err := screen.Dispatch(context.Background())
	is.NoErr(err)

	resultSet := screen.ResultSet()
	is.True(resultSet != nil)
	is.Equal(len(resultSet), 0)
}

func TestModeSwitchPreservesDraftAndResults(t *testing.T) {
	is, screen, teardown := newClaimFixture(t)
	defer teardown()
	ctx := context.Background()

	screen.SelectMode(ModeCreate)
	fillClaimDraft(is, screen)
	_, err := screen.Dispatch(ctx)
	is.NoErr(err)

	resultSet := screen.ResultSet()
	draft := screen.Draft()

	screen.SelectMode(ModeRead)
	screen.SelectMode(ModeUpdate)
	screen.SelectMode(ModeDelete)

	is.Equal(screen.Draft(), draft)         // draft survives mode switches
	is.Equal(screen.ResultSet(), resultSet) // so does the result set
}

func TestCreateWithMissingFieldsShortCircuits(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(response.Code(http.StatusOK)),
	)
	defer s.Close()

	screen := NewScreen(records.Claim(), client.New(s.URL(), "claims"), WithClock(testNow))
	screen.SelectMode(ModeCreate)

	_, err := screen.Dispatch(context.Background())

	is.True(errors.Is(err, recorderrors.ErrValidation))
	is.Equal(s.RequestCount(), 0) // no partial request may be sent
	is.True(!screen.Loading())
}

func TestUpdateWithEmptySearchKeyIsRejectedLocally(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(response.Code(http.StatusOK)),
	)
	defer s.Close()

	screen := NewScreen(records.Claim(), client.New(s.URL(), "claims"), WithClock(testNow))
	screen.SelectMode(ModeUpdate)

	_, err := screen.Dispatch(context.Background())

	is.True(errors.Is(err, recorderrors.ErrValidation))
	is.Equal(s.RequestCount(), 0)
}

func TestDeleteWithEmptySearchKeyIsRejectedLocally(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(response.Code(http.StatusOK)),
	)
	defer s.Close()

	screen := NewScreen(records.Claim(), client.New(s.URL(), "claims"), WithClock(testNow))
	screen.SelectMode(ModeDelete)

	_, err := screen.Dispatch(context.Background())

	is.True(errors.Is(err, recorderrors.ErrValidation))
	is.Equal(s.RequestCount(), 0)
}

func TestUpdateAddressesViaSearchKeyOnly(t *testing.T) {
	is, screen, teardown := newClaimFixture(t)
	defer teardown()
	ctx := context.Background()

	screen.SelectMode(ModeCreate)
	fillClaimDraft(is, screen)
	_, err := screen.Dispatch(ctx)
	is.NoErr(err)

	// the draft's own key field may legitimately differ from the
	// search key; addressing must use the search key
	screen.SelectMode(ModeCreate)
	is.NoErr(screen.EditField("claim_id", "C2"))
	screen.SelectMode(ModeUpdate)
	is.NoErr(screen.EditField("description", "rear bumper"))
	screen.SetSearchKey("C1")

	_, err = screen.Dispatch(ctx)
	is.NoErr(err)

	resultSet := screen.ResultSet()
	is.Equal(len(resultSet), 1)
	is.Equal(resultSet[0]["claim_id"], "C1") // stored key is untouched
	is.Equal(resultSet[0]["description"], "rear bumper")
}

func TestDeleteClearsResultSetAndConfirms(t *testing.T) {
	is, screen, teardown := newClaimFixture(t)
	defer teardown()
	ctx := context.Background()

	screen.SelectMode(ModeCreate)
	fillClaimDraft(is, screen)
	_, err := screen.Dispatch(ctx)
	is.NoErr(err)
	is.True(screen.ResultSet() != nil)

	screen.SelectMode(ModeDelete)
	screen.SetSearchKey("C1")

	outcome, err := screen.Dispatch(ctx)
	is.NoErr(err)

	is.Equal(outcome.Message, "Claim deleted successfully")
	is.True(screen.ResultSet() == nil) // cleared, never populated from the response

	screen.SelectMode(ModeRead)
	_, err = screen.Dispatch(ctx)
	is.True(errors.Is(err, recorderrors.ErrNotFound))
}

func TestFailedDispatchClearsLoadingFlag(t *testing.T) {
	is, screen, teardown := newClaimFixture(t)
	defer teardown()

	screen.SetSearchKey("nosuchclaim")

	_, err := screen.Dispatch(context.Background())

	is.True(errors.Is(err, recorderrors.ErrNotFound))
	is.True(!screen.Loading())
}

func TestKeyFieldIsFrozenOutsideCreateMode(t *testing.T) {
	is, screen, teardown := newClaimFixture(t)
	defer teardown()

	screen.SelectMode(ModeUpdate)
	is.True(screen.EditField("claim_id", "C9") != nil)
	is.NoErr(screen.EditField("description", "editable"))

	screen.SelectMode(ModeRead)
	is.True(screen.EditField("description", "frozen") != nil)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	is := is.New(t)

	started := make(chan struct{})
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /claims/C1", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		w.Header().Add("Content-Type", "application/json")
		w.Write([]byte(`{"claim_id":"C1","description":"stale"}`))
	})
	mux.HandleFunc("GET /claims/C2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		w.Write([]byte(`{"claim_id":"C2","description":"fresh"}`))
	})

	api := httptest.NewServer(mux)
	defer api.Close()

	screen := NewScreen(records.Claim(), client.New(api.URL, "claims"), WithClock(testNow))

	firstDone := make(chan struct{})
	screen.SetSearchKey("C1")
	go func() {
		defer close(firstDone)
		screen.Dispatch(context.Background())
	}()

	<-started

	screen.SetSearchKey("C2")
	_, err := screen.Dispatch(context.Background())
	is.NoErr(err)

	close(release)
	<-firstDone

	resultSet := screen.ResultSet()
	is.Equal(len(resultSet), 1)
	is.Equal(resultSet[0]["claim_id"], "C2") // the superseded response never overwrites the store
	is.True(!screen.Loading())
}
