package records

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAmountsRenderWithTwoDecimals(t *testing.T) {
	is := is.New(t)

	is.Equal(FormatAmount(1234.5), "$1,234.50") // two-decimal currency invariant
	is.Equal(FormatAmount(0), "$0.00")
	is.Equal(FormatAmount(1000000), "$1,000,000.00")
	is.Equal(FormatAmount(99.999), "$100.00")
}

func TestFormatValueUsesFieldKind(t *testing.T) {
	is := is.New(t)
	s := Claim()

	is.Equal(s.FormatValue("amount", float64(1234.5)), "$1,234.50")
	is.Equal(s.FormatValue("date", "2024-01-09"), "1/9/2024")
	is.Equal(s.FormatValue("description", "fender"), "fender")
}

func TestNonNumericAmountInputClampsToZero(t *testing.T) {
	is := is.New(t)
	s := Claim()

	value, err := s.ParseInput("amount", "not a number", testNow)

	is.NoErr(err) // silent clamp, not an error
	is.Equal(value, float64(0))
}

func TestNegativeAmountInputIsRejected(t *testing.T) {
	is := is.New(t)
	s := Claim()

	_, err := s.ParseInput("amount", "-3.50", testNow)

	is.True(err != nil)
}

func TestDateInputIsNormalizedToISO(t *testing.T) {
	is := is.New(t)
	s := Claim()

	value, err := s.ParseInput("date", " 2024-01-01 ", testNow)

	is.NoErr(err)
	is.Equal(value, "2024-01-01")
}

func TestFutureClaimDateIsRejected(t *testing.T) {
	is := is.New(t)
	s := Claim()

	_, err := s.ParseInput("date", "2025-06-02", testNow)

	is.True(err != nil)
}

func TestFuturePolicyEndDateIsAccepted(t *testing.T) {
	is := is.New(t)
	s := Policy()

	value, err := s.ParseInput("end_date", "2030-12-31", testNow)

	is.NoErr(err)
	is.Equal(value, "2030-12-31")
}

func TestMalformedDateInputIsRejected(t *testing.T) {
	is := is.New(t)
	s := Claim()

	_, err := s.ParseInput("date", "January 1st", testNow)

	is.True(err != nil)
}

func TestStatusInputMustBeAKnownMember(t *testing.T) {
	is := is.New(t)
	s := Claim()

	value, err := s.ParseInput("status", "Approved", testNow)
	is.NoErr(err)
	is.Equal(value, "Approved")

	_, err = s.ParseInput("status", "Denied", testNow)
	is.True(err != nil)
}
