package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DateLayout is the wire format for calendar dates. Dates are calendar
// dates, not instants, so no timezone conversion ever takes place.
const DateLayout = "2006-01-02"

const displayDateLayout = "1/2/2006"

// ParseInput converts raw form input into the typed value stored in a
// draft. Decimal input that fails to parse resolves to zero rather than
// failing, matching the behavior staff are used to from the form.
func (s Schema) ParseInput(name, raw string, now time.Time) (any, error) {
	field, ok := s.Field(name)
	if !ok {
		return nil, fmt.Errorf("schema %s has no field named %q", s.Type, name)
	}

	raw = strings.TrimSpace(raw)

	switch field.Kind {
	case KindDecimal:
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return float64(0), nil
		}
		if amount < 0 {
			return nil, fmt.Errorf("%s must not be negative", name)
		}
		return amount, nil

	case KindDate:
		date, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be a date on the form YYYY-MM-DD", name)
		}
		if field.NotFuture && date.After(now) {
			return nil, fmt.Errorf("%s must not be a future date", name)
		}
		return date.Format(DateLayout), nil

	case KindEnum:
		for _, member := range field.Enum {
			if raw == member {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("%s must be one of %s", name, strings.Join(field.Enum, ", "))

	default:
		return raw, nil
	}
}

// FormatValue renders a stored value for display.
func (s Schema) FormatValue(name string, value any) string {
	field, ok := s.Field(name)
	if !ok {
		return fmt.Sprintf("%v", value)
	}

	switch field.Kind {
	case KindDecimal:
		amount, _ := value.(float64)
		return FormatAmount(amount)
	case KindDate:
		date, _ := value.(string)
		return FormatDate(date)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// FormatAmount renders a monetary amount with grouped thousands and
// exactly two decimals, so 1234.5 comes out as "$1,234.50".
func FormatAmount(amount float64) string {
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

// FormatDate renders an ISO calendar date in short form, or the raw
// string untouched if it does not parse.
func FormatDate(iso string) string {
	date, err := time.Parse(DateLayout, iso)
	if err != nil {
		return iso
	}
	return date.Format(displayDateLayout)
}
