package depreciation

import (
	"math"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
)

const defaultUsefulLifeMonths = 60

// Snapshot is the depreciation state of an asset at a given date.
// Monetary fields are rounded to 2 decimal places; intermediate math is
// not rounded.
type Snapshot struct {
	Monthly          decimal.Decimal `json:"monthly"`     // current month's charge (shrinks over time for declining balance)
	Accumulated      decimal.Decimal `json:"accumulated"` // total depreciation to date
	BookValue        decimal.Decimal `json:"book_value"`  // purchase value minus accumulated
	MonthsElapsed    int             `json:"months_elapsed"`
	FullyDepreciated bool            `json:"fully_depreciated"`
}

// Compute derives the depreciation snapshot for an asset's financial
// facts as of the given date. Pure function: no I/O, deterministic.
//
// A missing or unparseable purchase date, a zero purchase value, or
// method "None" yields a zero snapshot with the book value equal to the
// purchase value — bad data degrades to "no depreciation", it never
// errors, so one malformed asset cannot break aggregate totals.
//
// Months elapsed are whole calendar months (day-of-month ignored),
// clamped to zero for future purchase dates.
func Compute(purchaseDate string, purchaseValue decimal.Decimal, method string, usefulLifeMonths int, asOf time.Time) Snapshot {
	pv, _ := purchaseValue.Round(2).Float64()
	life := usefulLifeMonths
	if life <= 0 {
		life = defaultUsefulLifeMonths
	}

	if len(purchaseDate) > 10 {
		purchaseDate = purchaseDate[:10]
	}
	if purchaseDate == "" || pv == 0 || method == model.DepMethodNone {
		return zeroSnapshot(purchaseValue)
	}
	start, err := time.Parse("2006-01-02", purchaseDate)
	if err != nil {
		return zeroSnapshot(purchaseValue)
	}

	months := (asOf.Year()-start.Year())*12 + int(asOf.Month()) - int(start.Month())
	if months < 0 {
		months = 0
	}

	var monthly, accumulated, bookValue float64
	switch method {
	case model.DepMethodStraightLine:
		monthly = pv / float64(life)
		accumulated = math.Min(pv, monthly*float64(months))
		bookValue = math.Max(0, pv-accumulated)
	case model.DepMethodDecliningBalance:
		mr := (2 / float64(life)) / 12
		bookValue = pv * math.Pow(1-mr, float64(months))
		accumulated = pv - bookValue
		monthly = bookValue * mr
	default:
		bookValue = pv
	}

	return Snapshot{
		Monthly:          decimal.NewFromFloat(monthly).Round(2),
		Accumulated:      decimal.NewFromFloat(accumulated).Round(2),
		BookValue:        decimal.NewFromFloat(bookValue).Round(2),
		MonthsElapsed:    months,
		FullyDepreciated: months >= life,
	}
}

func zeroSnapshot(purchaseValue decimal.Decimal) Snapshot {
	return Snapshot{
		Monthly:     decimal.Zero,
		Accumulated: decimal.Zero,
		BookValue:   purchaseValue.Round(2),
	}
}
