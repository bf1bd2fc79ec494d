package depreciation

import (
	"math"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestStraightLineTwelveMonths(t *testing.T) {
	// 12000 over 60 months, 12 months elapsed
	snap := Compute("2023-01-01", decimal.NewFromInt(12000), model.DepMethodStraightLine, 60, date(2024, time.January))

	if !snap.Monthly.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("monthly = %s, want 200", snap.Monthly)
	}
	if !snap.Accumulated.Equal(decimal.RequireFromString("2400")) {
		t.Fatalf("accumulated = %s, want 2400", snap.Accumulated)
	}
	if !snap.BookValue.Equal(decimal.RequireFromString("9600")) {
		t.Fatalf("book value = %s, want 9600", snap.BookValue)
	}
	if snap.MonthsElapsed != 12 {
		t.Fatalf("months elapsed = %d, want 12", snap.MonthsElapsed)
	}
	if snap.FullyDepreciated {
		t.Fatal("expected not fully depreciated at 12/60 months")
	}
}

func TestStraightLineReachesZeroAtEndOfLife(t *testing.T) {
	pv := decimal.NewFromInt(12000)

	atLife := Compute("2023-01-01", pv, model.DepMethodStraightLine, 60, date(2028, time.January))
	if !atLife.BookValue.IsZero() {
		t.Fatalf("book value at 60 months = %s, want 0", atLife.BookValue)
	}
	if !atLife.FullyDepreciated {
		t.Fatal("expected fully depreciated at 60 months")
	}

	// Past end of life: accumulated is capped at the purchase value
	past := Compute("2023-01-01", pv, model.DepMethodStraightLine, 60, date(2030, time.January))
	if !past.Accumulated.Equal(pv) {
		t.Fatalf("accumulated past life = %s, want %s", past.Accumulated, pv)
	}
	if !past.BookValue.IsZero() {
		t.Fatalf("book value past life = %s, want 0", past.BookValue)
	}
}

func TestStraightLineBookValueMonotonic(t *testing.T) {
	pv := decimal.NewFromInt(7200)
	prev := pv
	for i := 0; i < 70; i++ {
		asOf := date(2023, time.January).AddDate(0, i, 0)
		snap := Compute("2023-01-01", pv, model.DepMethodStraightLine, 60, asOf)
		if snap.BookValue.GreaterThan(prev) {
			t.Fatalf("book value increased at month %d: %s > %s", i, snap.BookValue, prev)
		}
		prev = snap.BookValue
	}
	if !prev.IsZero() {
		t.Fatalf("final book value = %s, want 0", prev)
	}
}

func TestDecliningBalanceTwelveMonths(t *testing.T) {
	pv := decimal.NewFromInt(12000)
	snap := Compute("2023-01-01", pv, model.DepMethodDecliningBalance, 60, date(2024, time.January))

	mr := (2.0 / 60.0) / 12.0
	wantBook := decimal.NewFromFloat(12000 * math.Pow(1-mr, 12)).Round(2)
	if !snap.BookValue.Equal(wantBook) {
		t.Fatalf("book value = %s, want %s", snap.BookValue, wantBook)
	}
	// accumulated + book value reconstructs the purchase value within rounding
	sum := snap.Accumulated.Add(snap.BookValue)
	if sum.Sub(pv).Abs().GreaterThan(decimal.RequireFromString("0.01")) {
		t.Fatalf("accumulated + book = %s, want %s within a cent", sum, pv)
	}
	// the monthly charge is the current book value times the monthly rate
	wantMonthly := decimal.NewFromFloat(12000 * math.Pow(1-mr, 12) * mr).Round(2)
	if !snap.Monthly.Equal(wantMonthly) {
		t.Fatalf("monthly = %s, want %s", snap.Monthly, wantMonthly)
	}
}

func TestDecliningBalanceNeverReachesZero(t *testing.T) {
	pv := decimal.NewFromInt(8500)
	prev := pv
	for i := 1; i <= 120; i++ {
		asOf := date(2022, time.April).AddDate(0, i, 0)
		snap := Compute("2022-04-01", pv, model.DepMethodDecliningBalance, 60, asOf)
		if !snap.BookValue.IsPositive() {
			t.Fatalf("book value hit zero at month %d", i)
		}
		if snap.BookValue.GreaterThanOrEqual(prev) {
			t.Fatalf("book value did not strictly decrease at month %d: %s >= %s", i, snap.BookValue, prev)
		}
		prev = snap.BookValue
	}
}

func TestZeroSnapshotPolicy(t *testing.T) {
	asOf := date(2024, time.June)
	pv := decimal.RequireFromString("1800")

	cases := []struct {
		name   string
		date   string
		value  decimal.Decimal
		method string
	}{
		{"empty date", "", pv, model.DepMethodStraightLine},
		{"garbage date", "not-a-date", pv, model.DepMethodStraightLine},
		{"method none", "2022-09-01", pv, model.DepMethodNone},
		{"zero value", "2022-09-01", decimal.Zero, model.DepMethodStraightLine},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := Compute(tc.date, tc.value, tc.method, 48, asOf)
			if !snap.Monthly.IsZero() || !snap.Accumulated.IsZero() {
				t.Fatalf("expected zero charges, got monthly=%s accumulated=%s", snap.Monthly, snap.Accumulated)
			}
			if !snap.BookValue.Equal(tc.value.Round(2)) {
				t.Fatalf("book value = %s, want purchase value %s", snap.BookValue, tc.value)
			}
			if snap.MonthsElapsed != 0 || snap.FullyDepreciated {
				t.Fatalf("expected months=0 fully=false, got months=%d fully=%v", snap.MonthsElapsed, snap.FullyDepreciated)
			}
		})
	}
}

func TestFuturePurchaseDateClampsToZeroMonths(t *testing.T) {
	snap := Compute("2030-01-01", decimal.NewFromInt(5000), model.DepMethodStraightLine, 60, date(2024, time.January))
	if snap.MonthsElapsed != 0 {
		t.Fatalf("months elapsed = %d, want 0", snap.MonthsElapsed)
	}
	if !snap.BookValue.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("book value = %s, want 5000", snap.BookValue)
	}
}

func TestDayOfMonthIgnored(t *testing.T) {
	pv := decimal.NewFromInt(2400)
	a := Compute("2023-01-01", pv, model.DepMethodStraightLine, 60, time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC))
	b := Compute("2023-01-31", pv, model.DepMethodStraightLine, 60, time.Date(2023, time.March, 30, 0, 0, 0, 0, time.UTC))
	if a.MonthsElapsed != 2 || b.MonthsElapsed != 2 {
		t.Fatalf("months elapsed = %d/%d, want 2/2", a.MonthsElapsed, b.MonthsElapsed)
	}
}

func TestZeroUsefulLifeFallsBackToDefault(t *testing.T) {
	snap := Compute("2023-01-01", decimal.NewFromInt(6000), model.DepMethodStraightLine, 0, date(2023, time.February))
	if !snap.Monthly.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("monthly = %s, want 100 (6000/60)", snap.Monthly)
	}
}

func TestComputeIsPure(t *testing.T) {
	asOf := date(2024, time.January)
	pv := decimal.RequireFromString("8500")
	a := Compute("2022-04-01", pv, model.DepMethodDecliningBalance, 60, asOf)
	b := Compute("2022-04-01", pv, model.DepMethodDecliningBalance, 60, asOf)
	if !a.BookValue.Equal(b.BookValue) || !a.Monthly.Equal(b.Monthly) || !a.Accumulated.Equal(b.Accumulated) ||
		a.MonthsElapsed != b.MonthsElapsed || a.FullyDepreciated != b.FullyDepreciated {
		t.Fatalf("identical inputs produced different snapshots: %+v vs %+v", a, b)
	}
}
