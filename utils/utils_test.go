package utils

import (
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-01")
	if err != nil {
		t.Fatal(err)
	}
	if d.Year() != 2026 || d.Month() != time.September || d.Day() != 1 {
		t.Fatalf("unexpected parsed date %v", d)
	}

	if _, err := ParseDate("01/09/2026"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatal("expected error for empty date")
	}
}

func TestNormalizeDateDropsTimeOfDay(t *testing.T) {
	in := time.Date(2026, 9, 1, 15, 30, 45, 0, time.Local)
	got := NormalizeDate(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
	if got.Year() != 2026 || got.Month() != time.September || got.Day() != 1 {
		t.Fatalf("expected same calendar day, got %v", got)
	}
}

func TestNightsBetween(t *testing.T) {
	cases := []struct {
		in, out time.Time
		want    int
	}{
		{time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), 4},
		{time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC), time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC), 3},
	}
	for _, c := range cases {
		if got := NightsBetween(c.in, c.out); got != c.want {
			t.Errorf("NightsBetween(%v, %v) = %d, want %d", c.in, c.out, got, c.want)
		}
	}
}

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{10.454, 10.45},
		{10.456, 10.46},
		{0.125, 0.13}, // exact binary half rounds up, not to even
		{1800, 1800},
		{99.999, 100},
	}
	for _, c := range cases {
		if got := RoundMoney(c.in); got != c.want {
			t.Errorf("RoundMoney(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestGenerateBookingCode(t *testing.T) {
	code := GenerateBookingCode()
	if !strings.HasPrefix(code, "HB-"+time.Now().Format("20060102")+"-") {
		t.Fatalf("unexpected booking code shape %q", code)
	}
	if code == GenerateBookingCode() {
		t.Fatal("expected unique codes across calls")
	}
}

func TestGeneratePaymentReference(t *testing.T) {
	ref := GeneratePaymentReference()
	if !strings.HasPrefix(ref, "PAY-") {
		t.Fatalf("unexpected reference shape %q", ref)
	}
	if len(ref) != len("PAY-")+12 {
		t.Fatalf("expected 12-char suffix, got %q", ref)
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	if got := FormatInvoiceNumber(1); got != "INV-000001" {
		t.Fatalf("expected INV-000001, got %s", got)
	}
	if got := FormatInvoiceNumber(123456); got != "INV-123456" {
		t.Fatalf("expected INV-123456, got %s", got)
	}
}
