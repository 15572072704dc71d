package deprecated_test

import (
	"testing"
	"time"

	"github.com/dnlrv/parqstream/deprecated"
)

func TestInt96ToTime(t *testing.T) {
	want := time.Date(2021, time.March, 15, 12, 30, 0, 0, time.UTC)

	julianDay := int32(want.Unix()/86400) + 2440588
	nanoOfDay := want.Sub(time.Date(want.Year(), want.Month(), want.Day(), 0, 0, 0, 0, time.UTC))

	i96 := deprecated.Int96{
		uint32(uint64(nanoOfDay)),
		uint32(uint64(nanoOfDay) >> 32),
		uint32(julianDay),
	}

	got := i96.ToTime()
	if !got.Equal(want) {
		t.Fatalf("ToTime() = %v, want %v", got, want)
	}
}

func TestInt96String(t *testing.T) {
	i96 := deprecated.Int96{1, 0, 0}
	if got := i96.String(); got != "1" {
		t.Fatalf("String() = %q, want %q", got, "1")
	}
}

func TestInt96FromBytes(t *testing.T) {
	b := []byte{
		1, 0, 0, 0,
		2, 0, 0, 0,
		3, 0, 0, 0,
	}
	got := deprecated.FromBytes(b)
	want := deprecated.Int96{1, 2, 3}
	if got != want {
		t.Fatalf("FromBytes() = %v, want %v", got, want)
	}
}
