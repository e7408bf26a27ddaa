// ABOUTME: Tests for shared struct validation
// ABOUTME: Verifies message formatting and error type

package validate

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name  string  `validate:"required"`
	Kind  string  `validate:"oneof=a b"`
	Score int     `validate:"gte=0"`
	Lat   float64 `validate:"latitude"`
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(sample{Name: "x", Kind: "a", Lat: 37.5}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestStruct_CollectsEveryProblem(t *testing.T) {
	err := Struct(sample{Kind: "c", Score: -1, Lat: 120})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Problems) != 4 {
		t.Errorf("expected 4 problems, got %d: %v", len(verr.Problems), verr.Problems)
	}

	msg := err.Error()
	for _, want := range []string{"Name is required", "Kind must be one of: a b", "Score must be 0 or more", "Lat must be a valid latitude"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}
