package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsCarryEnvelopeCodes(t *testing.T) {
	cases := []struct {
		err    *Error
		ec     int
		status int
	}{
		{Missing("x"), ECMissing, http.StatusBadRequest},
		{Duplicated("x"), ECDuplicated, http.StatusUnprocessableEntity},
		{Invalid("x"), ECInvalid, http.StatusUnprocessableEntity},
		{NotFound("x"), ECNotFound, http.StatusNotFound},
		{NotVerified(), ECNotVerified, http.StatusForbidden},
		{NotPermit(""), ECNotPermit, http.StatusForbidden},
		{Unknown(errors.New("db down")), ECUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if tc.err.EC != tc.ec || tc.err.Status != tc.status {
			t.Fatalf("%s: want ec=%d status=%d got ec=%d status=%d", tc.err.Code, tc.ec, tc.status, tc.err.EC, tc.err.Status)
		}
	}
}

func TestIsUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("purchase: %w", Duplicated("already purchased"))
	if !Is(err, ECDuplicated) {
		t.Fatalf("expected wrapped duplicated error to match")
	}
	if Is(err, ECNotFound) {
		t.Fatalf("unexpected match for not found")
	}
}
