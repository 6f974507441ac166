package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{ErrCommentNotFound, ErrNotFound},
		{ErrEmailExists, ErrValidation},
		{ErrWeakPassword, ErrValidation},
		{ErrEmailServiceDisabled, ErrDeliveryFailed},
		{fmt.Errorf("send verification: %w", ErrEmailRecipientRejected), ErrDeliveryFailed},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.kind) {
			t.Fatalf("%v should be %v", tc.err, tc.kind)
		}
		if !errors.Is(tc.err, tc.err) {
			t.Fatalf("%v should match itself", tc.err)
		}
	}
	if errors.Is(ErrInvalidLink, ErrLinkExpired) || errors.Is(ErrLinkExpired, ErrInvalidLink) {
		t.Fatalf("invalid and expired links must stay distinct")
	}
	if errors.Is(ErrPostNotFound, ErrCommentNotFound) {
		t.Fatalf("sibling errors must stay distinct")
	}
}
