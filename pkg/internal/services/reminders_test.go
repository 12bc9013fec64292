package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/hoacouncil/canvass/pkg/internal/models"
)

func TestFanOutSends(t *testing.T) {
	pending := []models.Response{
		{MemberID: 1}, {MemberID: 2}, {MemberID: 3}, {MemberID: 4}, {MemberID: 5},
	}

	var mu sync.Mutex
	var attempted []uint
	delivered, outcome := fanOutSends(pending, func(response models.Response) error {
		mu.Lock()
		attempted = append(attempted, response.MemberID)
		mu.Unlock()
		if response.MemberID == 2 || response.MemberID == 4 {
			return errors.New("mailbox unavailable")
		}
		return nil
	})

	if outcome.Sent != 3 || outcome.Failed != 2 {
		t.Errorf("outcome = %+v, want {Sent:3 Failed:2}", outcome)
	}
	if len(attempted) != 5 {
		t.Errorf("attempted %d sends, want 5 (failures must not block others)", len(attempted))
	}
	if len(delivered) != 3 {
		t.Fatalf("delivered %d responses, want 3", len(delivered))
	}
	for _, response := range delivered {
		if response.MemberID == 2 || response.MemberID == 4 {
			t.Errorf("failed member %d appears in delivered set", response.MemberID)
		}
	}
}

func TestFanOutSendsEmpty(t *testing.T) {
	delivered, outcome := fanOutSends(nil, func(models.Response) error {
		t.Fatal("send called with no pending responses")
		return nil
	})
	if outcome.Sent != 0 || outcome.Failed != 0 {
		t.Errorf("outcome = %+v, want zero", outcome)
	}
	if len(delivered) != 0 {
		t.Errorf("delivered %d responses, want 0", len(delivered))
	}
}
