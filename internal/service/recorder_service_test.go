package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/miniapptrack/attribution/internal/domain"
	"github.com/miniapptrack/attribution/internal/dto"
	"github.com/miniapptrack/attribution/internal/repository"
)

func TestRecorderService_FirstOpenEstablishesAttribution(t *testing.T) {
	repo := repository.NewMemoryAttributionRepository()
	svc := NewRecorderService(repo)
	ctx := context.Background()

	resp, err := svc.RecordAppOpen(ctx, "T1", &dto.AppOpenPayload{
		CampaignParameter: "summer_sale",
		EndUserID:         42,
	})
	if err != nil {
		t.Fatalf("RecordAppOpen failed: %v", err)
	}
	if !resp.NewUser {
		t.Error("expected first open to mark a new user")
	}
	if resp.FirstCampaign != "summer_sale" {
		t.Errorf("expected first campaign summer_sale, got %s", resp.FirstCampaign)
	}
}

func TestRecorderService_SecondOpenKeepsFirstCampaign(t *testing.T) {
	repo := repository.NewMemoryAttributionRepository()
	svc := NewRecorderService(repo)
	ctx := context.Background()

	if _, err := svc.RecordAppOpen(ctx, "T1", &dto.AppOpenPayload{CampaignParameter: "summer_sale", EndUserID: 42}); err != nil {
		t.Fatalf("RecordAppOpen failed: %v", err)
	}

	resp, err := svc.RecordAppOpen(ctx, "T1", &dto.AppOpenPayload{CampaignParameter: "winter_promo", EndUserID: 42})
	if err != nil {
		t.Fatalf("RecordAppOpen failed: %v", err)
	}
	if resp.NewUser {
		t.Error("expected repeat open to not mark a new user")
	}
	if resp.FirstCampaign != "summer_sale" {
		t.Errorf("first campaign changed to %s", resp.FirstCampaign)
	}
}

func TestRecorderService_EncodedCampaignNormalized(t *testing.T) {
	repo := repository.NewMemoryAttributionRepository()
	svc := NewRecorderService(repo)
	ctx := context.Background()

	// base64("summer_sale")
	resp, err := svc.RecordAppOpen(ctx, "T1", &dto.AppOpenPayload{
		CampaignParameter: "c3VtbWVyX3NhbGU=",
		EndUserID:         42,
	})
	if err != nil {
		t.Fatalf("RecordAppOpen failed: %v", err)
	}
	if resp.FirstCampaign != "summer_sale" {
		t.Errorf("expected decoded campaign summer_sale, got %s", resp.FirstCampaign)
	}

	// A later plain-text open for the same campaign hits the same record.
	resp, err = svc.RecordAppOpen(ctx, "T1", &dto.AppOpenPayload{CampaignParameter: "summer_sale", EndUserID: 42})
	if err != nil {
		t.Fatalf("RecordAppOpen failed: %v", err)
	}
	if resp.NewUser {
		t.Error("expected plain-text open to match the decoded attribution record")
	}
}

func TestRecorderService_PaymentAttributedToFirstTouch(t *testing.T) {
	repo := repository.NewMemoryAttributionRepository()
	svc := NewRecorderService(repo)
	ctx := context.Background()

	if _, err := svc.RecordAppOpen(ctx, "T1", &dto.AppOpenPayload{CampaignParameter: "summer_sale", EndUserID: 42}); err != nil {
		t.Fatalf("RecordAppOpen failed: %v", err)
	}
	if _, err := svc.RecordAppOpen(ctx, "T1", &dto.AppOpenPayload{CampaignParameter: "winter_promo", EndUserID: 42}); err != nil {
		t.Fatalf("RecordAppOpen failed: %v", err)
	}

	// The campaign submitted with the payment must not matter.
	resp, err := svc.RecordPayment(ctx, "T1", &dto.PaymentPayload{
		EndUserID:         42,
		Amount:            500,
		CampaignParameter: "winter_promo",
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if resp.AttributedCampaign != "summer_sale" {
		t.Errorf("expected payment attributed to summer_sale, got %s", resp.AttributedCampaign)
	}
}

func TestRecorderService_PaymentWithoutAttribution(t *testing.T) {
	repo := repository.NewMemoryAttributionRepository()
	svc := NewRecorderService(repo)

	_, err := svc.RecordPayment(context.Background(), "T1", &dto.PaymentPayload{EndUserID: 42, Amount: 500})
	if !errors.Is(err, domain.ErrUserNotAttributed) {
		t.Errorf("expected ErrUserNotAttributed, got %v", err)
	}
}

func TestRecorderService_TenantsDoNotShareAttribution(t *testing.T) {
	repo := repository.NewMemoryAttributionRepository()
	svc := NewRecorderService(repo)
	ctx := context.Background()

	if _, err := svc.RecordAppOpen(ctx, "T1", &dto.AppOpenPayload{CampaignParameter: "summer_sale", EndUserID: 42}); err != nil {
		t.Fatalf("RecordAppOpen failed: %v", err)
	}

	_, err := svc.RecordPayment(ctx, "T2", &dto.PaymentPayload{EndUserID: 42, Amount: 500})
	if !errors.Is(err, domain.ErrUserNotAttributed) {
		t.Errorf("expected ErrUserNotAttributed for other tenant, got %v", err)
	}
}

func TestRecorderService_ConcurrentFirstOpens(t *testing.T) {
	repo := repository.NewMemoryAttributionRepository()
	svc := NewRecorderService(repo)
	ctx := context.Background()

	const workers = 16
	campaigns := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := svc.RecordAppOpen(ctx, "T1", &dto.AppOpenPayload{
				CampaignParameter: fmt.Sprintf("campaign-%d", i),
				EndUserID:         99,
			})
			if err != nil {
				t.Errorf("RecordAppOpen failed: %v", err)
				return
			}
			campaigns[i] = resp.FirstCampaign
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if campaigns[i] != campaigns[0] {
			t.Fatalf("concurrent opens observed different first campaigns: %s vs %s", campaigns[0], campaigns[i])
		}
	}
}
