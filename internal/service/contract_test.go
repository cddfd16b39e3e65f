package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"jobify-api/internal/common"
	"jobify-api/internal/entity"
	"jobify-api/internal/service"

	"github.com/google/uuid"
)

func TestProviderCannotSignBeforeClient(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	clientId := e.client(t, "client@example.com")
	spId := e.provider(t, "provider@example.com")
	jobAdId := e.jobAd(t, clientId)
	e.apply(t, spId, jobAdId)

	_, err := e.svc.Contract.GenerateServiceProviderContract(ctx, spId, jobAdId, signature(t))
	if !errors.Is(err, service.ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
	if v := e.vacancy(t, jobAdId, spId); v.ApplicationStatus != common.ApplicationApplied || v.JobStatus != common.JobNeutral {
		t.Fatalf("vacancy changed: %+v", v)
	}
}

func TestClientContractSelectsCandidate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	clientId := e.client(t, "client@example.com")
	chosen := e.provider(t, "chosen@example.com")
	other := e.provider(t, "other@example.com")
	jobAdId := e.jobAd(t, clientId)
	e.apply(t, chosen, jobAdId)
	e.apply(t, other, jobAdId)

	pdf, err := e.svc.Contract.GenerateClientContract(ctx, clientId, jobAdId, chosen, signature(t))
	if err != nil {
		t.Fatalf("GenerateClientContract: %v", err)
	}
	if !isPdf(pdf) {
		t.Fatal("expected a pdf document")
	}

	if v := e.vacancy(t, jobAdId, chosen); v.ApplicationStatus != common.ApplicationSelected {
		t.Fatalf("chosen vacancy: %s", v.ApplicationStatus)
	}
	if v := e.vacancy(t, jobAdId, other); v.ApplicationStatus != common.ApplicationRejected {
		t.Fatalf("other vacancy: %s", v.ApplicationStatus)
	}

	first, err := e.repos.JobContract.GetContractByJobAdId(ctx, jobAdId)
	if err != nil {
		t.Fatalf("GetContractByJobAdId: %v", err)
	}

	// a second draft replaces the first one
	if _, err := e.svc.Contract.GenerateClientContract(ctx, clientId, jobAdId, chosen, nil); err != nil {
		t.Fatalf("GenerateClientContract again: %v", err)
	}
	second, err := e.repos.JobContract.GetContractByJobAdId(ctx, jobAdId)
	if err != nil {
		t.Fatalf("GetContractByJobAdId: %v", err)
	}
	if first.Id != second.Id || second.Status != common.ContractPending {
		t.Fatalf("expected the same pending contract, got %s/%s and %s/%s", first.Id, first.Status, second.Id, second.Status)
	}

	stored, err := e.svc.Contract.GetContractById(ctx, asClient(clientId), second.Id)
	if err != nil || !isPdf(stored) {
		t.Fatalf("GetContractById: %v", err)
	}
	if _, err := e.svc.Contract.GetContractById(ctx, asProvider(chosen), second.Id); err != nil {
		t.Fatalf("GetContractById for the chosen provider: %v", err)
	}
	if _, err := e.svc.Contract.GetContractById(ctx, asProvider(other), second.Id); !errors.Is(err, service.ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound for a rejected provider, got %v", err)
	}
}

func TestClientContractErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	clientId := e.client(t, "client@example.com")
	stranger := e.client(t, "stranger@example.com")
	spId := e.provider(t, "provider@example.com")
	idle := e.provider(t, "idle@example.com")
	jobAdId := e.jobAd(t, clientId)
	e.apply(t, spId, jobAdId)

	cases := []struct {
		name     string
		clientId uuid.UUID
		jobAdId  uuid.UUID
		spId     uuid.UUID
		sig      []byte
		want     error
	}{
		{"unknown job", clientId, uuid.New(), spId, nil, service.ErrContractDataMissing},
		{"unknown provider", clientId, jobAdId, uuid.New(), nil, service.ErrContractDataMissing},
		{"not the owner", stranger, jobAdId, spId, nil, service.ErrUserIsNotJobOwner},
		{"did not apply", clientId, jobAdId, idle, nil, service.ErrVacancyNotFound},
		{"bad signature", clientId, jobAdId, spId, []byte("not an image"), service.ErrInvalidSignature},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.svc.Contract.GenerateClientContract(ctx, tc.clientId, tc.jobAdId, tc.spId, tc.sig)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := e.repos.JobContract.GetContractByJobAdId(ctx, jobAdId); err == nil {
		t.Fatal("failed attempts must not store a contract")
	}
}

func TestServiceProviderContract(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	clientId := e.client(t, "client@example.com")
	chosen := e.provider(t, "chosen@example.com")
	other := e.provider(t, "other@example.com")
	jobAdId := e.jobAd(t, clientId)
	e.apply(t, chosen, jobAdId)
	e.apply(t, other, jobAdId)

	if _, err := e.svc.Contract.GenerateClientContract(ctx, clientId, jobAdId, chosen, signature(t)); err != nil {
		t.Fatalf("GenerateClientContract: %v", err)
	}

	if _, err := e.svc.Contract.GenerateServiceProviderContract(ctx, other, jobAdId, signature(t)); !errors.Is(err, service.ErrCandidateNotSelected) {
		t.Fatalf("expected ErrCandidateNotSelected, got %v", err)
	}
	if _, err := e.svc.Contract.GenerateServiceProviderContract(ctx, chosen, jobAdId, signature(t)); !errors.Is(err, service.ErrContractDataMissing) {
		t.Fatalf("expected ErrContractDataMissing without bank details, got %v", err)
	}

	if err := e.svc.Account.UpdateBankDetails(ctx, chosen, "HR1210010051863000160", "Zagrebacka banka"); err != nil {
		t.Fatalf("UpdateBankDetails: %v", err)
	}
	pdf, err := e.svc.Contract.GenerateServiceProviderContract(ctx, chosen, jobAdId, signature(t))
	if err != nil {
		t.Fatalf("GenerateServiceProviderContract: %v", err)
	}

	contract, err := e.repos.JobContract.GetContractByJobAdId(ctx, jobAdId)
	if err != nil {
		t.Fatalf("GetContractByJobAdId: %v", err)
	}
	if contract.Status != common.ContractCompleted || len(contract.ServiceProviderSignature) == 0 {
		t.Fatalf("contract not completed: %s", contract.Status)
	}
	if string(contract.Contract) != string(pdf) {
		t.Fatal("stored contract differs from the returned one")
	}
	if v := e.vacancy(t, jobAdId, chosen); v.JobStatus != common.JobOngoing {
		t.Fatalf("expected ongoing job, got %s", v.JobStatus)
	}

	if _, err := e.svc.Contract.GenerateServiceProviderContract(ctx, chosen, jobAdId, signature(t)); !errors.Is(err, service.ErrContractAlreadySigned) {
		t.Fatalf("expected ErrContractAlreadySigned, got %v", err)
	}
	if _, err := e.svc.Contract.GenerateClientContract(ctx, clientId, jobAdId, chosen, signature(t)); !errors.Is(err, service.ErrContractAlreadySigned) {
		t.Fatalf("expected ErrContractAlreadySigned for the client, got %v", err)
	}

	stored, err := e.svc.Contract.GetContractByJobAd(ctx, asClient(clientId), jobAdId)
	if err != nil || string(stored) != string(pdf) {
		t.Fatalf("GetContractByJobAd: %v", err)
	}
	if _, err := e.svc.Contract.GetContractByJobAd(ctx, asProvider(chosen), jobAdId); err != nil {
		t.Fatalf("GetContractByJobAd for the provider: %v", err)
	}

	stranger := e.client(t, "stranger@example.com")
	for _, p := range []entity.Principal{asClient(stranger), asProvider(other), {UserId: uuid.New()}} {
		if _, err := e.svc.Contract.GetContractByJobAd(ctx, p, jobAdId); !errors.Is(err, service.ErrContractNotFound) {
			t.Fatalf("%+v: expected ErrContractNotFound, got %v", p, err)
		}
		if _, err := e.svc.Contract.GetContractById(ctx, p, contract.Id); !errors.Is(err, service.ErrContractNotFound) {
			t.Fatalf("%+v: expected ErrContractNotFound by id, got %v", p, err)
		}
	}
}

func TestContractCopiesShareDraftDate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	clientId := e.client(t, "client@example.com")
	spId := e.provider(t, "provider@example.com")
	jobAdId := e.jobAd(t, clientId)
	e.apply(t, spId, jobAdId)
	if err := e.svc.Account.UpdateBankDetails(ctx, spId, "HR1210010051863000160", "Zagrebacka banka"); err != nil {
		t.Fatalf("UpdateBankDetails: %v", err)
	}

	if _, err := e.svc.Contract.GenerateClientContract(ctx, clientId, jobAdId, spId, signature(t)); err != nil {
		t.Fatalf("GenerateClientContract: %v", err)
	}

	e.now = e.now.Add(3 * 24 * time.Hour)
	redrafted := e.now
	clientCopy, err := e.svc.Contract.GenerateClientContract(ctx, clientId, jobAdId, spId, signature(t))
	if err != nil {
		t.Fatalf("GenerateClientContract again: %v", err)
	}

	e.now = e.now.Add(2*24*time.Hour + 20*time.Hour)
	providerCopy, err := e.svc.Contract.GenerateServiceProviderContract(ctx, spId, jobAdId, signature(t))
	if err != nil {
		t.Fatalf("GenerateServiceProviderContract: %v", err)
	}

	contract, err := e.repos.JobContract.GetContractByJobAdId(ctx, jobAdId)
	if err != nil {
		t.Fatalf("GetContractByJobAdId: %v", err)
	}
	if !contract.DraftedAt.Equal(redrafted) {
		t.Fatalf("expected draft date %s, got %s", redrafted, contract.DraftedAt)
	}

	stamp := []byte("/CreationDate (D:" + redrafted.Format("20060102150405") + ")")
	if !bytes.Contains(clientCopy, stamp) || !bytes.Contains(providerCopy, stamp) {
		t.Fatalf("copies are not dated %s", redrafted.Format(time.DateOnly))
	}
}

func TestMarkJobComplete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	clientId := e.client(t, "client@example.com")
	spId := e.provider(t, "provider@example.com")
	jobAdId := e.jobAd(t, clientId)
	e.apply(t, spId, jobAdId)

	if err := e.svc.Contract.MarkJobComplete(ctx, clientId, jobAdId); !errors.Is(err, service.ErrJobNotOngoing) {
		t.Fatalf("expected ErrJobNotOngoing before selection, got %v", err)
	}
	if err := e.svc.Contract.SelectCandidate(ctx, jobAdId, spId); err != nil {
		t.Fatalf("SelectCandidate: %v", err)
	}
	if err := e.svc.Contract.MarkJobComplete(ctx, clientId, jobAdId); !errors.Is(err, service.ErrJobNotOngoing) {
		t.Fatalf("expected ErrJobNotOngoing before signing, got %v", err)
	}
	if err := e.svc.Contract.MarkJobComplete(ctx, uuid.New(), jobAdId); !errors.Is(err, service.ErrUserIsNotJobOwner) {
		t.Fatalf("expected ErrUserIsNotJobOwner, got %v", err)
	}
	if err := e.svc.Contract.SelectCandidate(ctx, jobAdId, uuid.New()); !errors.Is(err, service.ErrVacancyNotFound) {
		t.Fatalf("expected ErrVacancyNotFound, got %v", err)
	}
}

func TestGetContractMissing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p := asClient(uuid.New())
	if _, err := e.svc.Contract.GetContractByJobAd(ctx, p, uuid.New()); !errors.Is(err, service.ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
	if _, err := e.svc.Contract.GetContractById(ctx, p, uuid.New()); !errors.Is(err, service.ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
}
