package pgdb_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"jobify-api/internal/common"
	"jobify-api/internal/entity"
	"jobify-api/internal/repo"
	"jobify-api/internal/repo/repo_errors"
	"jobify-api/internal/repo/repotest"
	"jobify-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func setupRepos(t *testing.T) (*repo.Repositories, *sql.DB) {
	t.Helper()
	db := repotest.Open(t)

	return repo.NewRepositories(postgres.Wrap(db, squirrel.Question)), db
}

type fixture struct {
	clientId  uuid.UUID
	jobAdId   uuid.UUID
	providers []uuid.UUID
}

func seed(t *testing.T, repos *repo.Repositories, providers int) fixture {
	t.Helper()
	ctx := context.Background()

	clientId, err := repos.Client.CreateClient(ctx, &entity.RegisterClientInput{
		Email: "client@example.com", Password: "hash", Type: common.ClientIndividual,
		FirstName: "Ana", LastName: "Kovac", Address: "Main 1", City: "Zagreb", Country: "Croatia",
	})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	jobAdId, err := repos.JobAd.CreateJobAd(ctx, &entity.CreateJobAdInput{
		ClientId: clientId, Title: "Fence", Description: "Paint the fence", HourlyRate: decimal.NewFromInt(20),
		PaymentCurrency: "EUR", WorkingHours: 8, Duration: "2 weeks",
		WorkDeadline: time.Now().Add(30 * 24 * time.Hour), ApplicationDeadline: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateJobAd: %v", err)
	}

	f := fixture{clientId: clientId, jobAdId: jobAdId}
	for i := 0; i < providers; i++ {
		spId, err := repos.ServiceProvider.CreateServiceProvider(ctx, &entity.RegisterServiceProviderInput{
			Email: uuid.NewString() + "@example.com", Password: "hash", FirstName: "Ivo", LastName: "Horvat",
			Address: "Side 2", City: "Split", Country: "Croatia",
		})
		if err != nil {
			t.Fatalf("CreateServiceProvider: %v", err)
		}
		if _, err := repos.JobVacancy.CreateJobVacancy(ctx, jobAdId, spId); err != nil {
			t.Fatalf("CreateJobVacancy: %v", err)
		}
		f.providers = append(f.providers, spId)
	}

	return f
}

func TestClientAndAccount(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	if _, err := repos.Client.GetClientById(ctx, uuid.New()); !errors.Is(err, repo_errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	f := seed(t, repos, 1)

	_, err := repos.Client.CreateClient(ctx, &entity.RegisterClientInput{Email: "client@example.com", Password: "x", Type: common.ClientIndividual})
	if !errors.Is(err, repo_errors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists on duplicate email, got %v", err)
	}

	client, err := repos.Client.GetClientById(ctx, f.clientId)
	if err != nil {
		t.Fatalf("GetClientById: %v", err)
	}
	if client.DisplayName() != "Ana Kovac" || client.Status != common.AccountActive {
		t.Fatalf("unexpected client: %#v", client)
	}

	account, err := repos.Account.GetAccountByEmail(ctx, "client@example.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail: %v", err)
	}
	if account.Role != entity.RoleClient || account.Id != f.clientId {
		t.Fatalf("unexpected account: %#v", account)
	}

	if err := repos.Account.UpdateAccountStatus(ctx, entity.RoleServiceProvider, f.providers[0], common.AccountDeactivated); err != nil {
		t.Fatalf("UpdateAccountStatus: %v", err)
	}
	sp, err := repos.Account.GetAccountById(ctx, entity.RoleServiceProvider, f.providers[0])
	if err != nil {
		t.Fatalf("GetAccountById: %v", err)
	}
	if sp.Status != common.AccountDeactivated {
		t.Fatalf("expected deactivated, got %s", sp.Status)
	}

	if err := repos.Account.UpdatePassword(ctx, entity.RoleClient, uuid.New(), "x"); !errors.Is(err, repo_errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}

	ok, err := repos.ServiceProvider.UpdateBankDetails(ctx, f.providers[0], "HR1210010051863000160", "Zagrebacka banka")
	if err != nil || !ok {
		t.Fatalf("UpdateBankDetails: %v %v", ok, err)
	}
	provider, err := repos.ServiceProvider.GetServiceProviderById(ctx, f.providers[0])
	if err != nil {
		t.Fatalf("GetServiceProviderById: %v", err)
	}
	if !provider.HasBankDetails() {
		t.Fatalf("expected bank details to be stored")
	}

	deleted, err := repos.Account.DeleteAccount(ctx, entity.RoleServiceProvider, f.providers[0])
	if err != nil || !deleted {
		t.Fatalf("DeleteAccount: %v %v", deleted, err)
	}
	if _, err := repos.Account.GetAccountById(ctx, entity.RoleServiceProvider, f.providers[0]); !errors.Is(err, repo_errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestJobAdWithClient(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	f := seed(t, repos, 0)

	job, err := repos.JobAd.GetJobAdWithClient(ctx, f.jobAdId)
	if err != nil {
		t.Fatalf("GetJobAdWithClient: %v", err)
	}
	if job.Client.Id != f.clientId || job.Client.City != "Zagreb" {
		t.Fatalf("client not joined: %#v", job.Client)
	}
	if !job.HourlyRate.Equal(decimal.NewFromInt(20)) || job.WorkingHours != 8 || job.Status != common.JobAdActive {
		t.Fatalf("unexpected job ad: %#v", job.JobAd)
	}

	if err := repos.JobAd.UpdateJobAdStatus(ctx, f.jobAdId, common.JobAdInactive); err != nil {
		t.Fatalf("UpdateJobAdStatus: %v", err)
	}
	got, err := repos.JobAd.GetJobAdById(ctx, f.jobAdId)
	if err != nil {
		t.Fatalf("GetJobAdById: %v", err)
	}
	if got.Status != common.JobAdInactive {
		t.Fatalf("unexpected job ad after updates: %#v", got)
	}
}

func TestSelectCandidateIsExclusiveAndIdempotent(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	f := seed(t, repos, 3)

	if _, err := repos.JobVacancy.CreateJobVacancy(ctx, f.jobAdId, f.providers[0]); !errors.Is(err, repo_errors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists on second application, got %v", err)
	}

	if err := repos.JobVacancy.SelectCandidate(ctx, f.jobAdId, uuid.New()); !errors.Is(err, repo_errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a provider that did not apply, got %v", err)
	}

	assertSelected := func(chosen uuid.UUID) {
		t.Helper()
		vacancies, err := repos.JobVacancy.GetJobVacancies(ctx, f.jobAdId)
		if err != nil {
			t.Fatalf("GetJobVacancies: %v", err)
		}
		if len(vacancies) != 3 {
			t.Fatalf("expected 3 vacancies, got %d", len(vacancies))
		}
		for _, v := range vacancies {
			want := common.ApplicationRejected
			if v.ServiceProviderId == chosen {
				want = common.ApplicationSelected
			}
			if v.ApplicationStatus != want {
				t.Fatalf("vacancy of %s: got %s, want %s", v.ServiceProviderId, v.ApplicationStatus, want)
			}
		}
	}

	for i := 0; i < 2; i++ {
		if err := repos.JobVacancy.SelectCandidate(ctx, f.jobAdId, f.providers[1]); err != nil {
			t.Fatalf("SelectCandidate: %v", err)
		}
		assertSelected(f.providers[1])
	}

	if err := repos.JobVacancy.SelectCandidate(ctx, f.jobAdId, f.providers[2]); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	assertSelected(f.providers[2])

	selected, err := repos.JobVacancy.GetSelectedJobVacancy(ctx, f.jobAdId)
	if err != nil {
		t.Fatalf("GetSelectedJobVacancy: %v", err)
	}
	if selected.ServiceProviderId != f.providers[2] {
		t.Fatalf("wrong selected vacancy: %#v", selected)
	}
}

func TestVacancyPaymentAccount(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	f := seed(t, repos, 1)
	sp := f.providers[0]

	has, err := repos.JobVacancy.HasStripeAccount(ctx, sp, "acct_1")
	if err != nil || has {
		t.Fatalf("expected no account yet: %v %v", has, err)
	}

	ok, err := repos.JobVacancy.SaveStripeAccount(ctx, uuid.New(), sp, "acct_1")
	if err != nil || ok {
		t.Fatalf("unknown job ad must affect no rows: %v %v", ok, err)
	}
	ok, err = repos.JobVacancy.SaveStripeAccount(ctx, f.jobAdId, sp, "acct_1")
	if err != nil || !ok {
		t.Fatalf("SaveStripeAccount: %v %v", ok, err)
	}

	has, err = repos.JobVacancy.HasStripeAccount(ctx, sp, "acct_1")
	if err != nil || !has {
		t.Fatalf("expected account to be linked: %v %v", has, err)
	}

	if _, err := repos.JobVacancy.GetCompletedJobVacancy(ctx, f.jobAdId); !errors.Is(err, repo_errors.ErrNotFound) {
		t.Fatalf("expected no completed vacancy, got %v", err)
	}
	if ok, err := repos.JobVacancy.UpdateJobStatus(ctx, f.jobAdId, sp, common.JobCompleted); err != nil || !ok {
		t.Fatalf("UpdateJobStatus: %v %v", ok, err)
	}
	completed, err := repos.JobVacancy.GetCompletedJobVacancy(ctx, f.jobAdId)
	if err != nil {
		t.Fatalf("GetCompletedJobVacancy: %v", err)
	}
	if completed.ServiceProviderStripeAccountId != "acct_1" {
		t.Fatalf("unexpected account id %q", completed.ServiceProviderStripeAccountId)
	}

	if ok, err := repos.JobVacancy.CompleteApplication(ctx, f.jobAdId, "acct_1"); err != nil || !ok {
		t.Fatalf("CompleteApplication: %v %v", ok, err)
	}
	v, err := repos.JobVacancy.GetJobVacancy(ctx, f.jobAdId, sp)
	if err != nil {
		t.Fatalf("GetJobVacancy: %v", err)
	}
	if v.ApplicationStatus != common.ApplicationCompleted {
		t.Fatalf("expected completed application, got %s", v.ApplicationStatus)
	}
}

func TestOneContractPerJobAd(t *testing.T) {
	repos, db := setupRepos(t)
	ctx := context.Background()
	f := seed(t, repos, 1)

	if _, err := repos.JobContract.GetContractByJobAdId(ctx, f.jobAdId); !errors.Is(err, repo_errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	drafted := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	var firstId uuid.UUID
	for i := 0; i < 3; i++ {
		id, err := repos.JobContract.SaveClientContract(ctx, f.jobAdId, f.providers[0], []byte{'%', 'P', 'D', 'F', byte(i)}, []byte("sig"), drafted.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("SaveClientContract: %v", err)
		}
		if i == 0 {
			firstId = id
		} else if id != firstId {
			t.Fatalf("upsert returned a new id %s, want %s", id, firstId)
		}
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM job_contract WHERE job_ad_id = ?", f.jobAdId.String()).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one contract row, got %d", n)
	}

	c, err := repos.JobContract.GetContractById(ctx, firstId)
	if err != nil {
		t.Fatalf("GetContractById: %v", err)
	}
	if c.Status != common.ContractPending || !c.ClientSigned() || c.Contract[4] != 2 {
		t.Fatalf("unexpected contract: status=%s signed=%v", c.Status, c.ClientSigned())
	}
	if !c.DraftedAt.Equal(drafted.AddDate(0, 0, 2)) {
		t.Fatalf("redraft must refresh the draft date, got %s", c.DraftedAt)
	}
	if v, _ := repos.JobVacancy.GetJobVacancy(ctx, f.jobAdId, f.providers[0]); v.ApplicationStatus != common.ApplicationSelected {
		t.Fatalf("saving the contract must select the provider, got %s", v.ApplicationStatus)
	}

	ok, err := repos.JobContract.SaveServiceProviderContract(ctx, f.jobAdId, []byte("%PDF-final"), []byte("sp-sig"))
	if err != nil || !ok {
		t.Fatalf("SaveServiceProviderContract: %v %v", ok, err)
	}
	ok, err = repos.JobContract.SavePricing(ctx, uuid.New(), f.jobAdId, "price_x", "prod_x", "cus_x")
	if err != nil || ok {
		t.Fatalf("pricing must not be saved for a foreign client: %v %v", ok, err)
	}
	c, err = repos.JobContract.GetContractByJobAdId(ctx, f.jobAdId)
	if err != nil {
		t.Fatalf("GetContractByJobAdId: %v", err)
	}
	if c.PriceId != "" {
		t.Fatalf("rejected pricing left price %q behind", c.PriceId)
	}

	ok, err = repos.JobContract.SavePricing(ctx, f.clientId, f.jobAdId, "price_1", "prod_1", "cus_1")
	if err != nil || !ok {
		t.Fatalf("SavePricing: %v %v", ok, err)
	}
	job, err := repos.JobAd.GetJobAdById(ctx, f.jobAdId)
	if err != nil || job.CustomerId != "cus_1" {
		t.Fatalf("customer not stored with the price: %v", err)
	}

	c, err = repos.JobContract.GetContractByJobAdId(ctx, f.jobAdId)
	if err != nil {
		t.Fatalf("GetContractByJobAdId: %v", err)
	}
	if c.Status != common.ContractCompleted || string(c.ServiceProviderSignature) != "sp-sig" || c.PriceId != "price_1" {
		t.Fatalf("unexpected contract after counter-signing: %#v", c)
	}
}

func TestClientContractRollsBackWithoutVacancy(t *testing.T) {
	repos, db := setupRepos(t)
	ctx := context.Background()
	f := seed(t, repos, 1)

	_, err := repos.JobContract.SaveClientContract(ctx, f.jobAdId, uuid.New(), []byte("%PDF"), []byte("sig"), time.Now())
	if !errors.Is(err, repo_errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a provider that did not apply, got %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM job_contract").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("contract must not be stored when selection fails, got %d rows", n)
	}
}

func TestContractPaymentLifecycle(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	f := seed(t, repos, 1)
	sp := f.providers[0]

	contractId, err := repos.JobContract.SaveClientContract(ctx, f.jobAdId, sp, []byte("%PDF"), nil, time.Now())
	if err != nil {
		t.Fatalf("SaveClientContract: %v", err)
	}

	if _, err := repos.ContractPayment.GetPaymentData(ctx, f.jobAdId, f.clientId); !errors.Is(err, repo_errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before the job is completed, got %v", err)
	}

	if _, err := repos.JobVacancy.SaveStripeAccount(ctx, f.jobAdId, sp, "acct_1"); err != nil {
		t.Fatalf("SaveStripeAccount: %v", err)
	}
	if _, err := repos.JobVacancy.UpdateJobStatus(ctx, f.jobAdId, sp, common.JobCompleted); err != nil {
		t.Fatalf("UpdateJobStatus: %v", err)
	}

	data, err := repos.ContractPayment.GetPaymentData(ctx, f.jobAdId, f.clientId)
	if err != nil {
		t.Fatalf("GetPaymentData: %v", err)
	}
	if data.JobContractId != contractId || data.ServiceProviderAccountId != "acct_1" || data.InvoiceId != "" ||
		data.ClientType != common.ClientIndividual {
		t.Fatalf("unexpected payment data: %#v", data)
	}
	if _, err := repos.ContractPayment.GetPaymentData(ctx, f.jobAdId, uuid.New()); !errors.Is(err, repo_errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a foreign client, got %v", err)
	}

	first, err := repos.ContractPayment.SaveContractPayment(ctx, contractId, "in_1", decimal.NewFromInt(2240))
	if err != nil {
		t.Fatalf("SaveContractPayment: %v", err)
	}
	second, err := repos.ContractPayment.SaveContractPayment(ctx, contractId, "in_1", decimal.NewFromInt(2240))
	if err != nil {
		t.Fatalf("SaveContractPayment again: %v", err)
	}
	if first != second {
		t.Fatalf("expected find-or-create to keep id %s, got %s", first, second)
	}

	pending, err := repos.ContractPayment.GetPendingReconciliations(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingReconciliations: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("payments without session must not be reconciled: %#v", pending)
	}

	if ok, err := repos.ContractPayment.SaveSessionId(ctx, "in_1", "cs_1"); err != nil || !ok {
		t.Fatalf("SaveSessionId: %v %v", ok, err)
	}
	pending, err = repos.ContractPayment.GetPendingReconciliations(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingReconciliations: %v", err)
	}
	if len(pending) != 1 || pending[0].JobAdId != f.jobAdId || pending[0].SessionId != "cs_1" {
		t.Fatalf("unexpected pending reconciliations: %#v", pending)
	}

	if ok, err := repos.ContractPayment.CompletePayment(ctx, "in_1"); err != nil || !ok {
		t.Fatalf("CompletePayment: %v %v", ok, err)
	}
	if ok, err := repos.ContractPayment.SaveInvoicePdf(ctx, "in_missing", []byte("%PDF")); err != nil || ok {
		t.Fatalf("unknown invoice must affect no rows: %v %v", ok, err)
	}
	if ok, err := repos.ContractPayment.SaveInvoicePdf(ctx, "in_1", []byte("%PDF-invoice")); err != nil || !ok {
		t.Fatalf("SaveInvoicePdf: %v %v", ok, err)
	}

	payment, err := repos.ContractPayment.GetContractPaymentByInvoiceId(ctx, "in_1")
	if err != nil {
		t.Fatalf("GetContractPaymentByInvoiceId: %v", err)
	}
	if payment.Status != common.PaymentCompleted || !payment.Amount.Equal(decimal.NewFromInt(2240)) ||
		string(payment.InvoicePdf) != "%PDF-invoice" {
		t.Fatalf("unexpected payment: %#v", payment)
	}

	byContract, err := repos.ContractPayment.GetContractPaymentByContractId(ctx, contractId)
	if err != nil {
		t.Fatalf("GetContractPaymentByContractId: %v", err)
	}
	if byContract.Id != first || byContract.SessionId != "cs_1" {
		t.Fatalf("unexpected payment by contract: %#v", byContract)
	}

	if _, err := repos.ContractPayment.SaveContractPayment(ctx, contractId, "in_2", decimal.NewFromInt(10)); !errors.Is(err, repo_errors.ErrConflict) {
		t.Fatalf("expected ErrConflict for a completed payment, got %v", err)
	}
	payment, err = repos.ContractPayment.GetContractPaymentByInvoiceId(ctx, "in_1")
	if err != nil {
		t.Fatalf("completed payment lost its invoice: %v", err)
	}
	if payment.Status != common.PaymentCompleted || !payment.Amount.Equal(decimal.NewFromInt(2240)) {
		t.Fatalf("completed payment was overwritten: %#v", payment)
	}
}

func TestReplacingInvoiceClearsSession(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	f := seed(t, repos, 1)

	contractId, err := repos.JobContract.SaveClientContract(ctx, f.jobAdId, f.providers[0], []byte("%PDF"), nil, time.Now())
	if err != nil {
		t.Fatalf("SaveClientContract: %v", err)
	}
	if _, err := repos.ContractPayment.SaveContractPayment(ctx, contractId, "in_1", decimal.NewFromInt(2240)); err != nil {
		t.Fatalf("SaveContractPayment: %v", err)
	}
	if ok, err := repos.ContractPayment.SaveSessionId(ctx, "in_1", "cs_1"); err != nil || !ok {
		t.Fatalf("SaveSessionId: %v %v", ok, err)
	}
	if ok, err := repos.ContractPayment.SaveInvoicePdf(ctx, "in_1", []byte("%PDF-old")); err != nil || !ok {
		t.Fatalf("SaveInvoicePdf: %v %v", ok, err)
	}

	// same invoice keeps its session
	if _, err := repos.ContractPayment.SaveContractPayment(ctx, contractId, "in_1", decimal.NewFromInt(2240)); err != nil {
		t.Fatalf("SaveContractPayment again: %v", err)
	}
	payment, err := repos.ContractPayment.GetContractPaymentByContractId(ctx, contractId)
	if err != nil {
		t.Fatalf("GetContractPaymentByContractId: %v", err)
	}
	if payment.SessionId != "cs_1" || len(payment.InvoicePdf) == 0 {
		t.Fatalf("same invoice lost its session: %#v", payment)
	}

	if _, err := repos.ContractPayment.SaveContractPayment(ctx, contractId, "in_2", decimal.NewFromInt(2300)); err != nil {
		t.Fatalf("SaveContractPayment with a new invoice: %v", err)
	}
	payment, err = repos.ContractPayment.GetContractPaymentByContractId(ctx, contractId)
	if err != nil {
		t.Fatalf("GetContractPaymentByContractId: %v", err)
	}
	if payment.InvoiceId != "in_2" || payment.SessionId != "" || len(payment.InvoicePdf) != 0 ||
		payment.Status != common.PaymentPending || !payment.Amount.Equal(decimal.NewFromInt(2300)) {
		t.Fatalf("unexpected payment after a new invoice: %#v", payment)
	}
}
