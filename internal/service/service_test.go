package service_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"
	"time"

	"jobify-api/internal/auth"
	"jobify-api/internal/common"
	"jobify-api/internal/entity"
	"jobify-api/internal/gateway/gatewaytest"
	"jobify-api/internal/repo"
	"jobify-api/internal/repo/repotest"
	"jobify-api/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const applicationFee = 500

type env struct {
	svc      *service.Services
	repos    *repo.Repositories
	payments *gatewaytest.Payments
	now      time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		repos:    repotest.Repositories(t),
		payments: gatewaytest.New(),
		now:      time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC),
	}
	e.svc = service.NewServices(e.repos, service.Dependencies{
		Payments:       e.payments,
		Tokens:         auth.NewTokens("test-secret", time.Hour),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		PublicBaseURL:  "http://localhost:3000/",
		ApplicationFee: applicationFee,
		Now:            func() time.Time { return e.now },
	})

	return e
}

func (e *env) client(t *testing.T, email string) uuid.UUID {
	t.Helper()
	out, err := e.svc.Account.RegisterClient(context.Background(), &entity.RegisterClientInput{
		Email: email, Password: "secret-pass", Type: common.ClientIndividual,
		FirstName: "Ana", LastName: "Kovac", Address: "Main 1", City: "Zagreb", Country: "Croatia",
	})
	if err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}

	return uuid.MustParse(out.User.Id)
}

func (e *env) provider(t *testing.T, email string) uuid.UUID {
	t.Helper()
	out, err := e.svc.Account.RegisterServiceProvider(context.Background(), &entity.RegisterServiceProviderInput{
		Email: email, Password: "secret-pass", FirstName: "Ivo", LastName: "Horvat",
		Address: "Side 2", City: "Split", Country: "Croatia",
	})
	if err != nil {
		t.Fatalf("RegisterServiceProvider: %v", err)
	}

	return uuid.MustParse(out.User.Id)
}

func (e *env) jobAd(t *testing.T, clientId uuid.UUID) uuid.UUID {
	t.Helper()
	out, err := e.svc.Job.CreateJobAd(context.Background(), &entity.CreateJobAdInput{
		ClientId:            clientId,
		Title:               "Fence",
		Description:         "Paint the fence around the house",
		HourlyRate:          decimal.NewFromInt(20),
		PaymentCurrency:     "EUR",
		WorkingHours:        8,
		Duration:            "2 weeks",
		WorkDeadline:        e.now.Add(30 * 24 * time.Hour),
		ApplicationDeadline: e.now.Add(5 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateJobAd: %v", err)
	}

	return uuid.MustParse(out.Id)
}

func (e *env) apply(t *testing.T, spId uuid.UUID, jobAdId uuid.UUID) {
	t.Helper()
	if _, err := e.svc.Job.ApplyToJob(context.Background(), spId, jobAdId); err != nil {
		t.Fatalf("ApplyToJob: %v", err)
	}
}

func (e *env) vacancy(t *testing.T, jobAdId uuid.UUID, spId uuid.UUID) *entity.JobVacancy {
	t.Helper()
	v, err := e.repos.JobVacancy.GetJobVacancy(context.Background(), jobAdId, spId)
	if err != nil {
		t.Fatalf("GetJobVacancy: %v", err)
	}

	return v
}

type deal struct {
	clientId  uuid.UUID
	spId      uuid.UUID
	jobAdId   uuid.UUID
	accountId string
}

// completedDeal drives one job through signing and completion and links the
// provider's connected account to it.
func (e *env) completedDeal(t *testing.T) deal {
	t.Helper()
	ctx := context.Background()

	d := deal{clientId: e.client(t, "client@example.com"), spId: e.provider(t, "provider@example.com")}
	d.jobAdId = e.jobAd(t, d.clientId)
	e.apply(t, d.spId, d.jobAdId)

	if err := e.svc.Account.UpdateBankDetails(ctx, d.spId, "hr12 1001 0051 8630 0016 0", "Zagrebacka banka"); err != nil {
		t.Fatalf("UpdateBankDetails: %v", err)
	}
	if _, err := e.svc.Contract.GenerateClientContract(ctx, d.clientId, d.jobAdId, d.spId, signature(t)); err != nil {
		t.Fatalf("GenerateClientContract: %v", err)
	}
	if _, err := e.svc.Contract.GenerateServiceProviderContract(ctx, d.spId, d.jobAdId, signature(t)); err != nil {
		t.Fatalf("GenerateServiceProviderContract: %v", err)
	}
	if err := e.svc.Contract.MarkJobComplete(ctx, d.clientId, d.jobAdId); err != nil {
		t.Fatalf("MarkJobComplete: %v", err)
	}

	link, err := e.svc.Payment.CreateConnectedAccount(ctx, d.spId, "provider@example.com", "Croatia")
	if err != nil {
		t.Fatalf("CreateConnectedAccount: %v", err)
	}
	if ok, err := e.svc.Payment.RecordOnboardedAccount(ctx, d.spId, d.jobAdId, link.AccountId); err != nil || !ok {
		t.Fatalf("RecordOnboardedAccount: %v %v", ok, err)
	}
	d.accountId = link.AccountId

	return d
}

func asClient(id uuid.UUID) entity.Principal {
	return entity.Principal{UserId: id, Role: entity.RoleClient}
}

func asProvider(id uuid.UUID) entity.Principal {
	return entity.Principal{UserId: id, Role: entity.RoleServiceProvider}
}

func signature(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 120, 40))
	for x := 10; x < 110; x++ {
		img.SetGray(x, 20, color.Gray{Y: 255})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	return buf.Bytes()
}

func isPdf(b []byte) bool {
	return bytes.HasPrefix(b, []byte("%PDF-"))
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
