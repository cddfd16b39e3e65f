package service

import (
	"jobify-api/internal/entity"
	"time"

	"github.com/shopspring/decimal"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func mapJobAd(j *entity.JobAd) *entity.JobAdOutputModel {
	out := &entity.JobAdOutputModel{
		Id:                  j.Id.String(),
		ClientId:            j.ClientId.String(),
		Title:               j.Title,
		Description:         j.Description,
		HourlyRate:          j.HourlyRate.StringFixed(2),
		PaymentCurrency:     j.PaymentCurrency,
		WorkingHours:        j.WorkingHours,
		Duration:            j.Duration,
		WorkDeadline:        formatTime(j.WorkDeadline),
		ApplicationDeadline: formatTime(j.ApplicationDeadline),
		Status:              j.Status,
		CreatedAt:           formatTime(j.CreatedAt),
	}

	if pay, err := ComputeTotalPay(j.Duration, j.WorkingHours, j.HourlyRate); err == nil {
		out.TotalPay = pay.StringFixed(2)
	}

	return out
}

func mapJobVacancy(v *entity.JobVacancy) *entity.JobVacancyOutputModel {
	return &entity.JobVacancyOutputModel{
		Id:                v.Id.String(),
		JobAdId:           v.JobAdId.String(),
		ServiceProviderId: v.ServiceProviderId.String(),
		JobStatus:         v.JobStatus,
		ApplicationStatus: v.ApplicationStatus,
		AppliedAt:         formatTime(v.AppliedAt),
	}
}

func mapJobVacancies(vacancies []entity.JobVacancy) []entity.JobVacancyOutputModel {
	out := make([]entity.JobVacancyOutputModel, 0, len(vacancies))
	for i := range vacancies {
		out = append(out, *mapJobVacancy(&vacancies[i]))
	}

	return out
}

func mapAccount(a *entity.Account) entity.AccountOutputModel {
	return entity.AccountOutputModel{
		Id:     a.Id.String(),
		Email:  a.Email,
		Role:   string(a.Role),
		Status: a.Status,
	}
}

// minorToDecimal turns a provider amount back into major units.
func minorToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
