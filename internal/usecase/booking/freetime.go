package booking

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/glowpoint/salon-api/internal/domain/booking"
	"github.com/glowpoint/salon-api/internal/models"
)

// ======================================================
// INPUT / RESULT
// ======================================================

type GenerateFreeTimeInput struct {
	ServiceID     uint
	SpecialistIDs []uint

	DateFrom string
	DateTo   string
	Days     domain.DayFilter

	Times []string // 15:04
}

type GenerateFreeTimeResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// ======================================================
// USE CASE
// ======================================================

// GenerateFreeTime bulk-creates schedule slots: one per matching date per
// specialist per time, skipping exact duplicates and anything closer than
// gapMinutes to an existing slot of the same specialist and date.
type GenerateFreeTime struct {
	repo       domain.Repository
	gapMinutes int
}

func NewGenerateFreeTime(repo domain.Repository, gapMinutes int) *GenerateFreeTime {
	return &GenerateFreeTime{
		repo:       repo,
		gapMinutes: gapMinutes,
	}
}

func (uc *GenerateFreeTime) Execute(
	ctx context.Context,
	in GenerateFreeTimeInput,
) (*GenerateFreeTimeResult, error) {

	dates, err := domain.ExpandDates(in.DateFrom, in.DateTo, in.Days)
	if err != nil {
		return nil, err
	}

	for _, tm := range in.Times {
		if _, err := domain.MinutesOfDay(tm); err != nil {
			return nil, err
		}
	}

	var result GenerateFreeTimeResult

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {

		if _, err := tx.GetService(ctx, in.ServiceID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrServiceNotFound
			}
			return err
		}

		for _, specialistID := range in.SpecialistIDs {
			if _, err := tx.GetSpecialist(ctx, specialistID); err != nil {
				if err == gorm.ErrRecordNotFound {
					return domain.ErrSpecialistNotFound
				}
				return err
			}

			for _, date := range dates {
				existing, err := tx.ListSlotTimes(ctx, specialistID, date)
				if err != nil {
					return err
				}

				for _, tm := range in.Times {
					if contains(existing, tm) || domain.TooClose(existing, tm, uc.gapMinutes) {
						result.Skipped++
						continue
					}

					slot := models.ScheduleSlot{
						SpecialistID: specialistID,
						ServiceID:    in.ServiceID,
						Date:         date,
						Time:         tm,
						Available:    true,
					}
					if err := tx.CreateSlot(ctx, &slot); err != nil {
						return err
					}

					// times created in this request separate from each other too
					existing = append(existing, tm)
					result.Created++
				}
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}
	return &result, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
