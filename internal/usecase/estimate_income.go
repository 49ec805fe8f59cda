package usecase

import (
	"errors"
	"fmt"
)

// Calculator limits and hourly rates (BYN) shown on the landing page.
const (
	MinHoursPerDay = 4
	MaxHoursPerDay = 12
	MinDaysPerWeek = 2
	MaxDaysPerWeek = 7

	DefaultHoursPerDay = 8
	DefaultDaysPerWeek = 5

	FootHourlyRate    = 12
	VehicleHourlyRate = 15
	WeeksPerMonth     = 4
)

var ErrInvalidIncomeParams = errors.New("invalid income estimate parameters")

// EstimateIncome is a rough projection, not a promise: real income depends on
// the district and the number of orders.
func EstimateIncome(in IncomeEstimateInput) (IncomeEstimate, error) {
	if in.Hours < MinHoursPerDay || in.Hours > MaxHoursPerDay {
		return IncomeEstimate{}, fmt.Errorf("%w: hours must be between %d and %d", ErrInvalidIncomeParams, MinHoursPerDay, MaxHoursPerDay)
	}
	if in.Days < MinDaysPerWeek || in.Days > MaxDaysPerWeek {
		return IncomeEstimate{}, fmt.Errorf("%w: days must be between %d and %d", ErrInvalidIncomeParams, MinDaysPerWeek, MaxDaysPerWeek)
	}

	rate := FootHourlyRate
	if in.Vehicle {
		rate = VehicleHourlyRate
	}

	daily := in.Hours * rate
	weekly := daily * in.Days
	return IncomeEstimate{
		HourlyRate: rate,
		Daily:      daily,
		Weekly:     weekly,
		Monthly:    weekly * WeeksPerMonth,
	}, nil
}
