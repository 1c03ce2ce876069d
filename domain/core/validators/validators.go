// Package validators holds the construction rules of entities that refuse
// incomplete field sets.
package validators

import (
	"time"

	pkgerrors "funder/pkg/errors"
	"funder/pkg/utils"

	"github.com/shopspring/decimal"
)

// GoalFields are the fields a Goal is built from. previous and next may be
// empty; everything else must be set.
type GoalFields struct {
	ID       string          `json:"id" validate:"required"`
	Parent   string          `json:"for" validate:"required"`
	Previous string          `json:"previous"`
	Next     string          `json:"next"`
	Start    time.Time       `json:"start" validate:"required"`
	End      time.Time       `json:"end" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
}

// ValidateGoal checks that every required goal field is set
func ValidateGoal(f GoalFields) error {
	if err := utils.ValidateStruct(f); err != nil {
		return err
	}
	// decimal.Decimal is a struct the validator cannot see inside
	if f.Amount.IsZero() {
		return pkgerrors.NewArgumentError("amount")
	}
	return nil
}

// LocatorFields are the fields a Locator is built from
type LocatorFields struct {
	ID        string `json:"id" validate:"required"`
	Parent    string `json:"parent" validate:"required"`
	Scope     string `json:"scope" validate:"required"`
	Role      string `json:"role" validate:"required"`
	Reference string `json:"reference" validate:"required"`
}

// ValidateLocator checks that every locator field is set
func ValidateLocator(f LocatorFields) error {
	return utils.ValidateStruct(f)
}
