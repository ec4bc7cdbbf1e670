// Package model defines the consignment record and its validation rules.
package model

import (
	"fmt"
	"regexp"
	"time"
)

// Weight bounds in kilograms.
const (
	MinWeight = 1
	MaxWeight = 30
)

// accountPattern matches account numbers such as "A12345".
var accountPattern = regexp.MustCompile(`^A\d{5}$`)

// Consignment is a single shipment record.
type Consignment struct {
	ID                int64  `json:"id"`
	AccountNo         string `json:"account_no"`
	Name              string `json:"name"`
	AddressLine1      string `json:"addressline1"`
	AddressLine2      string `json:"addressline2,omitempty"`
	AddressLine3      string `json:"addressline3"`
	AddressLine4      string `json:"addressline4"`
	Weight            int    `json:"weight"`
	ConsignmentNumber int64  `json:"consignment_number"`
	DeliveryDepot     int    `json:"delivery_depot"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// CreateRequest is the payload accepted when creating a consignment.
// Consignment number and delivery depot are assigned by the service.
type CreateRequest struct {
	AccountNo    string `json:"account_no"`
	Name         string `json:"name"`
	AddressLine1 string `json:"addressline1"`
	AddressLine2 string `json:"addressline2"`
	AddressLine3 string `json:"addressline3"`
	AddressLine4 string `json:"addressline4"`
	Weight       int    `json:"weight"`
}

// Patch is a partial update. Nil fields are left untouched.
// The owning account is immutable, so there is no account field.
type Patch struct {
	Name         *string `json:"name"`
	AddressLine1 *string `json:"addressline1"`
	AddressLine2 *string `json:"addressline2"`
	AddressLine3 *string `json:"addressline3"`
	AddressLine4 *string `json:"addressline4"`
	Weight       *int    `json:"weight"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.AddressLine1 == nil && p.AddressLine2 == nil &&
		p.AddressLine3 == nil && p.AddressLine4 == nil && p.Weight == nil
}

// ValidationError describes a rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidAccountNo reports whether s is a well-formed account number.
func ValidAccountNo(s string) bool {
	return accountPattern.MatchString(s)
}

func checkLength(field, value string, min, max int, required bool) error {
	if value == "" {
		if required {
			return &ValidationError{Field: field, Reason: "required"}
		}
		return nil
	}
	if len(value) < min || len(value) > max {
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("must be between %d and %d characters", min, max),
		}
	}
	return nil
}

func checkWeight(w int) error {
	if w < MinWeight || w > MaxWeight {
		return &ValidationError{
			Field:  "weight",
			Reason: fmt.Sprintf("must be between %d and %d", MinWeight, MaxWeight),
		}
	}
	return nil
}

// Validate checks the shape of a creation payload.
func (r CreateRequest) Validate() error {
	if !ValidAccountNo(r.AccountNo) {
		return &ValidationError{Field: "account_no", Reason: "must match A followed by five digits"}
	}
	if err := checkLength("name", r.Name, 3, 30, true); err != nil {
		return err
	}
	if err := checkLength("addressline1", r.AddressLine1, 2, 30, true); err != nil {
		return err
	}
	if err := checkLength("addressline2", r.AddressLine2, 2, 30, false); err != nil {
		return err
	}
	if err := checkLength("addressline3", r.AddressLine3, 2, 30, true); err != nil {
		return err
	}
	if err := checkLength("addressline4", r.AddressLine4, 2, 30, true); err != nil {
		return err
	}
	return checkWeight(r.Weight)
}

// Validate checks only the fields present in the patch.
func (p Patch) Validate() error {
	if p.Name != nil {
		if err := checkLength("name", *p.Name, 3, 30, true); err != nil {
			return err
		}
	}
	if p.AddressLine1 != nil {
		if err := checkLength("addressline1", *p.AddressLine1, 2, 30, true); err != nil {
			return err
		}
	}
	if p.AddressLine2 != nil && *p.AddressLine2 != "" {
		if err := checkLength("addressline2", *p.AddressLine2, 2, 30, false); err != nil {
			return err
		}
	}
	if p.AddressLine3 != nil {
		if err := checkLength("addressline3", *p.AddressLine3, 2, 30, true); err != nil {
			return err
		}
	}
	if p.AddressLine4 != nil {
		if err := checkLength("addressline4", *p.AddressLine4, 2, 30, true); err != nil {
			return err
		}
	}
	if p.Weight != nil {
		return checkWeight(*p.Weight)
	}
	return nil
}
