package offers

import (
	"strconv"
	"strings"
	"time"

	"savoro/models"
)

// Input carries the raw form fields of an offer create/update request.
// Everything arrives as strings because the endpoints are multipart.
type Input struct {
	Title          string
	Description    string
	Discount       string
	Code           string
	ValidFrom      string
	ValidUntil     string
	MinOrderAmount string
	IsActive       string
}

func inputFromForm(get func(string) string) Input {
	return Input{
		Title:          strings.TrimSpace(get("title")),
		Description:    strings.TrimSpace(get("description")),
		Discount:       strings.TrimSpace(get("discount")),
		Code:           strings.TrimSpace(get("code")),
		ValidFrom:      strings.TrimSpace(get("validFrom")),
		ValidUntil:     strings.TrimSpace(get("validUntil")),
		MinOrderAmount: strings.TrimSpace(get("minOrderAmount")),
		IsActive:       strings.TrimSpace(get("isActive")),
	}
}

// Redeemable reports whether an offer can be applied at instant now: the
// active flag is set and now falls inside [validFrom, validUntil).
func Redeemable(offer models.Offer, now time.Time) bool {
	return offer.IsActive && !now.Before(offer.ValidFrom) && now.Before(offer.ValidUntil)
}

// ValidateNew checks a full create request. Returns the normalized offer and
// the list of offending fields; the offer is only meaningful when the list is
// empty. Codes are upper-cased here, which is what makes uniqueness
// case-insensitive by construction.
func ValidateNew(in Input) (models.Offer, []string) {
	var bad []string
	var offer models.Offer

	if in.Title == "" {
		bad = append(bad, "title")
	}
	offer.Title = in.Title

	if in.Description == "" {
		bad = append(bad, "description")
	}
	offer.Description = in.Description

	if in.Discount == "" {
		bad = append(bad, "discount")
	} else if d, err := strconv.ParseFloat(in.Discount, 64); err != nil || d < 0 || d > 100 {
		bad = append(bad, "discount")
	} else {
		offer.DiscountPercent = d
	}

	if in.Code == "" {
		bad = append(bad, "code")
	}
	offer.Code = strings.ToUpper(in.Code)

	from, fromErr := time.Parse(time.RFC3339, in.ValidFrom)
	if in.ValidFrom == "" || fromErr != nil {
		bad = append(bad, "validFrom")
	}
	offer.ValidFrom = from

	until, untilErr := time.Parse(time.RFC3339, in.ValidUntil)
	if in.ValidUntil == "" || untilErr != nil {
		bad = append(bad, "validUntil")
	}
	offer.ValidUntil = until

	// strictly after; equal timestamps are rejected
	if fromErr == nil && untilErr == nil && !until.After(from) {
		bad = append(bad, "validUntil")
	}

	if in.MinOrderAmount != "" {
		min, err := strconv.ParseFloat(in.MinOrderAmount, 64)
		if err != nil || min < 0 {
			bad = append(bad, "minOrderAmount")
		}
		offer.MinOrderAmount = min
	}

	offer.IsActive = in.IsActive != "false"
	return offer, bad
}

// ValidatePatch applies only the fields present in the request to a copy of
// existing. Returns the patched offer and any offending fields.
func ValidatePatch(existing models.Offer, in Input) (models.Offer, []string) {
	var bad []string
	offer := existing

	if in.Title != "" {
		offer.Title = in.Title
	}
	if in.Description != "" {
		offer.Description = in.Description
	}
	if in.Discount != "" {
		d, err := strconv.ParseFloat(in.Discount, 64)
		if err != nil || d < 0 || d > 100 {
			bad = append(bad, "discount")
		} else {
			offer.DiscountPercent = d
		}
	}
	if in.Code != "" {
		offer.Code = strings.ToUpper(in.Code)
	}
	if in.ValidFrom != "" {
		from, err := time.Parse(time.RFC3339, in.ValidFrom)
		if err != nil {
			bad = append(bad, "validFrom")
		} else {
			offer.ValidFrom = from
		}
	}
	if in.ValidUntil != "" {
		until, err := time.Parse(time.RFC3339, in.ValidUntil)
		if err != nil {
			bad = append(bad, "validUntil")
		} else {
			offer.ValidUntil = until
		}
	}
	if !offer.ValidUntil.After(offer.ValidFrom) {
		bad = append(bad, "validUntil")
	}
	if in.MinOrderAmount != "" {
		min, err := strconv.ParseFloat(in.MinOrderAmount, 64)
		if err != nil || min < 0 {
			bad = append(bad, "minOrderAmount")
		} else {
			offer.MinOrderAmount = min
		}
	}
	if in.IsActive != "" {
		offer.IsActive = in.IsActive == "true"
	}

	return offer, bad
}
