package consolidate

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"lab-dashboard-server/internal/extract"
	"lab-dashboard-server/internal/models"
)

// FindOrCreateLab keys on the explicit lab identifier first and falls back
// to a case-insensitive name match, creating the lab from the payload's
// organization fields when neither hits.
func (c *Consolidator) FindOrCreateLab(ctx context.Context, frag extract.Fragment) (*models.Lab, error) {
	if frag.LabID == "" && strings.TrimSpace(frag.LabName) == "" {
		return nil, nil
	}

	var lab *models.Lab
	var err error
	if frag.LabID != "" {
		lab, err = c.store.FindLabByLabID(ctx, frag.LabID)
		if err != nil {
			return nil, err
		}
	}
	if lab == nil && frag.LabName != "" {
		lab, err = c.store.FindLabByName(ctx, frag.LabName)
		if err != nil {
			return nil, err
		}
	}
	if lab != nil {
		changed := false
		fillLab := func(dst *string, src string) {
			if *dst == "" && src != "" {
				*dst = src
				changed = true
			}
		}
		fillLab(&lab.Email, frag.LabEmail)
		fillLab(&lab.Phone, frag.LabPhone)
		fillLab(&lab.Address, frag.LabAddress)
		fillLab(&lab.City, frag.LabCity)
		fillLab(&lab.State, frag.LabState)
		fillLab(&lab.Country, frag.LabCountry)
		if changed {
			if err := c.store.SaveLab(ctx, lab); err != nil {
				return nil, err
			}
		}
		return lab, nil
	}

	lab = &models.Lab{
		LabID:   frag.LabID,
		Name:    strings.TrimSpace(frag.LabName),
		Email:   frag.LabEmail,
		Phone:   frag.LabPhone,
		Address: frag.LabAddress,
		City:    frag.LabCity,
		State:   frag.LabState,
		Country: frag.LabCountry,
	}
	if lab.LabID == "" {
		lab.LabID = "LAB-" + strings.ToUpper(uuid.New().String()[:8])
	}
	if lab.Name == "" {
		lab.Name = lab.LabID
	}
	if err := c.store.CreateLab(ctx, lab); err != nil {
		return nil, err
	}
	return lab, nil
}
