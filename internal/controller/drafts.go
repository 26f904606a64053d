package controller

import (
	"strconv"
	"strings"

	"github.com/gravitrone/shelf/cli/internal/api"
)

// Draft field names.
const (
	FieldName           = "name"
	FieldDescription    = "description"
	FieldImageURL       = "imageUrl"
	FieldIsPublic       = "isPublic"
	FieldQuantity       = "quantity"
	FieldEstimatedValue = "estimatedValue"
)

// CollectionDraft is the editable form of a Collection.
type CollectionDraft struct {
	Name        string
	Description string
	ImageURL    string
	IsPublic    bool

	// badVisibility is set while the last IsPublic text was not a boolean.
	badVisibility bool
}

func BlankCollectionDraft() CollectionDraft {
	return CollectionDraft{}
}

func CollectionDraftFrom(c api.Collection) CollectionDraft {
	return CollectionDraft{
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		IsPublic:    c.IsPublic,
	}
}

func (d CollectionDraft) With(field, value string) CollectionDraft {
	switch field {
	case FieldName:
		d.Name = value
	case FieldDescription:
		d.Description = value
	case FieldImageURL:
		d.ImageURL = value
	case FieldIsPublic:
		v := strings.TrimSpace(value)
		if v == "" {
			d.IsPublic, d.badVisibility = false, false
			break
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			d.badVisibility = true
			break
		}
		d.IsPublic, d.badVisibility = b, false
	}
	return d
}

func (d CollectionDraft) RequiredName() string { return d.Name }

// ToInput maps the draft onto the wire body. owner is sent on create only.
// Visibility accepts what strconv.ParseBool does.
func (d CollectionDraft) ToInput(owner api.ID) (api.CollectionInput, error) {
	if d.badVisibility {
		return api.CollectionInput{}, invalid(FieldIsPublic, "visibility must be true or false")
	}
	return api.CollectionInput{
		Name:        d.Name,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		IsPublic:    d.IsPublic,
		OwnerID:     owner,
	}, nil
}

// ItemDraft is the editable form of an Item. Numbers stay text until ToInput.
type ItemDraft struct {
	Name           string
	Description    string
	Quantity       string
	EstimatedValue string
	ImageURL       string
}

func BlankItemDraft() ItemDraft {
	return ItemDraft{Quantity: "1"}
}

func ItemDraftFrom(it api.Item) ItemDraft {
	return ItemDraft{
		Name:           it.Name,
		Description:    it.Description,
		Quantity:       strconv.Itoa(it.Quantity),
		EstimatedValue: strconv.FormatFloat(it.EstimatedValue, 'f', -1, 64),
		ImageURL:       it.ImageURL,
	}
}

func (d ItemDraft) With(field, value string) ItemDraft {
	switch field {
	case FieldName:
		d.Name = value
	case FieldDescription:
		d.Description = value
	case FieldQuantity:
		d.Quantity = value
	case FieldEstimatedValue:
		d.EstimatedValue = value
	case FieldImageURL:
		d.ImageURL = value
	}
	return d
}

func (d ItemDraft) RequiredName() string { return d.Name }

// ToInput maps the draft onto the wire body. A blank quantity means 1 and a
// blank value means 0. collection is sent on create only.
func (d ItemDraft) ToInput(collection api.ID) (api.ItemInput, error) {
	in := api.ItemInput{
		Name:         d.Name,
		Description:  d.Description,
		Quantity:     1,
		ImageURL:     d.ImageURL,
		CollectionID: collection,
	}
	if q := strings.TrimSpace(d.Quantity); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			return api.ItemInput{}, invalid(FieldQuantity, "quantity must be a whole number")
		}
		in.Quantity = n
	}
	if v := strings.TrimSpace(strings.ReplaceAll(d.EstimatedValue, ",", ".")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return api.ItemInput{}, invalid(FieldEstimatedValue, "estimated value must be a number")
		}
		in.EstimatedValue = f
	}
	return in, nil
}
