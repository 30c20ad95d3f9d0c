package usecase

import (
	"context"
	"strconv"
	"strings"

	"stocktrack/internal/inventory/domain/model"
	apperrors "stocktrack/internal/shared/errors"
)

// FormState is the item form's position in its lifecycle.
type FormState int

const (
	FormClosed FormState = iota
	FormOpenCreate
	FormOpenEdit
)

// ItemForm stages raw field input for a create or edit operation,
// validates it before dispatch and clears itself after dispatch or
// cancellation. Staged values are strings: numeric parsing is part of
// validation, not of staging.
type ItemForm struct {
	state      FormState
	editTarget string

	Name     string
	Price    string
	Quantity string
	Category string
	Unit     string
	ImageURL string
}

// NewItemForm returns a closed form.
func NewItemForm() *ItemForm {
	return &ItemForm{state: FormClosed}
}

// State returns the form's current lifecycle state.
func (f *ItemForm) State() FormState {
	return f.state
}

// EditTarget returns the name of the item selected for edit, if any.
func (f *ItemForm) EditTarget() string {
	return f.editTarget
}

// OpenCreate opens the form for a fresh item.
func (f *ItemForm) OpenCreate() {
	f.reset()
	f.state = FormOpenCreate
}

// OpenEdit opens the form for an existing item, pre-populating the
// staged fields from the item's current snapshot. The name is staged
// for display but is not editable: the document key is fixed at
// creation.
func (f *ItemForm) OpenEdit(item model.InventoryItem) {
	f.reset()
	f.state = FormOpenEdit
	f.editTarget = item.Name
	f.Name = item.Name
	f.Price = strconv.FormatFloat(item.Price, 'f', -1, 64)
	f.Quantity = strconv.FormatInt(item.Quantity, 10)
	f.Category = item.Category
	f.Unit = item.Unit
	f.ImageURL = item.ImageURL
}

// Cancel clears all staged fields and the edit target without side
// effects.
func (f *ItemForm) Cancel() {
	f.reset()
}

// Submit validates the staged fields and dispatches the operation to
// the service. On success the form closes; a validation rejection or a
// dispatch failure leaves it open with its staged state intact.
func (f *ItemForm) Submit(ctx context.Context, svc *Service, ownerID string) (Snapshot, error) {
	switch f.state {
	case FormOpenCreate:
		name, fields, err := f.validateCreate()
		if err != nil {
			return Snapshot{}, err
		}
		snap, err := svc.Add(ctx, ownerID, name, fields)
		if err != nil {
			return Snapshot{}, err
		}
		f.reset()
		return snap, nil

	case FormOpenEdit:
		fields, err := f.validateEdit()
		if err != nil {
			return Snapshot{}, err
		}
		snap, err := svc.Edit(ctx, ownerID, f.editTarget, fields)
		if err != nil {
			return Snapshot{}, err
		}
		f.reset()
		return snap, nil

	default:
		return Snapshot{}, apperrors.NewValidationError("form is not open")
	}
}

// validateCreate enforces the add-flow rules: every field except the
// image is required and price/quantity must parse. The rejection
// happens before any storage call.
func (f *ItemForm) validateCreate() (string, model.ItemFields, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return "", model.ItemFields{}, apperrors.NewValidationError("item name is required")
	}
	if strings.TrimSpace(f.Price) == "" {
		return "", model.ItemFields{}, apperrors.NewValidationError("item price is required")
	}
	if strings.TrimSpace(f.Quantity) == "" {
		return "", model.ItemFields{}, apperrors.NewValidationError("item quantity is required")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	if err != nil || price < 0 {
		return "", model.ItemFields{}, apperrors.NewValidationError("item price must be a non-negative number")
	}
	quantity, err := strconv.ParseInt(strings.TrimSpace(f.Quantity), 10, 64)
	if err != nil || quantity < 0 {
		return "", model.ItemFields{}, apperrors.NewValidationError("item quantity must be a non-negative integer")
	}

	if strings.TrimSpace(f.Category) == "" {
		return "", model.ItemFields{}, apperrors.NewValidationError("item category is required")
	}
	if !model.ValidCategory(f.Category) {
		return "", model.ItemFields{}, apperrors.NewValidationError("unknown item category")
	}
	if strings.TrimSpace(f.Unit) == "" {
		return "", model.ItemFields{}, apperrors.NewValidationError("item unit is required")
	}
	if !model.ValidUnit(f.Unit) {
		return "", model.ItemFields{}, apperrors.NewValidationError("unknown item unit")
	}

	return name, model.ItemFields{
		Price:    price,
		Quantity: quantity,
		Category: f.Category,
		Unit:     f.Unit,
		ImageURL: strings.TrimSpace(f.ImageURL),
	}, nil
}

// validateEdit enforces the edit-flow rules: an edit target must be
// selected and price/quantity must parse. The name is not consulted.
func (f *ItemForm) validateEdit() (model.ItemFields, error) {
	if f.editTarget == "" {
		return model.ItemFields{}, apperrors.NewValidationError("no item selected for edit")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	if err != nil || price < 0 {
		return model.ItemFields{}, apperrors.NewValidationError("item price must be a non-negative number")
	}
	quantity, err := strconv.ParseInt(strings.TrimSpace(f.Quantity), 10, 64)
	if err != nil || quantity < 0 {
		return model.ItemFields{}, apperrors.NewValidationError("item quantity must be a non-negative integer")
	}

	return model.ItemFields{
		Price:    price,
		Quantity: quantity,
		Category: f.Category,
		Unit:     f.Unit,
		ImageURL: strings.TrimSpace(f.ImageURL),
	}, nil
}

func (f *ItemForm) reset() {
	*f = ItemForm{state: FormClosed}
}
