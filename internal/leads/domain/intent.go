package domain

import "errors"

// PropertyIntent ties the BHK configuration to the property types that carry
// one. It can only be built through the constructors below, so an apartment or
// villa intent always has a BHK and a plot or commercial intent never does.
// The flat (property_type, bhk) pair exists only at serialization boundaries.
type PropertyIntent struct {
	propertyType PropertyType
	bhk          BHK
}

// ErrIntentShape is returned when a (property type, bhk) pair cannot form a
// valid intent. Callers that validate first never see it.
var ErrIntentShape = errors.New("property intent: bhk presence does not match property type")

// RequiresBHK reports whether the property type carries a bedroom configuration.
func (p PropertyType) RequiresBHK() bool {
	return p == PropertyApartment || p == PropertyVilla
}

// NewResidentialIntent builds an apartment or villa intent with its BHK.
func NewResidentialIntent(propertyType PropertyType, bhk BHK) (PropertyIntent, error) {
	if !propertyType.RequiresBHK() || !bhk.Valid() {
		return PropertyIntent{}, ErrIntentShape
	}
	return PropertyIntent{propertyType: propertyType, bhk: bhk}, nil
}

// NewNonResidentialIntent builds a plot or commercial intent.
func NewNonResidentialIntent(propertyType PropertyType) (PropertyIntent, error) {
	if propertyType.RequiresBHK() || !propertyType.Valid() {
		return PropertyIntent{}, ErrIntentShape
	}
	return PropertyIntent{propertyType: propertyType}, nil
}

// IntentFromColumns rebuilds an intent from its flat serialized form.
// A bhk supplied for a non-residential type is ignored, mirroring the
// validation contract.
func IntentFromColumns(propertyType PropertyType, bhk *BHK) (PropertyIntent, error) {
	if propertyType.RequiresBHK() {
		if bhk == nil {
			return PropertyIntent{}, ErrIntentShape
		}
		return NewResidentialIntent(propertyType, *bhk)
	}
	return NewNonResidentialIntent(propertyType)
}

// PropertyType returns the intent's property type.
func (i PropertyIntent) PropertyType() PropertyType {
	return i.propertyType
}

// BHK returns the bedroom configuration and whether the intent carries one.
func (i PropertyIntent) BHK() (BHK, bool) {
	if i.propertyType.RequiresBHK() {
		return i.bhk, true
	}
	return "", false
}

// Columns flattens the intent back to its serialized (property_type, bhk)
// pair; bhk is nil for non-residential intents.
func (i PropertyIntent) Columns() (PropertyType, *BHK) {
	if i.propertyType.RequiresBHK() {
		bhk := i.bhk
		return i.propertyType, &bhk
	}
	return i.propertyType, nil
}
