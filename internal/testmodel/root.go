package testmodel

import (
	"errors"
)

// ErrNoModels is returned when a suite is requested without any class model.
var ErrNoModels = errors.New("at least one test class model is required")

// Renamed forwards every property of Model except its name.
type Renamed struct {
	Model   ClassModel
	NewName string
}

func (r Renamed) Name() string {
	return r.NewName
}

func (r Renamed) Methods() []MethodModel {
	return r.Model.Methods()
}

func (r Renamed) InnerClasses() []ClassModel {
	return r.Model.InnerClasses()
}

func (r Renamed) IsEmpty() bool {
	return r.Model.IsEmpty()
}

func (r Renamed) DataString() (string, bool) {
	return r.Model.DataString()
}

func (r Renamed) DataPathRoot() (string, bool) {
	return r.Model.DataPathRoot()
}

// Aggregate is a synthetic suite class holding several models as inner
// classes. It has no methods and no annotations of its own and is never
// empty.
type Aggregate struct {
	SuiteName string
	Children  []ClassModel
}

func (a Aggregate) Name() string {
	return a.SuiteName
}

func (Aggregate) Methods() []MethodModel {
	return nil
}

func (a Aggregate) InnerClasses() []ClassModel {
	return a.Children
}

func (Aggregate) IsEmpty() bool {
	return false
}

func (Aggregate) DataString() (string, bool) {
	return "", false
}

func (Aggregate) DataPathRoot() (string, bool) {
	return "", false
}

// Root normalizes models into the single root class of a suite named
// suiteName: a single model is renamed, several are wrapped in an Aggregate.
func Root(suiteName string, models []ClassModel) (ClassModel, error) {
	switch len(models) {
	case 0:
		return nil, ErrNoModels
	case 1:
		return Renamed{Model: models[0], NewName: suiteName}, nil
	default:
		children := make([]ClassModel, len(models))
		copy(children, models)
		return Aggregate{SuiteName: suiteName, Children: children}, nil
	}
}
