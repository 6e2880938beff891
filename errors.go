package silo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every error caused by a missing group, collection, entity or descriptor.
	ErrNotFound = errors.New("not found")
	// ErrPrecondition matches every error caused by invalid caller arguments.
	ErrPrecondition = errors.New("precondition violated")
)

type LockedStoreError struct{}

func (e LockedStoreError) Error() string {
	return "store is currently locked"
}

type DisposedStoreError struct{}

func (e DisposedStoreError) Error() string {
	return "store has been disposed"
}

// Lookup failures.

type GroupNotFoundError struct {
	Group GroupID
}

func (e GroupNotFoundError) Error() string {
	return fmt.Sprintf("group %d not found", e.Group)
}

func (e GroupNotFoundError) Is(target error) bool { return target == ErrNotFound }

type ComponentNotFoundError struct {
	Group     GroupID
	Component string
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %s not found in group %d", e.Component, e.Group)
}

func (e ComponentNotFoundError) Is(target error) bool { return target == ErrNotFound }

type EntityNotFoundError struct {
	Entity    EGID
	Component string
}

func (e EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity %v has no %s component", e.Entity, e.Component)
}

func (e EntityNotFoundError) Is(target error) bool { return target == ErrNotFound }

type DescriptorNotFoundError struct {
	Kind string
}

func (e DescriptorNotFoundError) Error() string {
	return fmt.Sprintf("no descriptor registered for kind %q", e.Kind)
}

func (e DescriptorNotFoundError) Is(target error) bool { return target == ErrNotFound }

// Precondition violations.

type SameGroupSwapError struct {
	ID    uint32
	Group GroupID
}

func (e SameGroupSwapError) Error() string {
	return fmt.Sprintf("can't move entity %d to group %d, it already belongs to it", e.ID, e.Group)
}

func (e SameGroupSwapError) Is(target error) bool { return target == ErrPrecondition }

type EntityExistsError struct {
	Entity    EGID
	Component string
}

func (e EntityExistsError) Error() string {
	return fmt.Sprintf("entity %v already has a %s component", e.Entity, e.Component)
}

func (e EntityExistsError) Is(target error) bool { return target == ErrPrecondition }

type ComponentTypeMismatchError struct {
	Component string
	Value     any
}

func (e ComponentTypeMismatchError) Error() string {
	return fmt.Sprintf("value of type %T can't be stored as %s", e.Value, e.Component)
}

func (e ComponentTypeMismatchError) Is(target error) bool { return target == ErrPrecondition }

type DuplicateComponentError struct {
	Component string
}

func (e DuplicateComponentError) Error() string {
	return fmt.Sprintf("component %s appears more than once in descriptor", e.Component)
}

func (e DuplicateComponentError) Is(target error) bool { return target == ErrPrecondition }

type DescriptorExistsError struct {
	Kind string
}

func (e DescriptorExistsError) Error() string {
	return fmt.Sprintf("descriptor for kind %q already registered", e.Kind)
}

func (e DescriptorExistsError) Is(target error) bool { return target == ErrPrecondition }

type RegistryFullError struct {
	Capacity int
}

func (e RegistryFullError) Error() string {
	return fmt.Sprintf("descriptor registry at maximum capacity (%d)", e.Capacity)
}

func (e RegistryFullError) Is(target error) bool { return target == ErrPrecondition }

type TooManyComponentTypesError struct {
	Component string
	Limit     int
}

func (e TooManyComponentTypesError) Error() string {
	return fmt.Sprintf("can't register component %s, a store supports at most %d component types", e.Component, e.Limit)
}

func (e TooManyComponentTypesError) Is(target error) bool { return target == ErrPrecondition }

type InvalidLockBitError struct {
	Bit   uint32
	Limit int
}

func (e InvalidLockBitError) Error() string {
	return fmt.Sprintf("lock bit %d out of range, bits must be below %d", e.Bit, e.Limit)
}

func (e InvalidLockBitError) Is(target error) bool { return target == ErrPrecondition }
