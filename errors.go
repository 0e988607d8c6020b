package stockroom

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrBufferReleased is returned by operations on a Buffer whose state was
// transferred or released.
var ErrBufferReleased = errors.New("entity component buffer has been released")

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

type InactiveEntityError struct {
	UID UID
}

func (e InactiveEntityError) Error() string {
	return fmt.Sprintf("entity %d is not active", e.UID)
}

type EntityCapacityError struct {
	Max int
}

func (e EntityCapacityError) Error() string {
	return fmt.Sprintf("entity capacity exhausted (%d)", e.Max)
}

type ComponentExistsError struct {
	Type reflect.Type
	UID  UID
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity %d: %v", e.UID, e.Type)
}

type ComponentNotFoundError struct {
	Type reflect.Type
	UID  UID
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity %d: %v", e.UID, e.Type)
}

type UnregisteredComponentError struct {
	Type reflect.Type
}

func (e UnregisteredComponentError) Error() string {
	return fmt.Sprintf("component type is not registered: %v", e.Type)
}

type ComponentCapacityError struct {
	Type reflect.Type
	Max  int
}

func (e ComponentCapacityError) Error() string {
	return fmt.Sprintf("cannot register %v: component type limit (%d) reached", e.Type, e.Max)
}

type RegistrationLockedError struct {
	Type reflect.Type
}

func (e RegistrationLockedError) Error() string {
	return fmt.Sprintf("cannot register %v: registration is locked", e.Type)
}

type PoolFullError struct {
	Capacity int
}

func (e PoolFullError) Error() string {
	return fmt.Sprintf("pool at maximum capacity (%d)", e.Capacity)
}

type PoolTypeMismatchError struct {
	Want, Got reflect.Type
}

func (e PoolTypeMismatchError) Error() string {
	return fmt.Sprintf("cannot assign pool of %v to pool of %v", e.Got, e.Want)
}

type AlignmentError struct {
	Type      reflect.Type
	Alignment int
	Reason    string
}

func (e AlignmentError) Error() string {
	return fmt.Sprintf("cannot align %v to %d bytes: %s", e.Type, e.Alignment, e.Reason)
}

type EmptyQueryError struct{}

func (e EmptyQueryError) Error() string {
	return "archetype query has no required components"
}

// BufferComponentError is returned when a Buffer is added through the generic
// component path instead of AddEntityComponentBuffer.
type BufferComponentError struct {
	UID UID
}

func (e BufferComponentError) Error() string {
	return fmt.Sprintf("entity %d: use AddEntityComponentBuffer to install buffers", e.UID)
}
