package kv

import "github.com/google/uuid"

// IDGenerator produces record ids for Create calls that leave the id
// empty. Ids must be unique within a collection.
type IDGenerator interface {
	NewID() (string, error)
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() (string, error)

func (f IDFunc) NewID() (string, error) {
	return f()
}

// UUIDv7 generates time-ordered UUIDs, so generated records enumerate in
// roughly the order they were created.
var UUIDv7 IDGenerator = IDFunc(func() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
})
