// Package kv implements an in-process key-value store that partitions
// records into named collections.
//
// Every record is addressed by a composite key of the form
// "collection:id". Collections are created lazily by the first Create into
// them and are never removed. Each stored record carries an "id" field
// holding its own composite key, maintained by the store.
//
// Usage:
//
//	db := kv.New()
//	res, err := db.Create("User:001", kv.Record{"name": "Steve", "age": 32})
//	res, err = db.Read("User:001", kv.WithFields("name"))
//	res, err = db.Update("User:001", kv.Record{"age": 33})
//	res, err = db.Delete("User:001")
//
// Failures are *Error values that unwrap to one of the package sentinels
// (ErrRecordNotFound, ErrFieldNotFound, ...), so callers match them with
// errors.Is and inspect details with errors.As.
package kv
