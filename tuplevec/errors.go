package tuplevec

import (
	"github.com/zeebo/errs/v2"

	"github.com/histdb/tuplevec/alloc"
)

var (
	// ErrOutOfRange is returned by At and raised by Index for a row past Len.
	ErrOutOfRange = errs.Errorf("index out of range")

	// ErrInvalidIterator is raised by builds with the tuplevec_debug tag when
	// an iterator does not belong to the container it is used with.
	ErrInvalidIterator = errs.Errorf("invalid iterator")

	// ErrCapacityExceeded is raised when a fixed container without overflow
	// has to grow.
	ErrCapacityExceeded = alloc.ErrCapacityExceeded

	ErrNoColumn        = errs.Errorf("no column of type")
	ErrAmbiguousColumn = errs.Errorf("more than one column of type")

	// ErrPointerColumns is returned by operations that work on the raw bytes
	// of the columns.
	ErrPointerColumns = errs.Errorf("columns contain pointers")

	// ErrChecksum is recorded by ReadFrom when the rows do not match the
	// digest they were written with.
	ErrChecksum = errs.Errorf("checksum mismatch")
)
