package automap

import "github.com/pkg/errors"

var (
	// ErrUnsupportedMember is returned when a mapper is asked to map a member it does not claim.
	ErrUnsupportedMember = errors.New("automap: member not supported by mapper")

	// ErrUnknownMember is returned when an override names a member that is not mapped.
	ErrUnknownMember = errors.New("automap: unknown member")

	// ErrFrozen is returned when a frozen ClassMap is mutated.
	ErrFrozen = errors.New("automap: class map is frozen")

	// ErrDuplicateColumn is returned when two members map to the same column.
	ErrDuplicateColumn = errors.New("automap: duplicate column")

	// ErrMultipleIdentities is returned when a second identity is set on a ClassMap.
	ErrMultipleIdentities = errors.New("automap: multiple identities")

	// ErrNoIdentity is returned by Build for an entity without an identity.
	ErrNoIdentity = errors.New("automap: no identity defined")

	// ErrUnknownEntity is returned when an association or override targets an entity
	// that is not part of the model.
	ErrUnknownEntity = errors.New("automap: unknown entity")

	// ErrModelBuilt is returned when a PersistenceModel is modified after Build.
	ErrModelBuilt = errors.New("automap: persistence model already built")

	// ErrNotStruct is returned when a non-struct type is described.
	ErrNotStruct = errors.New("automap: not a struct type")
)
