package automap

import "strings"

// Expressions holds the predicates the auto mappers consult. Replace a
// field to change how members are discovered.
type Expressions struct {
	// FindIdentity reports whether a scalar member is the identity.
	FindIdentity func(m Member) bool

	// FindMappablePrivateMembers reports whether the private auto mapper
	// should consider an unexported member.
	FindMappablePrivateMembers func(m Member) bool
}

// DefaultExpressions treats a member named ID (any case) as the identity and
// every unexported, non-embedded field as a private mapping candidate.
func DefaultExpressions() *Expressions {
	return &Expressions{
		FindIdentity: func(m Member) bool {
			return strings.EqualFold(m.Name, "ID")
		},
		FindMappablePrivateMembers: func(m Member) bool {
			return !m.Exported && !m.Embedded
		},
	}
}
