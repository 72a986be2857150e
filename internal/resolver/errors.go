package resolver

import (
	"errors"
	"fmt"

	"dcl/internal/services"
	"dcl/internal/store"
)

// LookupError reports a name that resolved to zero or several remote
// entities. Err is services.ErrNotFound or services.ErrAmbiguous.
type LookupError struct {
	Kind    store.Kind
	Name    string
	Matches int
	Err     error
}

func (e *LookupError) Error() string {
	if errors.Is(e.Err, services.ErrAmbiguous) {
		return fmt.Sprintf("multiple %s named %q found (%d matches)", e.Kind.Plural(), e.Name, e.Matches)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func notFound(kind store.Kind, name string) error {
	return &LookupError{Kind: kind, Name: name, Err: services.ErrNotFound}
}

func ambiguous(kind store.Kind, name string, matches int) error {
	return &LookupError{Kind: kind, Name: name, Matches: matches, Err: services.ErrAmbiguous}
}

// AliasError reports a name that matched a remote entity already cached
// under a different name. Only one name per remote id is kept, so the
// bucket has to use the cached one.
type AliasError struct {
	Kind       store.Kind
	Name       string
	CachedName string
	ID         string
	Err        error
}

func (e *AliasError) Error() string {
	return fmt.Sprintf("%s %q resolves to %s, which is already cached as %q; use %q in the bucket",
		e.Kind, e.Name, e.ID, e.CachedName, e.CachedName)
}

func (e *AliasError) Unwrap() []error {
	return []error{services.ErrConfiguration, e.Err}
}
