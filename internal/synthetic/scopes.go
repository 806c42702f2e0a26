package synthetic

import "github.com/samber/lo"

// StaticScopes is a ScopeChecker backed by the scope grants recorded for each
// owner's stored token, keyed by owner key.
type StaticScopes map[string][]string

// OwnerHasScope reports whether the owner's grant list carries the scope.
func (s StaticScopes) OwnerHasScope(ownerKey, scope string) bool {
	return lo.Contains(s[ownerKey], scope)
}
