package domain

// Actor is the caller identity as resolved by an external authorization component.
// The ledger only consumes the capability flags, never role lookups.
type Actor struct {
	UserID          string
	CanPostEntries  bool // "may post financial entries"
	IsSystemProcess bool // trusted batch callers (depreciation, disposal)
}

// SystemActor returns an actor for trusted in-process callers such as the operator CLI.
func SystemActor(name string) Actor {
	return Actor{UserID: name, CanPostEntries: true, IsSystemProcess: true}
}
