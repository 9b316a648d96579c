package constants

// LookupStatus is the canonical outcome of a remote nutrient lookup.
type LookupStatus string

// Stable values (these exact strings appear in logs and stats).
const (
	LookupFound    LookupStatus = "FOUND"     // a record was matched and fetched
	LookupNotFound LookupStatus = "NOT_FOUND" // every search completed, nothing matched
	LookupFailed   LookupStatus = "FAILED"    // could not check: missing key, server/client fault, network
	LookupSkipped  LookupStatus = "SKIPPED"   // remote not consulted (all fields already known)
)
