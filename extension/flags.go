// flags.go defines constants for all CLI flag names.
//
// Using constants instead of string literals prevents typos and enables
// compile-time checking when flag names are used in both Flags().Type()
// definitions and GetType() calls.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g., "select" -> FlagSelect).

package extension

// Flag name constants for CLI commands.
// These are used with cobra's Flags().Type() and GetType() methods.
const (
	// Boolean flags

	FlagAll    = "all"    // Include skipped items
	FlagCommit = "commit" // Commit the selected suggestion
	FlagRaw    = "raw"    // Raw output without formatting

	// Integer flags

	FlagLimit  = "limit"  // Limit number of results
	FlagSelect = "select" // Row to select before committing
)
