// Package structurestore owns the election structure inside the
// election-core context: campaigns, their positions, and the candidates
// contesting each position.
//
// Records are append-only arenas keyed by sequential integer ids; child ids
// are scoped to their parent and back-references are plain ids resolved
// through lookups. Only admins (per access-registry) may mutate structure.
// Vote tallies stored on campaigns and candidates are mutated exclusively by
// the vote-ledger module.
package structurestore
