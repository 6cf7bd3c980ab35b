// Package accessregistry owns the administrator set inside the
// election-core context.
//
// The module holds the single owner identity and the mutable set of
// authorized admins. Only the owner may grant or revoke admin rights, and
// the owner itself can never be revoked. Other election-core modules
// consult this module through their AdminRegistry ports before applying
// structural mutations.
package accessregistry
