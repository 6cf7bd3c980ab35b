// Package electionfacade is the single public surface over the election
// services. It sequences calls into access-registry, structure-store and
// vote-ledger and carries no business rules of its own.
package electionfacade
