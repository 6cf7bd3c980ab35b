// Package voteledger records ballots for election campaigns. It enforces the
// one-vote-per-campaign rule, checks the campaign's activation flag and time
// window before accepting a ballot, and applies the vote tally to the
// structure store in the same step that records participation.
package voteledger
