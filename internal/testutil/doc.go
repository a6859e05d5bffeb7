// Package testutil provides small builders shared by package tests: graphs
// pre-populated with variables covering every load-bearing tag combination.
package testutil
