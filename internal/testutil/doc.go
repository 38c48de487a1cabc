// Package testutil provides fixtures shared by package tests: .npy array
// writers and a deterministic clock.
package testutil
