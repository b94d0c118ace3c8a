// Package view is the host-side abstraction the conditional constraint engine
// operates on: a registry of views with observable state (bounds, traits,
// visibility, active configuration name), a change-signal hub, a
// single-consumer run loop with idle callbacks, and an animation context.
//
// ARCHITECTURE:
//
// Single-Writer Discipline:
// All view mutation and all condition evaluation happen on one goroutine (the
// loop goroutine, or the test's goroutine when driving Turn() directly). The
// run loop's Post() is the only entry point that is safe from other
// goroutines; everything else assumes single-threaded access. There is no
// locking on view state by design - races are excluded by construction, not
// by mutexes.
//
// Handle Indirection:
// Views are referenced through Ref handles (registry + id). A Ref to a
// removed view resolves to nil instead of keeping the view alive or pointing
// at a dead one. This is the weak-reference discipline the engine relies on:
// it must never keep a view alive and never operate on a dead view.
//
// Turn Semantics:
// One "turn" is: process all queued work, then fire each registered idle
// callback exactly once. Coalesced constraint updates ride on the idle phase,
// collapsing any number of same-turn change signals into one evaluation pass.
package view
