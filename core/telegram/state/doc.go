// Package state provides a lightweight FSM/session manager for Telegram bots.
// Sessions are volatile: they live in process memory only and are rebuilt as
// idle after a restart or a staleness reset.
package state
