// Package state provides a durable FSM/session manager for Telegram bots.
// Sessions are persisted through a Store so conversations survive restarts.
package state
