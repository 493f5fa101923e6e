package store

import "time"

// Actions recorded in the journal.
const (
	ActionBootstrap  = "bootstrap"
	ActionInstall    = "install"
	ActionRemove     = "remove"
	ActionUpgrade    = "upgrade"
	ActionSync       = "sync"
	ActionKegAdded   = "keg-added"
	ActionKegRemoved = "keg-removed"
)

// Operation is one journaled mutation of the vendored prefix. Package is
// the formula name, or "-" for prefix-wide actions like bootstrap and sync.
type Operation struct {
	ID        int64
	Package   string
	Action    string
	Version   string
	Detail    string
	Timestamp time.Time
}
