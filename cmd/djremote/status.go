package main

import (
	"github.com/fatih/color"

	"github.com/rootuserdj/DJ-Remote-Desktop/internal/session"
)

var (
	statusInfo    = color.New(color.FgCyan)
	statusSuccess = color.New(color.FgGreen, color.Bold)
	statusError   = color.New(color.FgRed, color.Bold)
)

// printStatus gives each state change a colored one-liner, the terminal
// stand-in for the old status banner.
func printStatus(st session.Status) {
	switch st.State {
	case session.StateConnected:
		statusSuccess.Printf("● %s\n", st)
	case session.StateError:
		statusError.Printf("● %s\n", st)
	default:
		statusInfo.Printf("● %s\n", st)
	}
}

// watchStatus drains manager updates, printing each and invoking onExit
// when the session is over.
func watchStatus(mgr *session.Manager, onExit func(session.Status)) {
	for st := range mgr.Updates() {
		printStatus(st)
		switch st.State {
		case session.StateDisconnected, session.StateError, session.StateIdle:
			if onExit != nil {
				onExit(st)
			}
		}
	}
}
