// Package processor is the boundary between the user interfaces and the
// translation core. The GUI and the command line call it to translate text,
// read and write settings, and access the clipboard; it turns every failure
// into a Response carrying a message for the user.
package processor
