package models

import (
	"fmt"
	"strconv"
)

// Shortcut ranks. Lower values are presented first.
const (
	RankDefault       = 1
	RankDeprioritized = 99
)

// Capability bindings understood by assistants.
const (
	CapabilitySendMessage    = "actions.intent.SEND_MESSAGE"
	CapabilityReceiveMessage = "actions.intent.RECEIVE_MESSAGE"
)

// Icon kinds
const (
	IconURI    = "uri"
	IconLetter = "letter"
	IconGroup  = "group"
)

// Icon describes where a shortcut or person icon comes from.
type Icon struct {
	Kind   string `json:"kind"`
	URI    string `json:"uri,omitempty"`
	Letter string `json:"letter,omitempty"`
	Color  string `json:"color,omitempty"` // #rrggbb background
}

// Person is a resolved participant attached to a shortcut.
type Person struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Icon Icon   `json:"icon"`
}

// ShortcutTarget is what opening the shortcut navigates to.
type ShortcutTarget struct {
	ThreadID     int64  `json:"thread_id"`
	ThreadTitle  string `json:"thread_title"`
	IsRecycleBin bool   `json:"is_recycle_bin"`
}

// Shortcut is a quick-access descriptor for a conversation. It is rebuilt on
// every change and replaces any previous descriptor with the same ID.
type Shortcut struct {
	ID             string         `json:"id"`
	ShortLabel     string         `json:"short_label"`
	LongLabel      string         `json:"long_label"`
	Icon           Icon           `json:"icon"`
	Rank           int            `json:"rank"`
	Capabilities   []string       `json:"capabilities,omitempty"`
	Persons        []Person       `json:"persons,omitempty"`
	Target         ShortcutTarget `json:"target"`
	IsLongLived    bool           `json:"is_long_lived"`
	IsConversation bool           `json:"is_conversation"`
}

// ShortcutID returns the shortcut identity for a thread.
func ShortcutID(threadID int64) string {
	return strconv.FormatInt(threadID, 10)
}

// ThreadID parses the thread identity back out of the shortcut ID.
func (s *Shortcut) ThreadID() (int64, error) {
	return strconv.ParseInt(s.ID, 10, 64)
}

// IsDeprioritized reports whether the shortcut is present but not preferred.
func (s *Shortcut) IsDeprioritized() bool {
	return s.Rank >= RankDeprioritized
}

// HasCapability reports whether the shortcut is bound to the given capability.
func (s *Shortcut) HasCapability(capability string) bool {
	for _, c := range s.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

func (s Shortcut) String() string {
	return fmt.Sprintf("shortcut %s\n\tid : %s\n\t%s : %s\n\ttarget : thread=%d title=%q rank=%d",
		s.ID, s.ID, s.ShortLabel, s.LongLabel, s.Target.ThreadID, s.Target.ThreadTitle, s.Rank)
}
