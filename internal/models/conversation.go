package models

// Conversation is a message thread as read from the messaging store.
type Conversation struct {
	ThreadID            int64  `json:"thread_id"`
	Snippet             string `json:"snippet"`
	Date                int64  `json:"date"` // unix seconds
	Read                bool   `json:"read"`
	Title               string `json:"title"`
	PhotoURI            string `json:"photo_uri"`
	IsGroupConversation bool   `json:"is_group_conversation"`
	PhoneNumber         string `json:"phone_number"`
	IsScheduled         bool   `json:"is_scheduled"`
	UsesCustomTitle     bool   `json:"uses_custom_title"`
	IsArchived          bool   `json:"is_archived"`
}

// Participant is a contact taking part in a thread.
type Participant struct {
	ContactID    int64    `json:"contact_id"`
	Name         string   `json:"name"`
	PhotoURI     string   `json:"photo_uri,omitempty"`
	PhoneNumbers []string `json:"phone_numbers,omitempty"`
}
