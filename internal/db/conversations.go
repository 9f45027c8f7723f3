package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"msgcore/internal/models"
)

const conversationColumns = `thread_id, snippet, date, read, title, photo_uri,
	is_group_conversation, phone_number, is_scheduled, uses_custom_title, is_archived`

func scanConversation(row pgx.Row, c *models.Conversation) error {
	return row.Scan(
		&c.ThreadID, &c.Snippet, &c.Date, &c.Read, &c.Title, &c.PhotoURI,
		&c.IsGroupConversation, &c.PhoneNumber, &c.IsScheduled, &c.UsesCustomTitle, &c.IsArchived,
	)
}

// Conversations returns the conversations for threadID. The result is empty
// when the thread is unknown.
func (d *DB) Conversations(ctx context.Context, threadID int64) ([]models.Conversation, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE thread_id = $1`, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := scanConversation(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// GetConversation returns a single conversation or ErrConversationNotFound.
func (d *DB) GetConversation(ctx context.Context, threadID int64) (*models.Conversation, error) {
	var c models.Conversation
	row := d.Pool.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE thread_id = $1`, threadID)
	if err := scanConversation(row, &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &c, nil
}

// UpsertConversation creates or replaces a conversation.
func (d *DB) UpsertConversation(ctx context.Context, c *models.Conversation) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO conversations (`+conversationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (thread_id) DO UPDATE SET
			snippet = EXCLUDED.snippet,
			date = EXCLUDED.date,
			read = EXCLUDED.read,
			title = EXCLUDED.title,
			photo_uri = EXCLUDED.photo_uri,
			is_group_conversation = EXCLUDED.is_group_conversation,
			phone_number = EXCLUDED.phone_number,
			is_scheduled = EXCLUDED.is_scheduled,
			uses_custom_title = EXCLUDED.uses_custom_title,
			is_archived = EXCLUDED.is_archived
	`, c.ThreadID, c.Snippet, c.Date, c.Read, c.Title, c.PhotoURI,
		c.IsGroupConversation, c.PhoneNumber, c.IsScheduled, c.UsesCustomTitle, c.IsArchived)
	if err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}
	return nil
}

// SetArchived updates the archive flag of a conversation.
func (d *DB) SetArchived(ctx context.Context, threadID int64, archived bool) error {
	tag, err := d.Pool.Exec(ctx, `UPDATE conversations SET is_archived = $2 WHERE thread_id = $1`, threadID, archived)
	if err != nil {
		return fmt.Errorf("failed to archive conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// DeleteConversation removes a conversation and its participants.
func (d *DB) DeleteConversation(ctx context.Context, threadID int64) error {
	return pgx.BeginFunc(ctx, d.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM thread_participants WHERE thread_id = $1`, threadID); err != nil {
			return fmt.Errorf("failed to delete participants: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM conversations WHERE thread_id = $1`, threadID)
		if err != nil {
			return fmt.Errorf("failed to delete conversation: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrConversationNotFound
		}
		return nil
	})
}

// ThreadParticipants returns the participants of threadID in stored order.
func (d *DB) ThreadParticipants(ctx context.Context, threadID int64) ([]models.Participant, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT contact_id, name, photo_uri, phone_numbers
		FROM thread_participants
		WHERE thread_id = $1
		ORDER BY position ASC
	`, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ContactID, &p.Name, &p.PhotoURI, &p.PhoneNumbers); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// SetThreadParticipants replaces the participants of threadID.
func (d *DB) SetThreadParticipants(ctx context.Context, threadID int64, participants []models.Participant) error {
	return pgx.BeginFunc(ctx, d.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM thread_participants WHERE thread_id = $1`, threadID); err != nil {
			return fmt.Errorf("failed to clear participants: %w", err)
		}
		for i, p := range participants {
			numbers := p.PhoneNumbers
			if numbers == nil {
				numbers = []string{}
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO thread_participants (thread_id, position, contact_id, name, photo_uri, phone_numbers)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, threadID, i, p.ContactID, p.Name, p.PhotoURI, numbers); err != nil {
				return fmt.Errorf("failed to insert participant: %w", err)
			}
		}
		return nil
	})
}
