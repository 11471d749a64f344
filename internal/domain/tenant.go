package domain

import "time"

// TenantDeliveryConfig is the per-tenant routing data the worker resolves
// before dispatching. It is read-only to the worker; an empty field means
// the process-wide default identity applies, not a failure.
type TenantDeliveryConfig struct {
	ApplicationID       string `json:"application_id"`
	EmailSenderIdentity string `json:"email_sender_identity,omitempty"`
	BulkMessageTopic    string `json:"bulk_message_topic,omitempty"`
}

// Application is a registered client application (tenant). Records are
// managed by the admin API; the worker only ever reads the delivery fields.
type Application struct {
	ApplicationID       string    `json:"application_id"`
	Name                string    `json:"name"`
	ContactEmail        string    `json:"contact_email"`
	Domain              string    `json:"domain"`
	EmailSenderIdentity string    `json:"email_sender_identity,omitempty"`
	BulkMessageTopic    string    `json:"bulk_message_topic,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DeliveryConfig projects the routing subset the worker consumes.
func (a *Application) DeliveryConfig() *TenantDeliveryConfig {
	return &TenantDeliveryConfig{
		ApplicationID:       a.ApplicationID,
		EmailSenderIdentity: a.EmailSenderIdentity,
		BulkMessageTopic:    a.BulkMessageTopic,
	}
}

// APIKey is an opaque credential issued to an application for the
// submission API. The secret is returned once, at creation time.
type APIKey struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"application_id"`
	Secret        string     `json:"api_key,omitempty"`
	Name          string     `json:"name,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	Active        bool       `json:"is_active"`
}

// CreateApplicationRequest is the inbound payload for tenant registration.
type CreateApplicationRequest struct {
	ApplicationID       string `json:"application_id"`
	Name                string `json:"name"`
	ContactEmail        string `json:"contact_email"`
	Domain              string `json:"domain"`
	EmailSenderIdentity string `json:"email_sender_identity,omitempty"`
	BulkMessageTopic    string `json:"bulk_message_topic,omitempty"`
}

func (r *CreateApplicationRequest) Validate() error {
	if r.ApplicationID == "" {
		return ErrInvalidApplicationID
	}
	if r.Name == "" {
		return ErrInvalidApplicationName
	}
	if r.ContactEmail == "" {
		return ErrInvalidContactEmail
	}
	return nil
}

// CreateAPIKeyRequest is the inbound payload for key issuance.
type CreateAPIKeyRequest struct {
	Name      string     `json:"name,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
