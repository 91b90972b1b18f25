package models

import "encoding/json"

// User captures the identity record returned by the sign-in endpoint.
// Attributes the console does not model are kept in Extra and written back
// unchanged, so a stored identity matches what the backend sent.
type User struct {
	ID       int64            `json:"user_id"`
	Name     string           `json:"user_name,omitempty"`
	Email    string           `json:"user_email,omitempty"`
	Mobile   string           `json:"user_mobile,omitempty"`
	Gender   string           `json:"gender,omitempty"`
	IsActive bool             `json:"is_active,omitempty"`
	Roles    []RoleAssignment `json:"pi_roles,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type userFields User

var userKeys = []string{"user_id", "user_name", "user_email", "user_mobile", "gender", "is_active", "pi_roles"}

func (u *User) UnmarshalJSON(data []byte) error {
	var f userFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range userKeys {
		delete(all, k)
	}
	f.Extra = nil
	if len(all) > 0 {
		f.Extra = all
	}
	*u = User(f)
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(userFields(u))
	if err != nil || len(u.Extra) == 0 {
		return data, err
	}
	all := make(map[string]json.RawMessage, len(u.Extra)+len(userKeys))
	for k, v := range u.Extra {
		all[k] = v
	}
	// modelled fields win over stale extras of the same name
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return json.Marshal(all)
}

// Clone returns a copy that shares no slices or maps with u.
func (u User) Clone() User {
	c := u
	c.Roles = append([]RoleAssignment(nil), u.Roles...)
	if u.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(u.Extra))
		for k, v := range u.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// PrimaryRole returns the first role assignment, or RoleGuest when the user has none.
func (u User) PrimaryRole() RoleID {
	if len(u.Roles) == 0 {
		return RoleGuest
	}
	return u.Roles[0].RoleID
}

// ManagedUser is the row shape used by the user-management endpoints.
type ManagedUser struct {
	ID       int64  `json:"user_id"`
	Name     string `json:"user_name"`
	Email    string `json:"user_email"`
	Mobile   string `json:"user_mobile,omitempty"`
	RoleID   RoleID `json:"role_id"`
	IsActive bool   `json:"is_active"`
}

// ChatHistoryItem is one stored AskVault prompt and its reply.
type ChatHistoryItem struct {
	ID        int64  `json:"prompt_id"`
	UserID    int64  `json:"user_id"`
	Prompt    string `json:"prompt"`
	Response  string `json:"response"`
	CreatedAt string `json:"created_at,omitempty"`
}
