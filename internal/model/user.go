package model

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username,omitempty"`
	Email          string `json:"email"`
	PasswordHash   string `json:"passwordHash,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Gender         string `json:"gender,omitempty"`
	DOB            string `json:"dob,omitempty"`
	ProfileInitial string `json:"profileInitial,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// DisplayName is the name shown on cards and used for user search.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Initial returns the stored profile initial or the upper-cased first letter of the display name.
func (u *User) Initial() string {
	if u.ProfileInitial != "" {
		return u.ProfileInitial
	}
	name := u.DisplayName()
	if name == "" {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}

// Session is the subset of a user kept under the currentUser key.
func (u *User) Session() User {
	return User{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Bio:            u.Bio,
		Gender:         u.Gender,
		DOB:            u.DOB,
		ProfileInitial: u.ProfileInitial,
	}
}

// DecodeUsers keeps every element that decodes as a user with an id; a blob that is not an array reads as an empty directory.
func DecodeUsers(raw []byte) []User {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return []User{}
	}

	users := make([]User, 0, len(items))
	for _, item := range items {
		var u User
		if err := json.Unmarshal(item, &u); err != nil || u.ID == "" {
			continue
		}
		users = append(users, u)
	}
	return users
}

// DecodeUser reads the currentUser blob; ok is false when it is absent, malformed or has no id.
func DecodeUser(raw []byte) (User, bool) {
	var u User
	if len(raw) == 0 || json.Unmarshal(raw, &u) != nil || u.ID == "" {
		return User{}, false
	}
	return u, true
}
