package redisrepo

import "fmt"

const (
	USERS_KEY        = "users"
	POSTS_KEY        = "posts"
	CURRENT_USER_KEY = "currentUser"
	THEME_KEY        = "theme"

	SCOPED_KEY = "%s:%s" // <namespace>:<key>
)

// ScopedKey prefixes key with the origin namespace; an empty namespace leaves key unchanged.
func ScopedKey(namespace string, key string) string {
	if namespace == "" {
		return key
	}
	return fmt.Sprintf(SCOPED_KEY, namespace, key)
}
