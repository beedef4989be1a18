package models

import (
	"fmt"
	"strings"
)

// Resource paths follow the storage layout "users/{owner}/lists/{name}":
// one namespace per owner, one blob per word list.

// ListPath builds the resource path for one of an owner's word lists.
func ListPath(owner UserID, name string) string {
	return fmt.Sprintf("users/%s/lists/%s", owner, name)
}

// PathOwner extracts the owner segment of a resource path. It returns the
// zero UserID when the path does not follow the owner-scoped layout.
func PathOwner(resourcePath string) UserID {
	parts := strings.Split(resourcePath, "/")
	if len(parts) < 2 || parts[0] != "users" {
		return UserID{}
	}
	owner, err := ParseUserID(parts[1])
	if err != nil {
		return UserID{}
	}
	return owner
}

// ListName extracts the list name segment of a resource path, or "" when the
// path does not follow the owner-scoped layout.
func ListName(resourcePath string) string {
	parts := strings.Split(resourcePath, "/")
	if len(parts) != 4 || parts[0] != "users" || parts[2] != "lists" {
		return ""
	}
	return parts[3]
}
