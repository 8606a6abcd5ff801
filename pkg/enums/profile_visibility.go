package enums

import "fmt"

type ProfileVisibility string

const (
	ProfileVisibilityPublic  ProfileVisibility = "public"
	ProfileVisibilityFriends ProfileVisibility = "friends"
	ProfileVisibilityPrivate ProfileVisibility = "private"
)

var validProfileVisibilities = []ProfileVisibility{
	ProfileVisibilityPublic,
	ProfileVisibilityFriends,
	ProfileVisibilityPrivate,
}

func (v ProfileVisibility) IsValid() bool {
	for _, candidate := range validProfileVisibilities {
		if candidate == v {
			return true
		}
	}
	return false
}

func ParseProfileVisibility(value string) (ProfileVisibility, error) {
	for _, candidate := range validProfileVisibilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid profile visibility %q", value)
}
