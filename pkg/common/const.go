package common

const (
	KEY_SECURITY_LISTING_PREFIX = "security_listing:"
	KEY_SECURITY_LISTING        = KEY_SECURITY_LISTING_PREFIX + "%s"
)

const (
	CONTEXT_KEY_USER = "auth_user"
)
