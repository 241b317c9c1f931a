package constant

const (
	// Token states reported to clients alongside the token itself.
	TokenStateCreated = "token.created"
	TokenStateRenewed = "token.renew"
	TokenStateDeleted = "token.deleted"

	// Cookie names. Only TokenCookie carries trust weight; the rest are
	// convenience values for browser clients.
	TokenCookie    = "token"
	UsernameCookie = "username"
	IsArtistCookie = "isArtist"
	UserIDCookie   = "idUsuario"

	// TokenCookieMaxAge matches the credential lifetime (24h).
	TokenCookieMaxAge = 24 * 60 * 60

	RoleUser   = "ROLE_USER"
	RoleArtist = "ROLE_ARTIST"
	RoleAdmin  = "ROLE_ADMIN"
)
