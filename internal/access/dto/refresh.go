package dto

type RefreshInput struct {
	Token     string `json:"-"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}
