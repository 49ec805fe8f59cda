package relay

// notifyRequest carries neither telegram nor the storage id.
type notifyRequest struct {
	FullName  string `json:"fullName"`
	BirthDate string `json:"birthDate"`
	Phone     string `json:"phone"`
}

type notifyResponse struct {
	Message string `json:"message"`
}
