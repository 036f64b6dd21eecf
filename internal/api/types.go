package api

// apiRequest is the union of fields accepted across the authenticated
// endpoints. Every operation requires api_key and ident; verify adds code,
// and the QR endpoints add name and title.
type apiRequest struct {
	APIKey string `json:"api_key"`
	Ident  string `json:"ident"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Title  string `json:"title"`
}

// failureResponse is the error envelope shared by every endpoint.
type failureResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status bool `json:"status"`
}

type createResponse struct {
	Status bool   `json:"status"`
	Ident  string `json:"ident"`
	Secret string `json:"secret"`
}

type verifyResponse struct {
	Status   bool `json:"status"`
	Verified bool `json:"verified"`
}

type qrResponse struct {
	Status bool   `json:"status"`
	QRCode string `json:"qr_code"`
}

type qrURLResponse struct {
	Status    bool   `json:"status"`
	QRCodeURL string `json:"qr_code_url"`
}
