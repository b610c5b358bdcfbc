package dto

// LoginRequest credenciales del upstream.
type LoginRequest struct {
	Usuario    string `json:"usuario"`
	Contrasena string `json:"contrasena"`
}

// LoginResponse token de sesión emitido por este servicio.
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}
