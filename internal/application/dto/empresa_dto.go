package dto

// EmpresaResponse empresa disponible en el upstream.
type EmpresaResponse struct {
	Nombre    string `json:"nombre"`
	BaseDatos string `json:"baseDatos"`
	RFC       string `json:"rfc"`
	GuidDsl   string `json:"guidDsl"`
	// Seleccionada marca la empresa activa de la sesión.
	Seleccionada bool `json:"seleccionada"`
}

// SeleccionarEmpresaRequest fija la empresa de trabajo de la sesión.
type SeleccionarEmpresaRequest struct {
	GuidDsl string `json:"guidDsl"`
}
