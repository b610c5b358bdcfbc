package dto

// EnviarDocumentoRequest selecciones del usuario para registrar el egreso
// abierto en CONTPAQi.
type EnviarDocumentoRequest struct {
	CodConcepto   string `json:"codConcepto"`
	CodProducto   string `json:"codProducto"`
	CodigoCteProv string `json:"codigoCteProv"`
	Segmento      string `json:"segmento"`
	Sucursal      string `json:"sucursal"`
}

// EnvioResponse resultado del envío de un documento.
type EnvioResponse struct {
	Message string `json:"message"`
}

// EnvioRapidoRequest filas seleccionadas para el envío rápido de rentas.
type EnvioRapidoRequest struct {
	RowIDs []string `json:"rowIds"`
	Desde  string   `json:"desde,omitempty"`
	Hasta  string   `json:"hasta,omitempty"`
}

// EnvioRapidoResponse resumen del envío rápido.
type EnvioRapidoResponse struct {
	Enviados int      `json:"enviados"`
	Omitidos int      `json:"omitidos"`
	Errores  []string `json:"errores"`
}

// PreviewRapidoResponse datos que se usarían al enviar una fila del envío
// rápido, para revisión previa.
type PreviewRapidoResponse struct {
	Concepto      string `json:"concepto,omitempty"`
	Producto      string `json:"producto,omitempty"`
	Sucursal      string `json:"sucursal,omitempty"`
	Segmento      string `json:"segmento,omitempty"`
	RegimenFiscal string `json:"regimenFiscal,omitempty"`
	MetodoPago    string `json:"metodoPago,omitempty"`
	Error         string `json:"error,omitempty"`
}
