package entity

// Empresa representa una empresa disponible en el servicio de contabilidad.
type Empresa struct {
	Nombre    string `json:"nombre"`
	BaseDatos string `json:"baseDatos"`
	RFC       string `json:"rfc"`
	GuidDsl   string `json:"guidDsl"`
}

// RangoFechas delimita la consulta de egresos de una empresa.
type RangoFechas struct {
	Desde string `json:"from"`
	Hasta string `json:"to"`
}
