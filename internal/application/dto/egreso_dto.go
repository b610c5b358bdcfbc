package dto

// Valores del filtro por estatus comercial.
const (
	ComercialTodos      = "all"
	ComercialEnviadas   = "sent"
	ComercialPendientes = "pending"
)

// ListarEgresosRequest filtros de la lista de egresos. Con Desde/Hasta
// vacíos se usa el último rango consultado para la empresa, o la semana en
// curso (lunes a domingo) si es la primera consulta.
type ListarEgresosRequest struct {
	Desde     string `query:"desde"`
	Hasta     string `query:"hasta"`
	Comercial string `query:"comercial"` // all | sent | pending
	Categoria string `query:"categoria"` // all o una categoría exacta
	Busqueda  string `query:"busqueda"`
	// SoloRentas limita a las categorías de arrendamiento (envío rápido).
	SoloRentas bool `query:"soloRentas"`
}

// EgresoRow fila de la lista con los campos resueltos y formateados.
type EgresoRow struct {
	RowID             string `json:"rowId"`
	Fecha             string `json:"fecha"`
	Emisor            string `json:"emisor"`
	RFC               string `json:"rfc"`
	UUID              string `json:"uuid"`
	Serie             string `json:"serie"`
	Folio             string `json:"folio"`
	Total             string `json:"total"`
	Categoria         string `json:"categoria"`
	EnviadaAComercial bool   `json:"enviadaAComercial"`
	GuidDocumento     string `json:"guidDocumento,omitempty"`
}

// ListaEgresosResponse lista filtrada más los metadatos de la consulta.
type ListaEgresosResponse struct {
	Egresos    []EgresoRow `json:"egresos"`
	Categorias []string    `json:"categorias"`
	Desde      string      `json:"desde"`
	Hasta      string      `json:"hasta"`
	Total      int         `json:"total"`
}

// AbrirEgresoRequest selecciona un egreso de la lista para verlo en detalle.
type AbrirEgresoRequest struct {
	RowID string `json:"rowId"`
}
