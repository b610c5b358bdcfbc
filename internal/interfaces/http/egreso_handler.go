package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/joseolvr/egresos-bridge/internal/application/dto"
	"github.com/joseolvr/egresos-bridge/internal/application/usecase"
)

// EgresoHandler maneja las peticiones HTTP de egresos: la lista filtrada,
// la apertura del detalle y los envíos a CONTPAQi (protegido).
type EgresoHandler struct {
	egresos *usecase.EgresoUseCase
	detalle *usecase.DetalleUseCase
	envio   *usecase.EnvioUseCase
	rapido  *usecase.RapidoUseCase
}

// NewEgresoHandler construye el handler.
func NewEgresoHandler(egresos *usecase.EgresoUseCase, detalle *usecase.DetalleUseCase, envio *usecase.EnvioUseCase, rapido *usecase.RapidoUseCase) *EgresoHandler {
	return &EgresoHandler{egresos: egresos, detalle: detalle, envio: envio, rapido: rapido}
}

// Listar godoc
// @Summary      Listar egresos timbrados de la empresa seleccionada
// @Tags         egresos
// @Security     Bearer
// @Produce      json
// @Param        desde      query  string  false  "AAAA-MM-DD; sin él se usa el último rango o la semana en curso"
// @Param        hasta      query  string  false  "AAAA-MM-DD"
// @Param        comercial  query  string  false  "all | sent | pending"
// @Param        categoria  query  string  false  "all o una categoría exacta"
// @Param        busqueda   query  string  false  "texto libre sobre emisor, RFC, UUID y serie"
// @Param        soloRentas query  bool    false  "sólo categorías de arrendamiento"
// @Success      200  {object}  dto.ListaEgresosResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/egresos [get]
func (h *EgresoHandler) Listar(c *fiber.Ctx) error {
	var in dto.ListarEgresosRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.egresos.Listar(c.Context(), GetSesion(c), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// Abrir godoc
// @Summary      Abrir un egreso para el detalle
// @Tags         egresos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AbrirEgresoRequest  true  "rowId de la lista"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/egresos/abrir [post]
func (h *EgresoHandler) Abrir(c *fiber.Ctx) error {
	var in dto.AbrirEgresoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.egresos.Abrir(c.Context(), GetSesion(c), in.RowID); err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "egreso abierto"})
}

// Detalle godoc
// @Summary      Ver el detalle del egreso abierto
// @Tags         egresos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DetalleResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/egresos/detalle [get]
func (h *EgresoHandler) Detalle(c *fiber.Ctx) error {
	out, err := h.detalle.Ver(c.Context(), GetSesion(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// Enviar godoc
// @Summary      Enviar el egreso abierto a CONTPAQi
// @Tags         egresos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EnviarDocumentoRequest  true  "selecciones de concepto, producto y proveedor"
// @Success      200   {object}  dto.EnvioResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/egresos/enviar [post]
func (h *EgresoHandler) Enviar(c *fiber.Ctx) error {
	var in dto.EnviarDocumentoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.envio.Enviar(c.Context(), GetSesion(c), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// EnviarRapido godoc
// @Summary      Envío rápido de rentas por lote
// @Tags         egresos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EnvioRapidoRequest  true  "rowIds seleccionados y rango opcional"
// @Success      200   {object}  dto.EnvioRapidoResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/egresos/rapido [post]
func (h *EgresoHandler) EnviarRapido(c *fiber.Ctx) error {
	var in dto.EnvioRapidoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.RowIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rowIds es requerido"})
	}
	out, err := h.rapido.Enviar(c.Context(), GetSesion(c), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// PreviewRapido godoc
// @Summary      Previsualizar lo que enviaría el envío rápido para una fila
// @Tags         egresos
// @Security     Bearer
// @Produce      json
// @Param        rowId  query  string  true  "rowId de la lista"
// @Success      200    {object}  dto.PreviewRapidoResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/egresos/rapido/preview [get]
func (h *EgresoHandler) PreviewRapido(c *fiber.Ctx) error {
	rowID := c.Query("rowId")
	if rowID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rowId es requerido"})
	}
	out, err := h.rapido.Preview(c.Context(), GetSesion(c), rowID)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}
