package ports

import (
	"context"

	"github.com/joseolvr/egresos-bridge/internal/domain/contpaqi"
	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
)

// LoginResult es la respuesta del upstream al autenticar un usuario.
type LoginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ContaAPI define el puerto de salida hacia el API de contabilidad que
// expone las empresas, los egresos timbrados y los catálogos de CONTPAQi.
// Siguiendo el principio de inversión de dependencias (DIP), la capa de
// aplicación solo conoce este contrato, no la implementación HTTP.
// token es el token de sesión del upstream, obtenido con Login.
type ContaAPI interface {
	// Login autentica contra el upstream y devuelve su token.
	Login(ctx context.Context, usuario, contrasena string) (*LoginResult, error)

	// Empresas lista las empresas disponibles para el usuario.
	Empresas(ctx context.Context, token string) ([]entity.Empresa, error)

	// Egresos consulta los egresos timbrados de una empresa en un rango de
	// fechas. Los documentos llegan sin esquema fijo.
	Egresos(ctx context.Context, token, guid, rfc, desde, hasta string) ([]*entity.Registro, error)

	// DetalleXML pide el comprobante de un documento. La respuesta puede
	// ser JSON (se decodifica conservando el orden de claves) o texto XML.
	DetalleXML(ctx context.Context, token, guidDb, guidDocumento string) (any, error)

	// ConceptosCompras lista los conceptos de compra de CONTPAQi.
	ConceptosCompras(ctx context.Context, token, baseDatos string) ([]*entity.Registro, error)

	// Proveedores lista los proveedores; con rfc no vacío filtra por RFC.
	Proveedores(ctx context.Context, token, baseDatos, rfc string) ([]*entity.Registro, error)

	// Productos lista los productos y servicios de CONTPAQi.
	Productos(ctx context.Context, token, baseDatos string) ([]*entity.Registro, error)

	// CrearDocumento registra el egreso en CONTPAQi.
	CrearDocumento(ctx context.Context, token string, doc contpaqi.Documento) (any, error)
}
