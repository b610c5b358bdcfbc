package usecase

import (
	"context"
	"strings"

	"github.com/joseolvr/egresos-bridge/internal/application/dto"
	"github.com/joseolvr/egresos-bridge/internal/application/ports"
	"github.com/joseolvr/egresos-bridge/internal/domain"
	"github.com/joseolvr/egresos-bridge/internal/domain/cfdi"
	"github.com/joseolvr/egresos-bridge/internal/domain/contpaqi"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/session"
	"github.com/joseolvr/egresos-bridge/pkg/logger"
)

// EnvioUseCase registra en CONTPAQi el egreso abierto en el detalle, con
// las selecciones de concepto, producto y proveedor hechas por el usuario.
type EnvioUseCase struct {
	api ports.ContaAPI
	log *logger.Logger
}

// NewEnvioUseCase construye el caso de uso de envío.
func NewEnvioUseCase(api ports.ContaAPI, log *logger.Logger) *EnvioUseCase {
	return &EnvioUseCase{api: api, log: log}
}

// Enviar arma el documento de egreso con los campos resueltos del
// comprobante y lo registra en CONTPAQi. El envío desde el detalle incluye
// la tasa de retención de IVA, incluso cuando es cero.
func (uc *EnvioUseCase) Enviar(ctx context.Context, ses *session.Session, in dto.EnviarDocumentoRequest) (*dto.EnvioResponse, error) {
	if strings.TrimSpace(in.CodConcepto) == "" ||
		strings.TrimSpace(in.CodigoCteProv) == "" ||
		strings.TrimSpace(in.Segmento) == "" ||
		strings.TrimSpace(in.Sucursal) == "" {
		return nil, domain.ErrInvalidInput
	}
	empresa, err := ses.GetEmpresa()
	if err != nil {
		return nil, err
	}
	reg, err := ses.GetEgreso()
	if err != nil {
		return nil, err
	}

	campos := cfdi.ResolveFieldsDetalle(reg, empresa.RFC)
	if campos.EnviadaAComercial {
		return nil, domain.ErrYaEnviado
	}

	// el comprobante aporta la tasa de retención y el subtotal; si no se
	// puede leer, el precio cae al total resuelto del egreso
	var xmlString string
	if guid := cfdi.DocumentGuid(reg); guid != "" {
		if crudo, err := uc.api.DetalleXML(ctx, ses.Token, empresa.GuidDsl, guid); err == nil {
			xmlString = cfdi.DisplayXML(crudo)
		} else {
			uc.log.Warn().Err(err).Str("guidDocument", guid).Msg("sin comprobante para el envío, se usa el total del egreso")
		}
	}
	subtotal := cfdi.SubtotalFromXML(xmlString)
	if subtotal == "" {
		subtotal = cfdi.Cadena(campos.Total)
	}

	doc := contpaqi.Build(contpaqi.BuildParams{
		EmpresaBaseDatos:     empresa.BaseDatos,
		EmpresaGuidDsl:       empresa.GuidDsl,
		CodConcepto:          in.CodConcepto,
		Serie:                campos.Serie,
		Folio:                campos.Folio,
		Fecha:                cfdi.Cadena(campos.Fecha),
		CodigoCteProv:        in.CodigoCteProv,
		Sucursal:             in.Sucursal,
		Segmento:             in.Segmento,
		UUID:                 cfdi.Cadena(campos.UUID),
		Subtotal:             subtotal,
		CodProducto:          in.CodProducto,
		TasaRetencionIVA:     cfdi.TasaRetencionIVA(xmlString),
		IncluirTasaRetencion: true,
	})

	if _, err := uc.api.CrearDocumento(ctx, ses.Token, doc); err != nil {
		return nil, err
	}
	uc.log.Info().Str("uuid", doc.AsociarUUID).Str("empresa", empresa.Nombre).Msg("documento enviado a CONTPAQi")
	return &dto.EnvioResponse{Message: "Documento enviado a CONTPAQi"}, nil
}
