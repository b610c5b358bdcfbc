package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/joseolvr/egresos-bridge/internal/application/dto"
	"github.com/joseolvr/egresos-bridge/internal/application/ports"
	"github.com/joseolvr/egresos-bridge/internal/domain"
	"github.com/joseolvr/egresos-bridge/internal/domain/cfdi"
	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/session"
	"github.com/joseolvr/egresos-bridge/pkg/logger"
)

// EgresoUseCase consulta la lista de egresos timbrados, aplica los filtros
// de la vista y abre un egreso para el detalle.
type EgresoUseCase struct {
	api ports.ContaAPI
	log *logger.Logger
}

// NewEgresoUseCase construye el caso de uso de egresos.
func NewEgresoUseCase(api ports.ContaAPI, log *logger.Logger) *EgresoUseCase {
	return &EgresoUseCase{api: api, log: log}
}

// RangoSemanaActual devuelve la semana en curso, de lunes a domingo, como
// rango por defecto de la consulta.
func RangoSemanaActual(hoy time.Time) entity.RangoFechas {
	diasDesdeLunes := (int(hoy.Weekday()) + 6) % 7
	lunes := hoy.AddDate(0, 0, -diasDesdeLunes)
	domingo := lunes.AddDate(0, 0, 6)
	return entity.RangoFechas{
		Desde: lunes.Format("2006-01-02"),
		Hasta: domingo.Format("2006-01-02"),
	}
}

// rangoDeConsulta resuelve el rango efectivo: el de la petición, el último
// consultado para la empresa, o la semana en curso. El rango usado queda
// guardado en la sesión por empresa.
func rangoDeConsulta(ses *session.Session, empresa entity.Empresa, desde, hasta string) entity.RangoFechas {
	rango := entity.RangoFechas{Desde: desde, Hasta: hasta}
	if rango.Desde == "" || rango.Hasta == "" {
		if guardado, ok := ses.GetRango(empresa.GuidDsl); ok {
			rango = guardado
		} else {
			rango = RangoSemanaActual(time.Now())
		}
	}
	ses.SetRango(empresa.GuidDsl, rango)
	return rango
}

// Listar consulta los egresos de la empresa seleccionada y aplica los
// filtros de la vista.
func (uc *EgresoUseCase) Listar(ctx context.Context, ses *session.Session, in dto.ListarEgresosRequest) (*dto.ListaEgresosResponse, error) {
	empresa, err := ses.GetEmpresa()
	if err != nil {
		return nil, err
	}
	rango := rangoDeConsulta(ses, empresa, in.Desde, in.Hasta)

	registros, err := uc.api.Egresos(ctx, ses.Token, empresa.GuidDsl, empresa.RFC, rango.Desde, rango.Hasta)
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Int("egresos", len(registros)).Str("empresa", empresa.Nombre).Msg("egresos consultados")

	categorias := uc.categorias(registros)

	busqueda := strings.ToLower(strings.TrimSpace(in.Busqueda))
	filas := make([]dto.EgresoRow, 0, len(registros))
	for i, reg := range registros {
		categoria := cfdi.Categoria(reg)
		if in.SoloRentas && !esRentas(categoria) {
			continue
		}
		if in.Categoria != "" && in.Categoria != "all" && categoria != in.Categoria {
			continue
		}
		fila := armarFila(reg, empresa.RFC, i)
		switch in.Comercial {
		case dto.ComercialEnviadas:
			if !fila.EnviadaAComercial {
				continue
			}
		case dto.ComercialPendientes:
			if fila.EnviadaAComercial {
				continue
			}
		}
		if busqueda != "" && !coincideBusqueda(fila, busqueda) {
			continue
		}
		filas = append(filas, fila)
	}

	return &dto.ListaEgresosResponse{
		Egresos:    filas,
		Categorias: categorias,
		Desde:      rango.Desde,
		Hasta:      rango.Hasta,
		Total:      len(filas),
	}, nil
}

// Abrir localiza un egreso por su identificador de fila y lo deja en la
// sesión como egreso de detalle, con los campos calculados que la vista de
// detalle respeta.
func (uc *EgresoUseCase) Abrir(ctx context.Context, ses *session.Session, rowID string) error {
	if rowID == "" {
		return domain.ErrInvalidInput
	}
	empresa, err := ses.GetEmpresa()
	if err != nil {
		return err
	}
	rango := rangoDeConsulta(ses, empresa, "", "")
	registros, err := uc.api.Egresos(ctx, ses.Token, empresa.GuidDsl, empresa.RFC, rango.Desde, rango.Hasta)
	if err != nil {
		return err
	}
	for i, reg := range registros {
		if cfdi.RowID(reg, i) != rowID {
			continue
		}
		campos := cfdi.ResolveFields(reg, empresa.RFC, cfdi.FolioDetalle)

		// copia con los campos precalculados al final, como claves propias
		detalle := entity.NewRegistro()
		for _, clave := range reg.Keys() {
			v, _ := reg.Get(clave)
			detalle.Set(clave, v)
		}
		detalle.Set("__rfcFuente", cfdi.Cadena(campos.RFC))
		detalle.Set("__uuidFuente", cfdi.Cadena(campos.UUID))
		detalle.Set("__serieCalculada", campos.Serie)
		detalle.Set("__folioCalculado", campos.Folio)

		ses.SetEgreso(detalle)
		return nil
	}
	return domain.ErrNotFound
}

// categorias reúne las categorías presentes en la consulta, ordenadas con
// colación española, para alimentar el filtro de la vista.
func (uc *EgresoUseCase) categorias(registros []*entity.Registro) []string {
	vistas := make(map[string]bool)
	var categorias []string
	for _, reg := range registros {
		c := cfdi.Categoria(reg)
		if !vistas[c] {
			vistas[c] = true
			categorias = append(categorias, c)
		}
	}
	// el colador no es seguro para uso concurrente, se crea por consulta
	collate.New(language.Spanish).SortStrings(categorias)
	return categorias
}

func armarFila(reg *entity.Registro, rfcEmpresa string, indice int) dto.EgresoRow {
	campos := cfdi.ResolveFields(reg, rfcEmpresa, cfdi.FolioLista)
	return dto.EgresoRow{
		RowID:             cfdi.RowID(reg, indice),
		Fecha:             cfdi.FormatDateOnly(campos.Fecha),
		Emisor:            cfdi.FormatCell(campos.Emisor),
		RFC:               cfdi.FormatCell(campos.RFC),
		UUID:              cfdi.FormatCell(campos.UUID),
		Serie:             campos.Serie,
		Folio:             campos.Folio,
		Total:             cfdi.FormatTotal(campos.Total),
		Categoria:         cfdi.Categoria(reg),
		EnviadaAComercial: campos.EnviadaAComercial,
		GuidDocumento:     cfdi.DocumentGuid(reg),
	}
}

func coincideBusqueda(fila dto.EgresoRow, busqueda string) bool {
	return strings.Contains(strings.ToLower(fila.Emisor), busqueda) ||
		strings.Contains(strings.ToLower(fila.RFC), busqueda) ||
		strings.Contains(strings.ToLower(fila.UUID), busqueda) ||
		strings.Contains(strings.ToLower(fila.Serie), busqueda)
}

func esRentas(categoria string) bool {
	c := strings.ToLower(categoria)
	return c == "rentas" || c == "arrendamiento"
}
