// Package arrendamiento contiene las reglas de negocio para el envío de
// egresos de rentas: concepto y producto por defecto según la empresa y el
// régimen fiscal del arrendador.
package arrendamiento

// PersonaTipo clasifica al arrendador para elegir defaults.
type PersonaTipo string

const (
	PersonaFisica PersonaTipo = "Fisica"
	PersonaMoral  PersonaTipo = "Moral"
	PersonaResico PersonaTipo = "Resico"
)

// Defaults son los códigos de concepto y producto que se preseleccionan al
// enviar una renta.
type Defaults struct {
	Concepto string
	Producto string
}

// Defaults por base de datos de empresa y tipo de persona.
var defaultsPorEmpresa = map[string]map[PersonaTipo]Defaults{
	"adMSU2024": {
		PersonaFisica: {Concepto: "118", Producto: "7000017"},
		PersonaMoral:  {Concepto: "118", Producto: "7000041"},
		PersonaResico: {Concepto: "130", Producto: "7000092"},
	},
	"adCI_ANAHUAC_SA_D": {
		PersonaFisica: {Concepto: "103", Producto: "7000017"},
		PersonaMoral:  {Concepto: "103", Producto: "7000041"},
		PersonaResico: {Concepto: "130", Producto: "7000065"},
	},
	"adGRUPO_BUENAGUI": {
		PersonaFisica: {Concepto: "103", Producto: "7000017"},
		PersonaMoral:  {Concepto: "103", Producto: "7000041"},
		PersonaResico: {Concepto: "130", Producto: "7000089"},
	},
}

// Sobreescrituras cuando el comprobante trae IVA fronterizo al 8%.
var overridesIVA08 = map[string]map[PersonaTipo]Defaults{
	"adGRUPO_BUENAGUI": {
		PersonaFisica: {Concepto: "1103", Producto: "7001017"},
		PersonaResico: {Concepto: "1130", Producto: "7001089"},
	},
}

// TipoPersona clasifica el régimen fiscal del emisor: 612 y 606 son persona
// física, 626 es RESICO y cualquier otro se trata como persona moral.
func TipoPersona(regimenFiscal string) PersonaTipo {
	switch regimenFiscal {
	case "612", "606":
		return PersonaFisica
	case "626":
		return PersonaResico
	default:
		return PersonaMoral
	}
}

// DefaultsParaEmpresa devuelve el concepto y producto por defecto para una
// renta de la empresa dada, o false si la empresa no tiene configuración.
func DefaultsParaEmpresa(empresaDb, regimenFiscal string, conIVA08 bool) (Defaults, bool) {
	if empresaDb == "" {
		return Defaults{}, false
	}
	porTipo, ok := defaultsPorEmpresa[empresaDb]
	if !ok {
		return Defaults{}, false
	}
	tipo := TipoPersona(regimenFiscal)
	if conIVA08 {
		if ov, ok := overridesIVA08[empresaDb][tipo]; ok {
			return ov, true
		}
	}
	d, ok := porTipo[tipo]
	return d, ok
}
